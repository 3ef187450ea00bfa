package effects

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tinygo-org/piomatrix/matrix"
)

func TestFieldColorBands(t *testing.T) {
	tests := []struct {
		total float32
		want  matrix.Color
	}{
		{0, matrix.Black},
		{1, matrix.Black},
		{1.5, matrix.RGB(0, 3, 0)},
		{2.5, matrix.RGB(0, 30, 15)},
		{3.5, matrix.RGB(0, 30, 10)},
	}
	for _, tt := range tests {
		if got := fieldColor(tt.total); got != tt.want {
			t.Errorf("fieldColor(%v) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestBallStaysInBoundsAndUnderMaxSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewMetaballs(rng, 5)
	var buf matrix.Buffer
	for frame := 0; frame < 5000; frame++ {
		m.Update(&buf)
		for i, b := range m.Balls {
			if b.X < 0 || b.X >= matrix.Rows || b.Y < 0 || b.Y >= matrix.Cols {
				t.Fatalf("frame %d ball %d out of bounds: %+v", frame, i, b)
			}
			speed := math.Sqrt(float64(b.VX*b.VX + b.VY*b.VY))
			if speed > ballMaxSpeed*1.0001 {
				t.Fatalf("frame %d ball %d speed %v exceeds %v", frame, i, speed, ballMaxSpeed)
			}
		}
	}
}

func TestBallReflects(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := Ball{X: matrix.Rows - 0.01, Y: 0.01, VX: 0.05, VY: -0.05}
	b.step(rng)
	if b.X >= matrix.Rows || b.X < matrix.Rows-0.001 || b.VX >= 0 {
		t.Errorf("bottom edge: X=%v VX=%v", b.X, b.VX)
	}
	if b.Y != 0 || b.VY <= 0 {
		t.Errorf("left edge: Y=%v VY=%v", b.Y, b.VY)
	}
}

func TestReflectHalfOpen(t *testing.T) {
	tests := []struct {
		pos, v   float32
		wantPos  float32
		wantFlip bool
	}{
		{8, 1, 8, false},
		{0, -1, 0, false},
		{-0.5, -1, 0, true},
		{16, 1, math.Nextafter32(16, 0), true},
		{16.5, 1, math.Nextafter32(16, 0), true},
	}
	for _, tt := range tests {
		pos, v := reflect(tt.pos, tt.v, 16)
		if pos != tt.wantPos || (v == -tt.v) != tt.wantFlip {
			t.Errorf("reflect(%v, %v) = %v, %v", tt.pos, tt.v, pos, v)
		}
		if pos < 0 || pos >= 16 {
			t.Errorf("reflect(%v, %v) left [0, 16): %v", tt.pos, tt.v, pos)
		}
	}
}

func TestMetaballsSourceOnCell(t *testing.T) {
	m := &Metaballs{Balls: []Ball{{X: 4, Y: 4}, {X: 4, Y: 6}}, rng: rand.New(rand.NewSource(1))}
	var buf matrix.Buffer
	renderField(&buf, func(row, col float32) float32 {
		var total float32
		for _, b := range m.Balls {
			total += inverseDistance(row-b.X, col-b.Y)
		}
		return total
	})
	// The source under (4,4) adds nothing there instead of dividing by zero,
	// leaving only 1/2 from the other one.
	if got := buf.Get(4, 4); got != matrix.Black {
		t.Errorf("cell under source = %v", got)
	}
	// Halfway between both sources the field is 2.
	if got, want := buf.Get(4, 5), matrix.RGB(0, 4, 0); got != want {
		t.Errorf("cell between sources = %v, want %v", got, want)
	}
}

func TestOrbitDeterministic(t *testing.T) {
	var a, b matrix.Buffer
	o1, o2 := &Orbit{}, &Orbit{}
	for i := 0; i < 50; i++ {
		o1.Update(&a)
		o2.Update(&b)
	}
	if a != b {
		t.Error("two orbits from the same start diverged")
	}
	lit := false
	it := Cells()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		if a.Get(c.Row, c.Col) != matrix.Black {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("orbit rendered an empty frame")
	}
}
