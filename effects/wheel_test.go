package effects

import (
	"testing"

	"github.com/tinygo-org/piomatrix/matrix"
)

func TestWheelColor(t *testing.T) {
	tests := []struct {
		pos  uint8
		want matrix.Color
	}{
		{0, matrix.RGB(255, 0, 0)},
		{85, matrix.RGB(0, 255, 0)},
		{170, matrix.RGB(0, 0, 255)},
		{255, matrix.RGB(255, 0, 0)},
	}
	for _, tt := range tests {
		if got := WheelColor(tt.pos); got != tt.want {
			t.Errorf("WheelColor(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestWheelColorContinuous(t *testing.T) {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	for i := 0; i < 256; i++ {
		a, b := WheelColor(uint8(i)), WheelColor(uint8(i+1))
		if diff(a.R, b.R) > 3 || diff(a.G, b.G) > 3 || diff(a.B, b.B) > 3 {
			t.Errorf("WheelColor(%d)=%v and WheelColor(%d)=%v differ by more than 3", i, a, uint8(i+1), b)
		}
	}
}

func TestWheelUpdate(t *testing.T) {
	var buf matrix.Buffer
	w := &Wheel{}
	w.Update(&buf)
	if got := buf.Get(0, 0); got != WheelColor(0) {
		t.Errorf("frame 0 cell 0 = %v", got)
	}
	if got := buf.Get(1, 2); got != WheelColor(matrix.Cols+2) {
		t.Errorf("frame 0 cell (1,2) = %v", got)
	}
	w.Update(&buf)
	if got := buf.Get(0, 0); got != WheelColor(1) {
		t.Errorf("frame 1 cell 0 = %v, want phase advanced by one", got)
	}
	w.Phase = 255
	w.Update(&buf)
	if w.Phase != 0 {
		t.Errorf("phase did not wrap: %d", w.Phase)
	}
	if got := buf.Get(0, 1); got != WheelColor(0) {
		t.Errorf("phase 255 cell 1 = %v, want wrap to hue 0", got)
	}
}

func TestSingle(t *testing.T) {
	var buf matrix.Buffer
	buf.Fill(matrix.RGB(1, 1, 1))
	s := &Single{}
	s.Update(&buf)
	dot := matrix.RGB(30, 30, 30)
	if buf.At(0) != dot || buf.At(1) != matrix.Black {
		t.Fatal("first frame should clear and light LED 0")
	}
	for i := 0; i < matrix.Len; i++ {
		s.Update(&buf)
	}
	// After a full lap the dot is back on LED 0 and LED Len-1 is dark.
	if buf.At(0) != dot || buf.At(matrix.Len-1) != matrix.Black {
		t.Error("dot did not wrap around the chain")
	}
	lit := 0
	for i := 0; i < matrix.Len; i++ {
		if buf.At(i) != matrix.Black {
			lit++
		}
	}
	if lit != 1 {
		t.Errorf("%d LEDs lit, want 1", lit)
	}
}

func TestPulseChannels(t *testing.T) {
	var buf matrix.Buffer
	p := &Pulse{}
	check := func(name string, ok func(c matrix.Color) bool) {
		t.Helper()
		it := Cells()
		for c, more := it.Next(); more; c, more = it.Next() {
			px := buf.Get(c.Row, c.Col)
			if !ok(px) {
				t.Fatalf("%s: cell %v = %v", name, c, px)
			}
		}
	}
	p.Update(&buf)
	check("red phase", func(c matrix.Color) bool { return c.G == 0 && c.B == 0 && c.R <= 25 })
	p.tick = pulsePeriod
	p.Update(&buf)
	check("green phase", func(c matrix.Color) bool { return c.R == 0 && c.B == 0 && c.G <= 25 })
	p.tick = 3*pulsePeriod - 1
	p.Update(&buf)
	check("blue phase", func(c matrix.Color) bool { return c.R == 0 && c.G == 0 && c.B <= 25 })
	if p.tick != 0 {
		t.Errorf("tick did not wrap: %d", p.tick)
	}
}
