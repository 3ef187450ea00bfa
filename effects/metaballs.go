package effects

import (
	"math"
	"math/rand"

	"github.com/tinygo-org/piomatrix/matrix"
)

const (
	// DefaultBalls is the number of sources New gives a Metaballs effect.
	DefaultBalls = 3

	// Ball speeds are in cells per frame.
	ballMaxSpeed = 0.1
	ballNudge    = ballMaxSpeed / 10
)

// Ball is a metaball source moving inside [0, Rows]×[0, Cols].
type Ball struct {
	X, Y   float32
	VX, VY float32
}

// Metaballs renders the summed inverse distance field of bouncing sources.
type Metaballs struct {
	Balls []Ball
	rng   *rand.Rand
}

// NewMetaballs places n balls at random positions with small random velocities.
func NewMetaballs(rng *rand.Rand, n int) *Metaballs {
	m := &Metaballs{Balls: make([]Ball, n), rng: rng}
	for i := range m.Balls {
		m.Balls[i] = Ball{
			X:  rng.Float32() * matrix.Rows,
			Y:  rng.Float32() * matrix.Cols,
			VX: spread(rng, ballMaxSpeed),
			VY: spread(rng, ballMaxSpeed),
		}
	}
	return m
}

// spread returns a uniform value in [-width/2, width/2).
func spread(rng *rand.Rand, width float32) float32 {
	return rng.Float32()*width - width/2
}

func (*Metaballs) Kind() Kind { return KindMetaballs }
func (*Metaballs) effect()    {}

func (m *Metaballs) Update(buf *matrix.Buffer) {
	for i := range m.Balls {
		m.Balls[i].step(m.rng)
	}
	renderField(buf, func(row, col float32) float32 {
		var total float32
		for _, b := range m.Balls {
			total += inverseDistance(row-b.X, col-b.Y)
		}
		return total
	})
}

func (b *Ball) step(rng *rand.Rand) {
	b.X += b.VX
	b.Y += b.VY
	b.VX += spread(rng, ballNudge)
	b.VY += spread(rng, ballNudge)
	b.X, b.VX = reflect(b.X, b.VX, matrix.Rows)
	b.Y, b.VY = reflect(b.Y, b.VY, matrix.Cols)

	speedSq := b.VX*b.VX + b.VY*b.VY
	if speedSq > ballMaxSpeed*ballMaxSpeed {
		scale := ballMaxSpeed / float32(math.Sqrt(float64(speedSq)))
		b.VX *= scale
		b.VY *= scale
	}
}

// reflect bounces pos back into [0, limit) and flips v when it left.
func reflect(pos, v, limit float32) (float32, float32) {
	switch {
	case pos >= limit:
		return math.Nextafter32(limit, 0), -v
	case pos < 0:
		return 0, -v
	}
	return pos, v
}

func inverseDistance(dx, dy float32) float32 {
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if d == 0 {
		return 0
	}
	return 1 / d
}

// renderField colors every cell from the field value at its coordinates.
func renderField(buf *matrix.Buffer, field func(row, col float32) float32) {
	it := Cells()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		buf.Set(c.Row, c.Col, fieldColor(field(float32(c.Row), float32(c.Col))))
	}
}

// fieldColor thresholds a field value into three bands.
func fieldColor(total float32) matrix.Color {
	switch {
	case total > 3:
		return matrix.RGB(0, 30, 10)
	case total > 2:
		return matrix.RGB(0, 30, uint8((total-1)*10))
	case total > 1:
		return matrix.RGB(0, uint8(total*2), 0)
	}
	return matrix.Black
}
