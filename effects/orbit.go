package effects

import (
	"math"

	"github.com/tinygo-org/piomatrix/matrix"
)

const orbitStep = 0.05

// orbiter is a source tracing a Lissajous curve around the panel centre.
type orbiter struct {
	radius float64
	rateX  float64
	rateY  float64
	phase  float64
}

var orbiters = [...]orbiter{
	{radius: 5, rateX: 1, rateY: 1, phase: 0},
	{radius: 4, rateX: 1.3, rateY: 0.7, phase: 2.1},
	{radius: 6, rateX: 0.6, rateY: 1.1, phase: 4.2},
}

// Orbit is the metaball field of a fixed set of sinusoidally moving sources.
// It needs no randomness and repeats exactly.
type Orbit struct {
	t float64
}

func (*Orbit) Kind() Kind { return KindOrbit }
func (*Orbit) effect()    {}

func (o *Orbit) Update(buf *matrix.Buffer) {
	var xs, ys [len(orbiters)]float32
	for i, src := range orbiters {
		xs[i], ys[i] = src.at(o.t)
	}
	renderField(buf, func(row, col float32) float32 {
		var total float32
		for i := range xs {
			total += inverseDistance(row-xs[i], col-ys[i])
		}
		return total
	})
	o.t += orbitStep
}

func (src orbiter) at(t float64) (x, y float32) {
	const cx, cy = (matrix.Rows - 1) / 2.0, (matrix.Cols - 1) / 2.0
	x = float32(cx + src.radius*math.Sin(t*src.rateX+src.phase))
	y = float32(cy + src.radius*math.Cos(t*src.rateY+src.phase))
	return x, y
}
