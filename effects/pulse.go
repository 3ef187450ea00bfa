package effects

import (
	"math"

	"github.com/tinygo-org/piomatrix/matrix"
)

const pulsePeriod = 256

// Pulse runs a sine wave over the cells in row-major order, spending pulsePeriod frames on
// each of red, green and blue in turn.
type Pulse struct {
	tick int
}

func (*Pulse) Kind() Kind { return KindPulse }
func (*Pulse) effect()    {}

func (p *Pulse) Update(buf *matrix.Buffer) {
	it := Cells()
	for cell, ok := it.Next(); ok; cell, ok = it.Next() {
		v := uint8((math.Sin(float64(p.tick+it.Index())) + 1) * 255 / 2)
		var c matrix.Color
		switch p.tick / pulsePeriod {
		case 0:
			c = matrix.RGB(v, 0, 0)
		case 1:
			c = matrix.RGB(0, v, 0)
		default:
			c = matrix.RGB(0, 0, v)
		}
		buf.Set(cell.Row, cell.Col, c.Dim(10))
	}
	p.tick = (p.tick + 1) % (3 * pulsePeriod)
}
