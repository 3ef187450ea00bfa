package effects

import "github.com/tinygo-org/piomatrix/matrix"

// Wheel spreads the full hue circle over the panel and rotates it one step
// per frame.
type Wheel struct {
	Phase uint8
}

func (*Wheel) Kind() Kind { return KindWheel }
func (*Wheel) effect()    {}

func (w *Wheel) Update(buf *matrix.Buffer) {
	it := Cells()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		hue := it.Index()*256/matrix.Len + int(w.Phase)
		buf.Set(c.Row, c.Col, WheelColor(uint8(hue)))
	}
	w.Phase++
}

// WheelColor maps 0..255 onto a red, green, blue and back to red ramp.
func WheelColor(pos uint8) matrix.Color {
	pos = 255 - pos
	switch {
	case pos < 85:
		return matrix.RGB(255-pos*3, 0, pos*3)
	case pos < 170:
		pos -= 85
		return matrix.RGB(0, pos*3, 255-pos*3)
	}
	pos -= 170
	return matrix.RGB(pos*3, 255-pos*3, 0)
}
