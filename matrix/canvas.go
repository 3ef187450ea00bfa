package matrix

import (
	"image/color"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Canvas)(nil)

// Canvas draws on a Buffer through the drivers.Displayer interface so that
// tinydraw/tinyfont style renderers can target the matrix. x is the column
// and y the row. Pixels outside the panel are clipped.
type Canvas struct {
	Buf *Buffer
	// Dim divides every drawn color channel.
	Dim uint8
}

// Size returns the panel size in pixels.
func (cv *Canvas) Size() (x, y int16) {
	return Cols, Rows
}

// SetPixel sets the pixel at (x, y). Out-of-range pixels are ignored.
func (cv *Canvas) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= Cols || y >= Rows {
		return
	}
	cv.Buf.Set(int(y), int(x), RGB(c.R, c.G, c.B).Dim(cv.Dim))
}

// Display is a no-op; frames are pushed by the scheduler.
func (cv *Canvas) Display() error {
	return nil
}
