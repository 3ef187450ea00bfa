package matrix

// Geometry of the panel. The wiring is serpentine: even rows run right to
// left, odd rows left to right.
const (
	Rows = 16
	Cols = 16
	Len  = Rows * Cols
)

const badCoordinate = "matrix: coordinate out of range"

// Buffer is a Rows×Cols frame addressed by logical (row, col) coordinates.
// Pixels are stored in wiring order so the frame can be streamed as is.
type Buffer struct {
	px [Rows][Cols]Color
}

// PhysicalCol returns the wiring column of a logical coordinate.
func PhysicalCol(row, col int) int {
	if row%2 == 0 {
		return Cols - 1 - col
	}
	return col
}

// Index returns the position of (row, col) in the LED chain.
func Index(row, col int) int {
	checkCoord(row, col)
	return row*Cols + PhysicalCol(row, col)
}

func checkCoord(row, col int) {
	if uint(row) >= Rows || uint(col) >= Cols {
		panic(badCoordinate)
	}
}

// Get returns the color at (row, col). It panics if the coordinate is out of range.
func (b *Buffer) Get(row, col int) Color {
	checkCoord(row, col)
	return b.px[row][PhysicalCol(row, col)]
}

// Set stores c at (row, col). It panics if the coordinate is out of range.
func (b *Buffer) Set(row, col int, c Color) {
	checkCoord(row, col)
	b.px[row][PhysicalCol(row, col)] = c
}

// At returns the color of the i-th LED in the chain.
func (b *Buffer) At(i int) Color {
	if uint(i) >= Len {
		panic(badCoordinate)
	}
	return b.px[i/Cols][i%Cols]
}

// SetAt stores c at the i-th LED in the chain.
func (b *Buffer) SetAt(i int, c Color) {
	if uint(i) >= Len {
		panic(badCoordinate)
	}
	b.px[i/Cols][i%Cols] = c
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	for r := range b.px {
		for i := range b.px[r] {
			b.px[r][i] = c
		}
	}
}

// Clear sets every pixel to black.
func (b *Buffer) Clear() { b.Fill(Black) }

// EncodeGRB serializes the frame in chain order into dst, one GRB word
// per LED as returned by Color.GRB. dst is what the driver streams to the
// state machine; the buffer itself is never handed to hardware.
func (b *Buffer) EncodeGRB(dst *[Len]uint32) {
	for r := range b.px {
		for c, px := range b.px[r] {
			dst[r*Cols+c] = px.GRB()
		}
	}
}
