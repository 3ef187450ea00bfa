package matrix

import "image/color"

// Color is an 8-bit per channel RGB value.
//
// Field order matches the little-endian word the WS2812 driver shifts out:
// read as a uint32 a Color is G<<24 | R<<16 | B<<8 with a zero low byte.
type Color struct {
	_ uint8
	B uint8
	R uint8
	G uint8
}

// Black is the zero Color.
var Black Color

// RGB returns the color with the given channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromColor converts any color.Color, dropping alpha after premultiplication.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// GRB returns the wire word for the color: green in bits 31..24, red in
// 23..16, blue in 15..8. The low byte is never transmitted.
func (c Color) GRB() uint32 {
	return uint32(c.G)<<24 | uint32(c.R)<<16 | uint32(c.B)<<8
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// RGBA8 returns the color as an opaque color.RGBA.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Dim divides every channel by div. Dim(0) and Dim(1) return c unchanged.
func (c Color) Dim(div uint8) Color {
	if div <= 1 {
		return c
	}
	return RGB(c.R/div, c.G/div, c.B/div)
}
