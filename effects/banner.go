package effects

import (
	"tinygo.org/x/tinyfont"

	"github.com/tinygo-org/piomatrix/matrix"
)

// DefaultBannerText is the message New gives a Banner effect.
const DefaultBannerText = "HAPPY BIRTHDAY"

const (
	// bannerFrames is how many frames the text stays at each offset.
	bannerFrames = 6
	// bannerBaseline is the text baseline row; TomThumb glyphs are 5px tall.
	bannerBaseline = 10
	bannerDim      = 4
)

// Banner scrolls a line of text right to left with a slowly cycling color.
type Banner struct {
	Text  string
	x     int16
	width int16
	frame int
	hue   uint8
}

// NewBanner returns a banner that enters from the right edge.
func NewBanner(text string) *Banner {
	_, outbox := tinyfont.LineWidth(&tinyfont.TomThumb, text)
	return &Banner{Text: text, x: matrix.Cols, width: int16(outbox)}
}

func (*Banner) Kind() Kind { return KindBanner }
func (*Banner) effect()    {}

func (b *Banner) Update(buf *matrix.Buffer) {
	buf.Clear()
	cv := &matrix.Canvas{Buf: buf, Dim: bannerDim}
	tinyfont.WriteLine(cv, &tinyfont.TomThumb, b.x, bannerBaseline, b.Text, WheelColor(b.hue).RGBA8())

	b.frame++
	if b.frame%bannerFrames != 0 {
		return
	}
	b.hue += 4
	b.x--
	if b.x < -b.width {
		b.x = matrix.Cols
	}
}
