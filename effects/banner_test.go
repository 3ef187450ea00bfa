package effects

import (
	"testing"

	"github.com/tinygo-org/piomatrix/matrix"
)

func litCount(buf *matrix.Buffer) int {
	n := 0
	for i := 0; i < matrix.Len; i++ {
		if buf.At(i) != matrix.Black {
			n++
		}
	}
	return n
}

func TestBannerScrolls(t *testing.T) {
	b := NewBanner("HI")
	if b.width <= 0 {
		t.Fatalf("text width %d", b.width)
	}
	var buf matrix.Buffer
	b.Update(&buf)
	if n := litCount(&buf); n != 0 {
		t.Errorf("text starts off screen, %d pixels lit", n)
	}
	// Scroll until the text is fully on the panel.
	for i := 0; i < bannerFrames*int(b.width+2); i++ {
		b.Update(&buf)
	}
	if litCount(&buf) == 0 {
		t.Error("text never appeared")
	}
	if b.x >= matrix.Cols {
		t.Errorf("x = %d, text did not move left", b.x)
	}
}

func TestBannerWraps(t *testing.T) {
	b := NewBanner("HI")
	var buf matrix.Buffer
	b.x = -b.width
	for i := 0; i < bannerFrames; i++ {
		b.Update(&buf)
	}
	if b.x != matrix.Cols {
		t.Errorf("x = %d after leaving the panel, want %d", b.x, matrix.Cols)
	}
}
