package effects

import "github.com/tinygo-org/piomatrix/matrix"

// Single walks one dim white LED along the chain.
type Single struct {
	pos     int
	started bool
}

func (*Single) Kind() Kind { return KindSingle }
func (*Single) effect()    {}

func (s *Single) Update(buf *matrix.Buffer) {
	if !s.started {
		buf.Clear()
		s.started = true
	} else {
		buf.SetAt(s.pos, matrix.Black)
		s.pos = (s.pos + 1) % matrix.Len
	}
	buf.SetAt(s.pos, matrix.RGB(30, 30, 30))
}
