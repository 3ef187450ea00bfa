// Package effects holds the animations that can be shown on the matrix.
//
// The set of effects is closed: every variant is listed in Kind and built by
// New. The scheduler owns the active Effect and the buffer it draws on.
package effects

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/tinygo-org/piomatrix/matrix"
)

// Effect mutates a buffer into the next animation frame. The buffer must not
// be retained after Update returns.
type Effect interface {
	Kind() Kind
	Update(buf *matrix.Buffer)
	effect()
}

// Kind selects an effect variant.
type Kind uint8

const (
	KindWheel Kind = iota
	KindMetaballs
	KindCake
	KindLife
	KindOrbit
	KindSingle
	KindPulse
	KindBanner

	numKinds
)

var kindNames = [numKinds]string{
	KindWheel:     "wheel",
	KindMetaballs: "metaballs",
	KindCake:      "cake",
	KindLife:      "life",
	KindOrbit:     "orbit",
	KindSingle:    "single",
	KindPulse:     "pulse",
	KindBanner:    "banner",
}

// Kinds returns every effect kind in selector order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// UnknownEffectError is returned for a selector that names no effect.
// Callers keep the current effect.
type UnknownEffectError struct {
	Selector string
}

func (e *UnknownEffectError) Error() string {
	return "effects: unknown effect " + strconv.Quote(e.Selector)
}

// ParseKind accepts either a selector index ("0".."7") or an effect name.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		if n < uint64(numKinds) {
			return Kind(n), nil
		}
		return 0, &UnknownEffectError{Selector: s}
	}
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, &UnknownEffectError{Selector: s}
}

// New returns a freshly initialised effect of the given kind. rng supplies
// randomness to the effects that need it and must not be shared with
// another goroutine.
func New(kind Kind, rng *rand.Rand) (Effect, error) {
	switch kind {
	case KindWheel:
		return &Wheel{}, nil
	case KindMetaballs:
		return NewMetaballs(rng, DefaultBalls), nil
	case KindCake:
		return NewCake(rng)
	case KindLife:
		return NewLife(rng), nil
	case KindOrbit:
		return &Orbit{}, nil
	case KindSingle:
		return &Single{}, nil
	case KindPulse:
		return &Pulse{}, nil
	case KindBanner:
		return NewBanner(DefaultBannerText), nil
	}
	return nil, &UnknownEffectError{Selector: kind.String()}
}

// Cell is a logical buffer coordinate.
type Cell struct {
	Row, Col int
}

// CellIter walks every cell of the buffer in row-major order.
// The zero value starts at (0, 0).
type CellIter struct {
	i int
}

// Cells returns an iterator positioned before the first cell.
func Cells() CellIter { return CellIter{} }

// Next returns the next cell and false once every cell has been visited.
func (it *CellIter) Next() (Cell, bool) {
	if it.i >= matrix.Len {
		return Cell{}, false
	}
	c := Cell{Row: it.i / matrix.Cols, Col: it.i % matrix.Cols}
	it.i++
	return c, true
}

// Index returns the row-major index of the cell last returned by Next.
func (it *CellIter) Index() int { return it.i - 1 }

// Reset rewinds the iterator to the first cell.
func (it *CellIter) Reset() { it.i = 0 }
