package effects

import (
	"math/rand"

	"github.com/tinygo-org/piomatrix/matrix"
)

const (
	// lifeFrames is the default number of frames each generation stays
	// on screen.
	lifeFrames = 10
	// lifeDensity is the share of cells alive after a reseed.
	lifeDensity = 0.3
)

// Grid is a Rows×Cols board of live cells.
type Grid [matrix.Rows][matrix.Cols]bool

// Neighbors counts the live 8-neighbors of (row, col). Edges wrap around.
func (g *Grid) Neighbors(row, col int) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr + matrix.Rows) % matrix.Rows
			c := (col + dc + matrix.Cols) % matrix.Cols
			if g[r][c] {
				n++
			}
		}
	}
	return n
}

// Next returns the following generation: a cell is alive iff it has exactly
// two or three live neighbors.
func (g *Grid) Next() Grid {
	var next Grid
	for row := range g {
		for col := range g[row] {
			n := g.Neighbors(row, col)
			next[row][col] = n == 2 || n == 3
		}
	}
	return next
}

// Empty reports whether no cell is alive.
func (g *Grid) Empty() bool {
	return *g == Grid{}
}

// Life is a cellular automaton on a toroidal board. It reseeds itself when
// the board dies out or stops changing.
//
// One automaton tick spans Hold frames: every cell advances together once
// per Hold calls to Update. A Hold of 1 or less advances on every frame.
type Life struct {
	Grid       Grid
	Generation int
	Hold       int
	frame      int
	rng        *rand.Rand
}

// NewLife returns a randomly seeded board.
func NewLife(rng *rand.Rand) *Life {
	l := &Life{Hold: lifeFrames, rng: rng}
	l.Seed()
	return l
}

func (*Life) Kind() Kind { return KindLife }
func (*Life) effect()    {}

// Seed fills the board with random cells and restarts the generation count.
func (l *Life) Seed() {
	for row := range l.Grid {
		for col := range l.Grid[row] {
			l.Grid[row][col] = l.rng.Float64() < lifeDensity
		}
	}
	l.Generation = 0
}

// Step advances one generation.
func (l *Life) Step() {
	next := l.Grid.Next()
	if next.Empty() || next == l.Grid {
		l.Seed()
		return
	}
	l.Grid = next
	l.Generation++
}

func (l *Life) Update(buf *matrix.Buffer) {
	hold := max(l.Hold, 1)
	if l.frame > 0 && l.frame%hold == 0 {
		l.Step()
	}
	l.frame++
	alive := WheelColor(uint8(l.Generation * 8)).Dim(8)
	for row := range l.Grid {
		for col, on := range l.Grid[row] {
			if on {
				buf.Set(row, col, alive)
			} else {
				buf.Set(row, col, matrix.Black)
			}
		}
	}
}
