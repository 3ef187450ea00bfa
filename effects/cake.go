package effects

import (
	"bytes"
	_ "embed"
	"errors"
	"image"
	"math/rand"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/tinygo-org/piomatrix/matrix"
)

//go:embed assets/cake.bmp
var cakeBMP []byte

const (
	// MaxParticles caps the number of live flame particles.
	MaxParticles = 10
	// particleLifetime is the number of frames a particle is drawn.
	particleLifetime = 6
	spawnChance      = 0.4
	spawnRow         = 3
	spawnCol         = 6
	// cakeDim divides the background image channels.
	cakeDim = 10
)

var errCakeAsset = errors.New("effects: bad cake image")

// Particle is a flame spark rising from the candle.
type Particle struct {
	Age uint8
	Row uint8
	Col uint8
}

// Cake draws a birthday cake with a flickering candle flame.
type Cake struct {
	background [matrix.Rows][matrix.Cols]matrix.Color
	particles  [MaxParticles]Particle
	n          int
	rng        *rand.Rand
}

// NewCake decodes the bundled cake image. An error means the embedded asset
// is corrupt.
func NewCake(rng *rand.Rand) (*Cake, error) {
	img, err := bmp.Decode(bytes.NewReader(cakeBMP))
	if err != nil {
		return nil, errors.Join(errCakeAsset, err)
	}
	if img.Bounds().Empty() {
		return nil, errCakeAsset
	}
	scaled := image.NewRGBA(image.Rect(0, 0, matrix.Cols, matrix.Rows))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	c := &Cake{rng: rng}
	for row := 0; row < matrix.Rows; row++ {
		for col := 0; col < matrix.Cols; col++ {
			c.background[row][col] = matrix.FromColor(scaled.RGBAAt(col, row)).Dim(cakeDim)
		}
	}
	return c, nil
}

func (*Cake) Kind() Kind { return KindCake }
func (*Cake) effect()    {}

// Particles returns the live particles in insertion order.
func (c *Cake) Particles() []Particle {
	return c.particles[:c.n]
}

func (c *Cake) Update(buf *matrix.Buffer) {
	for row := range c.background {
		for col, px := range c.background[row] {
			buf.Set(row, col, px)
		}
	}
	c.step()
	for _, p := range c.Particles() {
		if int(p.Row) < matrix.Rows && int(p.Col) < matrix.Cols {
			buf.Set(int(p.Row), int(p.Col), particleColor(p.Age))
		}
	}
}

// step ages and moves every particle, drops the expired ones and then
// maybe spawns a new particle at the candle wick.
func (c *Cake) step() {
	kept := c.particles[:0]
	for _, p := range c.Particles() {
		p.Age++
		if p.Age >= particleLifetime {
			continue
		}
		if p.Row > 0 {
			p.Row--
		}
		switch c.rng.Intn(3) {
		case 0:
			if p.Col > 0 {
				p.Col--
			}
		case 2:
			if p.Col < 255 {
				p.Col++
			}
		}
		kept = append(kept, p)
	}
	c.n = len(kept)
	if c.n < MaxParticles && c.rng.Float64() < spawnChance {
		c.particles[c.n] = Particle{Row: spawnRow, Col: spawnCol}
		c.n++
	}
}

func particleColor(age uint8) matrix.Color {
	switch age {
	case 0:
		return matrix.RGB(20, 18, 8)
	case 1:
		return matrix.RGB(100, 51, 0)
	}
	return matrix.RGB(100, 32, 0)
}
