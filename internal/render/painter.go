//go:build ebiten

package render

import (
	"terrafill/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter keeps one GPU image per heightmap size and re-uploads pixels only
// when asked to.
type Painter struct {
	side int
	img  *ebiten.Image
	buf  []byte
}

// NewPainter allocates a painter for side x side grids.
func NewPainter(side int) *Painter {
	return &Painter{side: side, img: ebiten.NewImage(side, side), buf: make([]byte, 4*side*side)}
}

// Upload renders g with mode into the painter image. Grids of another size
// are ignored.
func (p *Painter) Upload(g *core.Grid, mode Mode) {
	if g == nil || g.Side != p.side {
		return
	}
	HeightPixels(p.buf, g, mode)
	p.img.WritePixels(p.buf)
}

// Draw blits the last upload onto dst at the given scale.
func (p *Painter) Draw(dst *ebiten.Image, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Side returns the grid side the painter was built for.
func (p *Painter) Side() int { return p.side }
