//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"terrafill/internal/core"
	"terrafill/internal/render"
	"terrafill/internal/terrain"
	"terrafill/pkg/priorityflood"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional diagnostics on top of the heightmap view: the
// water the fill added, downstream flow directions and remaining pits.
type Overlay struct {
	scale int

	showDepressions bool
	showFlow        bool
	showPits        bool

	tile     *terrain.Tile
	shown    *core.Grid
	depthImg *ebiten.Image
	depthBuf []byte
	flow     []flowSample
	pits     []int

	pixel *ebiten.Image
}

type flowSample struct {
	sx, sy float64
	dx, dy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: max(scale, 1), showDepressions: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetTile points the overlay at a freshly baked tile and the grid currently
// on screen.
func (o *Overlay) SetTile(t *terrain.Tile, shown *core.Grid) {
	o.tile = t
	o.shown = shown
	o.flow = nil
	o.pits = nil
	if t == nil {
		return
	}
	side := t.Raw.Side
	if o.depthImg == nil || o.depthImg.Bounds().Dx() != side {
		o.depthImg = ebiten.NewImage(side, side)
		o.depthBuf = make([]byte, 4*side*side)
	}
	render.DepressionPixels(o.depthBuf, t.Raw, t.Filled)
	o.depthImg.WritePixels(o.depthBuf)
	o.flow = o.sampleFlow(t)
	if shown != nil {
		o.pits, _ = priorityflood.LocalMinima(shown.Side, shown.Cells(), t.Outlet)
	}
}

// Update toggles layers: 1 depressions, 2 flow, 3 pits.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showDepressions = !o.showDepressions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFlow = !o.showFlow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showPits = !o.showPits
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.tile == nil {
		return
	}
	s := float64(o.scale)
	if o.showDepressions && o.depthImg != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(s, s)
		screen.DrawImage(o.depthImg, op)
	}
	if o.showFlow {
		col := color.RGBA{R: 150, G: 220, B: 250, A: 220}
		for _, f := range o.flow {
			o.drawArrow(screen, f, col)
		}
	}
	if o.showPits && o.shown != nil {
		for _, p := range o.pits {
			x, y := o.shown.Coords(p)
			o.drawPoint(screen, (float64(x)+0.5)*s, (float64(y)+0.5)*s, math.Max(s, 3), color.RGBA{R: 230, G: 60, B: 40, A: 255})
		}
	}
	ox, oy := o.tile.Raw.Coords(o.tile.Outlet)
	o.drawPoint(screen, (float64(ox)+0.5)*s, (float64(oy)+0.5)*s, math.Max(2*s, 6), color.RGBA{R: 255, G: 210, B: 40, A: 255})
}

// sampleFlow picks flow directions on a sparse lattice so arrows stay
// legible at any tile size.
func (o *Overlay) sampleFlow(t *terrain.Tile) []flowSample {
	const targetSamples = 400.0
	side := t.Filled.Side
	dirs, err := priorityflood.FlowDirections(side, t.Filled.Cells(), t.Outlet)
	if err != nil {
		return nil
	}
	spacing := max(int(math.Sqrt(float64(side*side)/targetSamples)), 4)
	s := float64(o.scale)
	var out []flowSample
	for y := spacing / 2; y < side; y += spacing {
		for x := spacing / 2; x < side; x += spacing {
			d := dirs[y*side+x]
			if d == priorityflood.NoFlow {
				continue
			}
			dx, dy := priorityflood.Offset(d)
			out = append(out, flowSample{
				sx: (float64(x) + 0.5) * s,
				sy: (float64(y) + 0.5) * s,
				dx: float64(dx),
				dy: float64(dy),
			})
		}
	}
	return out
}

func (o *Overlay) drawArrow(screen *ebiten.Image, f flowSample, col color.RGBA) {
	const headAngle = math.Pi / 6
	length := math.Max(float64(o.scale)*3, 6)
	n := math.Hypot(f.dx, f.dy)
	ux, uy := f.dx/n, f.dy/n
	tipX, tipY := f.sx+ux*length/2, f.sy+uy*length/2
	tailX, tailY := f.sx-ux*length/2, f.sy-uy*length/2
	o.drawLine(screen, tailX, tailY, tipX, tipY, 1, col)

	head := length * 0.35
	angle := math.Atan2(uy, ux)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, 1, col)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, 1, col)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
