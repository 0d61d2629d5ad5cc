//go:build ebiten

package app

import (
	"fmt"
	"log"
	"time"

	"terrafill/internal/core"
	"terrafill/internal/render"
	"terrafill/internal/terrain"
	"terrafill/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// View selects which stage of the bake is on screen.
type View int

const (
	ViewRaw View = iota
	ViewFilled
	ViewFinal
	viewCount
)

func (v View) String() string {
	return [...]string{"raw", "filled", "final"}[v]
}

// Game adapts a terrain session to the ebiten.Game interface.
type Game struct {
	session *terrain.Session
	hud     *ui.HUD
	overlay *ui.Overlay

	tile    *terrain.Tile
	err     error
	view    View
	mode    render.Mode
	painter *render.Painter

	scale    int
	hudWidth int
	side     int
}

// New constructs a Game showing session.
func New(session *terrain.Session, scale, hudWidth int) *Game {
	scale = max(scale, 1)
	side := session.Config().Side
	return &Game{
		session:  session,
		hud:      ui.NewHUD(session, hudWidth),
		overlay:  ui.NewOverlay(scale),
		view:     ViewFinal,
		mode:     render.ModeShaded,
		painter:  render.NewPainter(side),
		scale:    scale,
		hudWidth: hudWidth,
		side:     side,
	}
}

// Reset rebakes with the provided seed.
func (g *Game) Reset(seed int64) {
	g.session.Reseed(seed)
}

// Update handles input and rebakes when the session changed.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.view = (g.view + 1) % viewCount
		g.refresh()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mode = (g.mode + 1) % (render.ModeShaded + 1)
		g.refresh()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.Reset(g.session.Config().Seed + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.savePNG()
	}

	g.overlay.Update()
	g.hud.Update(g.side * g.scale)

	if g.session.Dirty() {
		g.tile, g.err = g.session.Tile()
		if g.err != nil {
			log.Printf("bake failed: %v", g.err)
		}
		g.refresh()
	}
	return nil
}

func (g *Game) shown() *core.Grid {
	if g.tile == nil {
		return nil
	}
	switch g.view {
	case ViewRaw:
		return g.tile.Raw
	case ViewFilled:
		return g.tile.Filled
	}
	return g.tile.Final
}

func (g *Game) refresh() {
	grid := g.shown()
	if grid == nil {
		return
	}
	g.painter.Upload(grid, g.mode)
	g.overlay.SetTile(g.tile, grid)

	st := g.tile.Fill
	g.hud.SetStatus(
		fmt.Sprintf("view %s (%s)", g.view, g.mode),
		fmt.Sprintf("raised %d cells, volume %.3f", st.Raised, st.Volume),
		fmt.Sprintf("heap inserts %d of %d cells", st.Inserted, st.Cells),
		fmt.Sprintf("deferred %d promoted %d", st.Deferred, st.Promoted),
		fmt.Sprintf("canSpill hits %d", st.CanSpillHits),
	)
}

func (g *Game) savePNG() {
	grid := g.shown()
	if grid == nil {
		return
	}
	path := fmt.Sprintf("tile-%d-%s.png", g.session.Config().Seed, g.view)
	if err := render.SavePNG(path, render.Heightmap(grid, g.mode)); err != nil {
		log.Printf("save: %v", err)
		return
	}
	log.Printf("wrote %s", path)
}

// Draw renders the current view with overlays and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.side*g.scale, g.side*g.scale)
	if g.err != nil {
		ebitenutil.DebugPrintAt(screen, g.err.Error(), 4, 4)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.side*g.scale + g.hudWidth, g.side * g.scale
}
