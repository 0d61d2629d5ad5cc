//go:build !ebiten

package ui

import (
	"terrafill/internal/core"
	"terrafill/internal/terrain"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(int) *Overlay { return &Overlay{} }

// SetTile is a no-op in headless builds.
func (o *Overlay) SetTile(*terrain.Tile, *core.Grid) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
