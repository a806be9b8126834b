//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"potlife/internal/render"
)

var gridLineColor = color.RGBA{R: 60, G: 60, B: 68, A: 255}

// Overlay draws gridlines on top of the cell grid.
type Overlay struct {
	visible bool
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay with gridlines shown.
func NewOverlay() *Overlay {
	o := &Overlay{visible: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the gridlines with G.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.visible = !o.visible
	}
}

// Visible reports whether gridlines are drawn.
func (o *Overlay) Visible() bool { return o.visible }

// Draw renders one line per cell boundary over a grid of side cells drawn at
// (originX, originY) with the given scale. Nothing is drawn for small cells.
func (o *Overlay) Draw(screen *ebiten.Image, originX, originY, scale, side int) {
	if !o.visible {
		return
	}
	extent := float64(side * scale)
	for _, x := range render.GridLines(originX, scale, side) {
		o.drawRect(screen, float64(x), float64(originY), 1, extent)
	}
	for _, y := range render.GridLines(originY, scale, side) {
		o.drawRect(screen, float64(originX), float64(y), extent, 1)
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(gridLineColor)
	screen.DrawImage(o.pixel, op)
}
