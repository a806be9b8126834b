//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"potlife/internal/buffer"
)

// GridPainter uploads a cell buffer into a single image and draws it scaled.
type GridPainter struct {
	side int
	img  *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of the given side.
func NewGridPainter(side int) *GridPainter {
	return &GridPainter{side: side, img: ebiten.NewImage(side, side)}
}

// Upload copies the buffer's pixels into the painter image.
func (gp *GridPainter) Upload(b *buffer.Buffer) {
	if b.Side() != gp.side {
		return
	}
	gp.img.WritePixels(b.Pix())
}

// Draw renders the last uploaded grid at the given origin and scale.
func (gp *GridPainter) Draw(dst *ebiten.Image, originX, originY, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(originX), float64(originY))
	dst.DrawImage(gp.img, op)
}

// Side returns the grid side the painter was allocated for.
func (gp *GridPainter) Side() int { return gp.side }

// Dispose releases the GPU image.
func (gp *GridPainter) Dispose() { gp.img.Dispose() }
