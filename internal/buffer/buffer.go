// Package buffer owns the pixel buffers a simulation evolves in place of a
// render texture pair: two equally sized cell grids and the roles they play.
package buffer

import (
	"image"
	"image/color"

	"potlife/internal/core"
)

// Buffer is a square, row-major grid of cell colors backed by an RGBA image.
type Buffer struct {
	img *image.RGBA
}

func newBuffer(side int, fill color.RGBA) *Buffer {
	b := &Buffer{img: image.NewRGBA(image.Rect(0, 0, side, side))}
	b.Fill(fill)
	return b
}

// Side returns the grid side length.
func (b *Buffer) Side() int { return b.img.Rect.Dx() }

// Len returns the number of cells.
func (b *Buffer) Len() int { return len(b.img.Pix) / 4 }

// Pix exposes the backing RGBA8 slice so kernels can read/write it directly.
func (b *Buffer) Pix() []byte { return b.img.Pix }

// Image exposes the buffer as an image for presentation.
func (b *Buffer) Image() *image.RGBA { return b.img }

// Cell returns the color stored at index i.
func (b *Buffer) Cell(i int) color.RGBA {
	p := b.img.Pix[i*4 : i*4+4 : i*4+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// SetCell stores c at index i.
func (b *Buffer) SetCell(i int, c color.RGBA) {
	p := b.img.Pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Alive reports whether the cell at index i carries the alive sentinel.
func (b *Buffer) Alive(i int) bool { return b.img.Pix[i*4] == core.AliveSentinel }

// CountAlive returns the number of live cells.
func (b *Buffer) CountAlive() int {
	n := 0
	for i := 0; i < len(b.img.Pix); i += 4 {
		if b.img.Pix[i] == core.AliveSentinel {
			n++
		}
	}
	return n
}

// Fill sets every cell to c.
func (b *Buffer) Fill(c color.RGBA) {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// CopyFrom overwrites b with the contents of src. Both must share a size.
func (b *Buffer) CopyFrom(src *Buffer) {
	copy(b.img.Pix, src.img.Pix)
}
