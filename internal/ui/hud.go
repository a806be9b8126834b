//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"potlife/internal/core"
)

// HUD renders the state panel to the right of the grid view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int

	status   string
	speed    string
	snapshot core.ParameterSnapshot
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Width returns the panel width in screen pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update caches the values drawn on the next frame.
func (h *HUD) Update(status, speed string, snapshot core.ParameterSnapshot) {
	if h == nil {
		return
	}
	h.status = status
	h.speed = speed
	h.snapshot = snapshot
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		if h.panel != nil {
			h.panel.Dispose()
		}
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.status, face, panelPadding, y, titleColor)
	y += lineHeight

	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, groupColor)
		y += lineHeight
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding*2, y, valueColor)
			y += lineHeight
		}
	}
	text.Draw(h.panel, "Speed: "+h.speed, face, panelPadding, y, valueColor)
	y += lineHeight * 2

	for _, line := range helpLines {
		text.Draw(h.panel, line, face, panelPadding, y, helpColor)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var helpLines = []string{
	"D draw   C compute",
	"R random X clean",
	"Up/Down  grid size",
	"1/2/3    speed",
	"G        gridlines",
	"click    paint alive",
	"shift    paint dead",
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	valueColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	helpColor  = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 18
	headerBaseline = 18
)
