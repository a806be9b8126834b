//go:build ebiten

package app

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"potlife/internal/render"
	"potlife/internal/sim"
	"potlife/internal/ui"
)

const hudWidth = 200

var keyActions = []struct {
	key    ebiten.Key
	action Action
}{
	{ebiten.KeyD, ActionDraw},
	{ebiten.KeyC, ActionCompute},
	{ebiten.KeyR, ActionRandomize},
	{ebiten.KeyX, ActionClean},
	{ebiten.KeyArrowUp, ActionGrow},
	{ebiten.KeyArrowDown, ActionShrink},
	{ebiten.KeyDigit1, ActionSpeedSlow},
	{ebiten.KeyDigit2, ActionSpeedMedium},
	{ebiten.KeyDigit3, ActionSpeedFast},
	{ebiten.KeyQ, ActionQuit},
	{ebiten.KeyEscape, ActionQuit},
}

// Game adapts a Session to the ebiten.Game interface. One ebiten update is
// one simulation tick; the speed preset sets the tick rate.
type Game struct {
	session *Session
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	log     *slog.Logger

	viewport int
	tps      int
}

// New constructs a Game for the provided session.
func New(s *Session, viewport int, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	if viewport <= 0 {
		viewport = 512
	}
	return &Game{
		session:  s,
		hud:      ui.NewHUD(hudWidth),
		overlay:  ui.NewOverlay(),
		log:      logger,
		viewport: viewport,
		tps:      s.Speed().TPS(),
	}
}

// TPS returns the tick rate the game should run at.
func (g *Game) TPS() int { return g.tps }

// view is the square area reserved for the grid; it grows when one pixel per
// cell no longer fits the configured viewport.
func (g *Game) view() int {
	if side := g.session.Machine().Side(); side > g.viewport {
		return side
	}
	return g.viewport
}

func (g *Game) gridLayout() (originX, originY, scale int) {
	side := g.session.Machine().Side()
	view := g.view()
	scale = render.FitScale(side, view)
	offset := (view - side*scale) / 2
	if offset < 0 {
		offset = 0
	}
	return offset, offset, scale
}

// Update handles per-tick input and advances the simulation.
func (g *Game) Update() error {
	for _, ka := range keyActions {
		if inpututil.IsKeyJustPressed(ka.key) {
			g.session.Queue(ka.action)
		}
	}
	g.overlay.Update()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		ox, oy, scale := g.gridLayout()
		if lx, ly, ok := render.ScreenToLocal(mx, my, ox, oy, scale, g.session.Machine().Side()); ok {
			g.session.Press(sim.Pointer{X: lx, Y: ly, Erase: ebiten.IsKeyPressed(ebiten.KeyShift)})
		}
	}

	quit, err := g.session.Tick()
	if quit {
		return ebiten.Termination
	}
	if err != nil {
		g.log.Debug("tick failed", "err", err)
	}

	if tps := g.session.Speed().TPS(); tps != g.tps {
		g.tps = tps
		ebiten.SetTPS(tps)
	}
	m := g.session.Machine()
	g.hud.Update(g.session.Status(), g.session.Speed().Name(), m.Parameters())
	return nil
}

// Draw renders the active buffer and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	m := g.session.Machine()
	fresh := false
	if g.painter == nil || g.painter.Side() != m.Side() {
		if g.painter != nil {
			g.painter.Dispose()
		}
		g.painter = render.NewGridPainter(m.Side())
		fresh = true
	}
	if g.session.TakeDirty() || fresh {
		g.painter.Upload(m.Active())
	}
	ox, oy, scale := g.gridLayout()
	g.painter.Draw(screen, ox, oy, scale)
	g.overlay.Draw(screen, ox, oy, scale, m.Side())
	view := g.view()
	g.hud.Draw(screen, view, view)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	view := g.view()
	return view + g.hud.Width(), view
}
