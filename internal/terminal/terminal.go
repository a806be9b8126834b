// Package terminal drives a simulation session inside a terminal using tcell.
// Each cell is drawn two columns wide below a one-line status bar.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"potlife/internal/app"
	"potlife/internal/core"
	"potlife/internal/render"
	"potlife/internal/sim"
)

const (
	gridTop          = 1
	cellWidth        = 2
	frameInterval    = time.Second / 30
	maxTicksPerFrame = 64
)

// Driver renders a Session to a tcell screen and feeds it terminal input.
type Driver struct {
	screen  tcell.Screen
	session *app.Session
	pacer   *core.FixedStep
	log     *slog.Logger

	tps        int
	buttons    tcell.ButtonMask
	lastStatus string
	forceDraw  bool
}

// New returns a driver for an initialized screen.
func New(screen tcell.Screen, s *app.Session, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	tps := s.Speed().TPS()
	return &Driver{
		screen:    screen,
		session:   s,
		pacer:     core.NewFixedStep(tps),
		log:       logger,
		tps:       tps,
		forceDraw: true,
	}
}

// Run processes input and advances the simulation until the session quits
// or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	stop := make(chan struct{})
	defer close(stop)
	go d.screen.ChannelEvents(events, stop)

	frame := time.NewTicker(frameInterval)
	defer frame.Stop()

	d.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.HandleEvent(ev)
		case <-frame.C:
			quit, err := d.Advance()
			if quit {
				return nil
			}
			if err != nil {
				d.log.Debug("tick failed", "err", err)
			}
			d.Draw()
		}
	}
}

// Advance runs the ticks owed since the previous frame.
func (d *Driver) Advance() (quit bool, err error) {
	if tps := d.session.Speed().TPS(); tps != d.tps {
		d.tps = tps
		d.pacer.SetTPS(tps)
	}
	for n := d.pacer.Due(maxTicksPerFrame); n > 0; n-- {
		if quit, err = d.session.Tick(); quit || err != nil {
			return quit, err
		}
	}
	return false, nil
}

// HandleEvent translates a terminal event into session input.
func (d *Driver) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a, ok := keyAction(ev); ok {
			d.session.Queue(a)
		}
	case *tcell.EventMouse:
		d.handleMouse(ev)
	case *tcell.EventResize:
		d.screen.Sync()
		d.forceDraw = true
	}
}

func keyAction(ev *tcell.EventKey) (app.Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return app.ActionQuit, true
	case tcell.KeyUp:
		return app.ActionGrow, true
	case tcell.KeyDown:
		return app.ActionShrink, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'd', 'D':
			return app.ActionDraw, true
		case 'c', 'C':
			return app.ActionCompute, true
		case 'r', 'R':
			return app.ActionRandomize, true
		case 'x', 'X':
			return app.ActionClean, true
		case '1':
			return app.ActionSpeedSlow, true
		case '2':
			return app.ActionSpeedMedium, true
		case '3':
			return app.ActionSpeedFast, true
		case 'q', 'Q':
			return app.ActionQuit, true
		}
	}
	return 0, false
}

func (d *Driver) handleMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	pressed := btn &^ d.buttons
	d.buttons = btn
	if pressed&(tcell.Button1|tcell.Button2) == 0 {
		return
	}
	col, row := ev.Position()
	x, y := col/cellWidth, row-gridTop
	side := d.session.Machine().Side()
	if col < 0 || x >= side || y < 0 || y >= side {
		return
	}
	lx, ly := render.CellToLocal(x, y, side)
	erase := pressed&tcell.Button2 != 0 || ev.Modifiers()&tcell.ModShift != 0
	d.session.Press(sim.Pointer{X: lx, Y: ly, Erase: erase})
}

// Draw repaints the screen when the session requested a refresh.
func (d *Driver) Draw() {
	status := d.statusLine()
	if !d.session.TakeDirty() && !d.forceDraw && status == d.lastStatus {
		return
	}
	d.forceDraw = false
	d.lastStatus = status

	d.screen.Clear()
	d.drawText(0, 0, status, tcell.StyleDefault)
	m := d.session.Machine()
	buf := m.Active()
	side := m.Side()
	w, h := d.screen.Size()
	alive, dead := d.cellStyle(true), d.cellStyle(false)
	for y := 0; y < side && y+gridTop < h; y++ {
		for x := 0; x < side && x*cellWidth+1 < w; x++ {
			style := dead
			if buf.Alive(y*side + x) {
				style = alive
			}
			d.screen.SetContent(x*cellWidth, y+gridTop, ' ', nil, style)
			d.screen.SetContent(x*cellWidth+1, y+gridTop, ' ', nil, style)
		}
	}
	d.screen.Show()
}

// drawText writes s starting at column x and returns the column after it.
func (d *Driver) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		d.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func (d *Driver) cellStyle(alive bool) tcell.Style {
	if !alive {
		return tcell.StyleDefault.Background(tcell.ColorBlack)
	}
	c := d.session.Machine().Palette().Alive
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (d *Driver) statusLine() string {
	m := d.session.Machine()
	snap := m.Parameters()
	get := func(key string) string {
		p, _ := snap.Lookup(key)
		return p.Value
	}
	return fmt.Sprintf("%s | size %s | gen %s | alive %s | speed %s | kernel %s",
		d.session.Status(), get("size"), get("generation"), get("alive"), d.session.Speed().Name(), get("kernel"))
}
