// Package sim implements the Draw/Compute state machine that owns the cell
// buffers, routes paint edits in Draw mode and drives one accelerator step
// per tick in Compute mode.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"potlife/internal/accel"
	"potlife/internal/buffer"
	"potlife/internal/core"
	"potlife/internal/paint"
)

// Config controls construction of a Machine.
type Config struct {
	// Size is the requested grid side; it is rounded up to a power of two.
	Size      int
	Randomize bool
	Seed      int64

	// Palette defaults to core.DefaultPalette when zero.
	Palette core.Palette
	// Kernel may be nil, in which case Compute can never be entered.
	Kernel core.Kernel

	OnEvent func(Event)
	Logger  *slog.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Size: 8, Randomize: true, Seed: 42, Palette: core.DefaultPalette()}
}

// Pointer is a single pointer-down in the grid's centered local frame.
type Pointer struct {
	X, Y float64
	// Erase is set while the secondary action is held and paints dead cells.
	Erase bool
}

// Machine is the simulation state. It is not safe for concurrent use; the
// driver must call Tick from one goroutine and never overlap ticks.
type Machine struct {
	geom    core.Geometry
	palette core.Palette
	store   *buffer.Store
	editor  paint.Editor
	bridge  *accel.Bridge
	rng     *core.RNG

	mode       Mode
	generation int
	configErr  error

	onEvent func(Event)
	log     *slog.Logger
}

// New builds a machine in Draw mode with freshly seeded buffers.
func New(cfg Config) (*Machine, error) {
	p := cfg.Palette
	if p == (core.Palette{}) {
		p = core.DefaultPalette()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	geom, err := core.NewGeometry(cfg.Size)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		palette: p,
		store:   buffer.NewStore(p),
		editor:  paint.NewEditor(p),
		bridge:  accel.NewBridge(cfg.Kernel),
		rng:     core.NewRNG(cfg.Seed),
		onEvent: cfg.OnEvent,
		log:     cfg.Logger,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.reinitialize(geom.Side, cfg.Randomize)
	return m, nil
}

// Resize reallocates the grid at the canonical size for requested and reseeds it.
func (m *Machine) Resize(requested int, randomize bool) error {
	side, err := core.Canonicalize(requested)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	m.reinitialize(side, randomize)
	return nil
}

// Reset reseeds the current grid, randomly or with all cells dead.
func (m *Machine) Reset(randomize bool) {
	m.reinitialize(m.geom.Side, randomize)
}

func (m *Machine) reinitialize(side int, randomize bool) {
	prev := m.mode
	m.geom = core.Geometry{Side: side}
	m.store.Allocate(side)
	m.store.Seed(buffer.SeedDescriptor{Randomize: randomize}, m.rng)
	m.generation = 0
	m.mode = Draw

	m.configErr = m.bridge.Configure(side, m.palette)
	if m.configErr != nil {
		m.log.Debug("accelerator not configured", "kernel", m.bridge.Name(), "side", side, "err", m.configErr)
	}
	m.log.Debug("grid reset", "side", side, "randomize", randomize)

	m.emit(GridReset{Side: side, Randomized: randomize})
	if prev != Draw {
		m.emit(StateChange{Generation: 0, NewState: Draw})
	}
	m.emit(RefreshRequested{Generation: 0})
}

// EnterCompute switches to Compute mode. Without a kernel configured for the
// current grid it reports a configuration error and stays in Draw.
func (m *Machine) EnterCompute() error {
	if m.mode == Compute {
		return nil
	}
	if !m.bridge.Ready(m.geom.Side) {
		err := m.configErr
		if err == nil {
			err = accel.ErrAcceleratorUnavailable
		}
		if !errors.Is(err, accel.ErrAcceleratorUnavailable) {
			err = fmt.Errorf("%w: %v", accel.ErrAcceleratorUnavailable, err)
		}
		m.log.Warn("compute rejected", "kernel", m.bridge.Name(), "err", err)
		m.emit(ConfigError{Generation: m.generation, Err: err})
		return err
	}
	m.setMode(Compute)
	return nil
}

// EnterDraw switches to Draw mode.
func (m *Machine) EnterDraw() {
	m.setMode(Draw)
}

func (m *Machine) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.log.Debug("state change", "from", m.mode, "to", mode, "generation", m.generation)
	m.mode = mode
	m.emit(StateChange{Generation: m.generation, NewState: mode})
}

// Tick advances the machine by one unit of simulation time. In Draw mode the
// pointer, if any, paints one cell. In Compute mode the pointer is ignored and
// exactly one generation is computed, after which the buffers swap roles.
func (m *Machine) Tick(p *Pointer) error {
	switch m.mode {
	case Draw:
		if p == nil {
			return nil
		}
		x, y := m.geom.ToPixel(p.X, p.Y)
		m.editor.Paint(m.store.Active(), x, y, paint.ModeFor(p.Erase))
		m.emit(RefreshRequested{Generation: m.generation})
	case Compute:
		if err := m.bridge.Step(m.store.Active(), m.store.Pending()); err != nil {
			m.log.Warn("kernel step failed", "kernel", m.bridge.Name(), "generation", m.generation, "err", err)
			m.emit(ConfigError{Generation: m.generation, Err: err})
			m.setMode(Draw)
			return err
		}
		m.store.SwapRoles()
		m.generation++
		m.emit(RefreshRequested{Generation: m.generation})
	}
	return nil
}

func (m *Machine) emit(e Event) {
	if m.onEvent != nil {
		m.onEvent(e)
	}
}

// Mode returns the current state.
func (m *Machine) Mode() Mode { return m.mode }

// Side returns the canonical grid side length.
func (m *Machine) Side() int { return m.geom.Side }

// Geometry returns the current grid geometry.
func (m *Machine) Geometry() core.Geometry { return m.geom }

// Generation returns the number of generations computed since the last reset.
func (m *Machine) Generation() int { return m.generation }

// Active returns the displayed buffer. Callers must not retain it past the
// current tick.
func (m *Machine) Active() *buffer.Buffer { return m.store.Active() }

// ActiveSlot identifies which physical buffer is active.
func (m *Machine) ActiveSlot() int { return m.store.ActiveSlot() }

// Palette returns the cell colors.
func (m *Machine) Palette() core.Palette { return m.palette }

// KernelName returns the configured kernel's name, or "none".
func (m *Machine) KernelName() string { return m.bridge.Name() }

// ComputeReady reports whether Compute mode can be entered.
func (m *Machine) ComputeReady() bool { return m.bridge.Ready(m.geom.Side) }

// Parameters reports the values shown by presentation layers.
func (m *Machine) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("size", "Size", m.geom.Side),
				core.IntParam("alive", "Alive", m.store.Active().CountAlive()),
			},
		},
		{
			Name: "Simulation",
			Params: []core.Parameter{
				core.StringParam("state", "State", m.mode.String()),
				core.IntParam("generation", "Generation", m.generation),
				core.StringParam("kernel", "Kernel", m.bridge.Name()),
				core.BoolParam("ready", "Compute ready", m.ComputeReady()),
			},
		},
	}}
}
