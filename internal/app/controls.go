package app

import (
	"fmt"
	"log/slog"

	"potlife/internal/core"
	"potlife/internal/sim"
)

// Action is a driver-level command applied at the next tick boundary.
type Action uint8

// Actions understood by Session. Grow and Shrink double or halve the grid
// side and reseed it randomly; Randomize and Clean reseed at the current size.
const (
	ActionDraw Action = iota + 1
	ActionCompute
	ActionRandomize
	ActionClean
	ActionGrow
	ActionShrink
	ActionSpeedSlow
	ActionSpeedMedium
	ActionSpeedFast
	ActionQuit
)

// Speed is a simulation rate in ticks per second.
type Speed int

// Speed presets selectable with the 1, 2 and 3 keys.
const (
	SpeedSlow   Speed = 10
	SpeedMedium Speed = 50
	SpeedFast   Speed = 1000
)

// Name returns the flag spelling of the speed preset.
func (s Speed) Name() string {
	switch s {
	case SpeedSlow:
		return "slow"
	case SpeedMedium:
		return "medium"
	case SpeedFast:
		return "fast"
	default:
		return fmt.Sprintf("%dtps", int(s))
	}
}

// TPS returns the tick rate.
func (s Speed) TPS() int { return int(s) }

// ParseSpeed converts a preset name to a Speed.
func ParseSpeed(name string) (Speed, error) {
	switch name {
	case "slow":
		return SpeedSlow, nil
	case "medium":
		return SpeedMedium, nil
	case "fast":
		return SpeedFast, nil
	}
	return 0, fmt.Errorf("unknown speed %q (want slow, medium or fast)", name)
}

// Session couples a Machine with queued driver input. Actions and the first
// pointer-down of a tick are buffered until Tick, so mode changes only take
// effect at tick boundaries.
type Session struct {
	machine *sim.Machine
	log     *slog.Logger

	actions []Action
	pointer *sim.Pointer
	speed   Speed

	status  string
	dirty   bool
	resized bool
}

// NewSession builds the machine described by cfg.
func NewSession(cfg *Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	speed, err := ParseSpeed(cfg.Speed)
	if err != nil {
		return nil, err
	}
	palette, pinned, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	if pinned {
		logger.Warn("alive color red channel forced to sentinel", "alive", cfg.Alive)
	}
	kernel, err := cfg.NewKernel()
	if err != nil {
		return nil, err
	}
	s := &Session{log: logger, speed: speed}
	m, err := sim.New(sim.Config{
		Size:      cfg.Size,
		Randomize: cfg.Random,
		Seed:      cfg.Seed,
		Palette:   palette,
		Kernel:    kernel,
		OnEvent:   s.observe,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	s.machine = m
	s.status = sim.StateChange{NewState: m.Mode()}.String()
	return s, nil
}

func (s *Session) observe(e sim.Event) {
	switch ev := e.(type) {
	case sim.RefreshRequested:
		s.dirty = true
	case sim.GridReset:
		s.resized = true
		s.dirty = true
		s.status = sim.StateChange{NewState: sim.Draw}.String()
	case sim.StateChange:
		s.status = ev.String()
	case sim.ConfigError:
		s.status = ev.String()
	}
}

// Queue schedules an action for the next tick.
func (s *Session) Queue(a Action) { s.actions = append(s.actions, a) }

// Press records a pointer-down. Only the first one per tick is kept.
func (s *Session) Press(p sim.Pointer) {
	if s.pointer != nil {
		return
	}
	s.pointer = &p
}

// Tick applies queued actions, then advances the machine by one tick.
func (s *Session) Tick() (quit bool, err error) {
	actions, pointer := s.actions, s.pointer
	s.actions, s.pointer = s.actions[:0], nil

	s.resized = false
	for _, a := range actions {
		if a == ActionQuit {
			return true, nil
		}
		s.apply(a)
	}
	if s.resized {
		// The pointer was captured against the previous grid.
		pointer = nil
	}
	return false, s.machine.Tick(pointer)
}

func (s *Session) apply(a Action) {
	m := s.machine
	switch a {
	case ActionDraw:
		m.EnterDraw()
	case ActionCompute:
		// Rejections are reported through the ConfigError event.
		_ = m.EnterCompute()
	case ActionRandomize:
		m.Reset(true)
	case ActionClean:
		m.Reset(false)
	case ActionGrow:
		if m.Side() < core.MaxSide {
			_ = m.Resize(m.Side()*2, true)
		}
	case ActionShrink:
		if m.Side() > 1 {
			_ = m.Resize(m.Side()/2, true)
		}
	case ActionSpeedSlow:
		s.setSpeed(SpeedSlow)
	case ActionSpeedMedium:
		s.setSpeed(SpeedMedium)
	case ActionSpeedFast:
		s.setSpeed(SpeedFast)
	}
}

func (s *Session) setSpeed(sp Speed) {
	if s.speed == sp {
		return
	}
	s.log.Debug("speed change", "speed", sp.Name(), "tps", sp.TPS())
	s.speed = sp
}

// Machine exposes the underlying state machine.
func (s *Session) Machine() *sim.Machine { return s.machine }

// Speed returns the current speed preset.
func (s *Session) Speed() Speed { return s.speed }

// Status returns the most recent state or error message.
func (s *Session) Status() string { return s.status }

// TakeDirty reports whether a refresh was requested since the last call.
func (s *Session) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}
