package buffer

import (
	"potlife/internal/core"
)

// SeedDescriptor selects how freshly allocated buffers are populated.
type SeedDescriptor struct {
	Randomize bool
}

// AliveOneIn is the inverse probability of a cell starting alive when randomizing.
const AliveOneIn = 8

// Store holds the ping-pong buffer pair. Which physical buffer is active is a
// single index; swapping roles never copies cell data.
type Store struct {
	palette core.Palette
	side    int
	bufs    [2]*Buffer
	active  int
}

// NewStore returns an empty store; call Allocate before use.
func NewStore(p core.Palette) *Store {
	return &Store{palette: p}
}

// Allocate discards any previous buffers and creates two all-dead buffers.
func (s *Store) Allocate(side int) {
	s.side = side
	s.bufs[0] = newBuffer(side, s.palette.Dead)
	s.bufs[1] = newBuffer(side, s.palette.Dead)
	s.active = 0
}

// Seed fills both buffers with the same independent per-cell draws.
func (s *Store) Seed(d SeedDescriptor, rng *core.RNG) {
	if s.bufs[0] == nil {
		return
	}
	seeded := s.bufs[s.active]
	for i := 0; i < seeded.Len(); i++ {
		if d.Randomize && rng.OneIn(AliveOneIn) {
			seeded.SetCell(i, s.palette.Alive)
			continue
		}
		seeded.SetCell(i, s.palette.Dead)
	}
	s.bufs[1-s.active].CopyFrom(seeded)
}

// SwapRoles makes the pending buffer active and vice versa.
func (s *Store) SwapRoles() { s.active = 1 - s.active }

// Active returns the displayed buffer.
func (s *Store) Active() *Buffer { return s.bufs[s.active] }

// Pending returns the write target of the next generation step.
func (s *Store) Pending() *Buffer { return s.bufs[1-s.active] }

// ActiveSlot identifies which physical buffer (0 or 1) is active.
func (s *Store) ActiveSlot() int { return s.active }

// Side returns the side length buffers were allocated with.
func (s *Store) Side() int { return s.side }

// Palette returns the colors cells are written with.
func (s *Store) Palette() core.Palette { return s.palette }
