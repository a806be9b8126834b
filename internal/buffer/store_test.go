package buffer

import (
	"slices"
	"testing"

	"potlife/internal/core"
)

func TestAllocateProducesDeadBuffers(t *testing.T) {
	p := core.DefaultPalette()
	for _, side := range []int{1, 2, 8, 64} {
		s := NewStore(p)
		s.Allocate(side)
		for _, b := range []*Buffer{s.Active(), s.Pending()} {
			if b.Len() != side*side {
				t.Fatalf("side %d: buffer length %d, want %d", side, b.Len(), side*side)
			}
			if b.Side() != side {
				t.Fatalf("side %d: buffer side %d", side, b.Side())
			}
			for i := 0; i < b.Len(); i++ {
				if b.Cell(i) != p.Dead {
					t.Fatalf("side %d: cell %d = %#v, want dead", side, i, b.Cell(i))
				}
			}
		}
		if s.Active() == s.Pending() {
			t.Fatal("active and pending must be distinct buffers")
		}
	}
}

func TestAllocateDiscardsPreviousBuffers(t *testing.T) {
	s := NewStore(core.DefaultPalette())
	s.Allocate(4)
	old := s.Active()
	old.SetCell(0, s.Palette().Alive)

	s.Allocate(8)
	if s.Active() == old || s.Pending() == old {
		t.Fatal("Allocate must not reuse previous buffers")
	}
	if s.Active().Len() != 64 || s.Active().CountAlive() != 0 {
		t.Fatal("reallocated buffer should be 8x8 and all dead")
	}
}

func TestSwapRolesIsInvolution(t *testing.T) {
	s := NewStore(core.DefaultPalette())
	s.Allocate(4)
	s.Seed(SeedDescriptor{Randomize: true}, core.NewRNG(3))
	s.Active().SetCell(5, s.Palette().Alive)

	active, pending := s.Active(), s.Pending()
	before := slices.Clone(active.Pix())

	s.SwapRoles()
	if s.Active() != pending || s.Pending() != active {
		t.Fatal("SwapRoles did not exchange roles")
	}
	s.SwapRoles()
	if s.Active() != active || s.Pending() != pending {
		t.Fatal("swapping twice must restore the first assignment")
	}
	if !slices.Equal(before, s.Active().Pix()) {
		t.Fatal("SwapRoles must not alter contents")
	}
}

func TestSeedCleanIsAllDead(t *testing.T) {
	s := NewStore(core.DefaultPalette())
	s.Allocate(16)
	s.Active().Fill(s.Palette().Alive)
	s.Seed(SeedDescriptor{Randomize: false}, core.NewRNG(1))
	if n := s.Active().CountAlive(); n != 0 {
		t.Fatalf("clean seed left %d alive cells in active", n)
	}
	if n := s.Pending().CountAlive(); n != 0 {
		t.Fatalf("clean seed left %d alive cells in pending", n)
	}
}

func TestSeedRandomFillsBothSlotsWithCanonicalColors(t *testing.T) {
	p := core.DefaultPalette()
	s := NewStore(p)
	s.Allocate(128)
	s.Seed(SeedDescriptor{Randomize: true}, core.NewRNG(42))

	if !slices.Equal(s.Active().Pix(), s.Pending().Pix()) {
		t.Fatal("seed must fill both buffers identically")
	}
	alive := s.Active().CountAlive()
	total := s.Active().Len()
	// Expect about 1/8 alive; allow a wide band around 2048.
	if alive < total/8-400 || alive > total/8+400 {
		t.Fatalf("alive cells = %d of %d, expected roughly 1/8", alive, total)
	}
	for i := 0; i < total; i++ {
		c := s.Active().Cell(i)
		if c != p.Alive && c != p.Dead {
			t.Fatalf("cell %d has non-canonical color %#v", i, c)
		}
	}
}

func TestSeedIsDeterministicForSeed(t *testing.T) {
	a := NewStore(core.DefaultPalette())
	b := NewStore(core.DefaultPalette())
	a.Allocate(32)
	b.Allocate(32)
	a.Seed(SeedDescriptor{Randomize: true}, core.NewRNG(7))
	b.Seed(SeedDescriptor{Randomize: true}, core.NewRNG(7))
	if !slices.Equal(a.Active().Pix(), b.Active().Pix()) {
		t.Fatal("same RNG seed should produce identical buffers")
	}
}
