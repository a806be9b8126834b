package core

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFixedStepPacesTicks(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	fs := newFixedStep(10, clock.now)

	if !fs.ShouldStep() {
		t.Fatal("first call should step immediately")
	}
	clock.advance(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("should not step before a full tick elapses")
	}
	clock.advance(50 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("should step once a full tick elapsed")
	}
}

func TestFixedStepDueCapsCatchUp(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	fs := newFixedStep(1000, clock.now)
	fs.Due(1)

	clock.advance(10 * time.Millisecond)
	if got := fs.Due(4); got != 4 {
		t.Fatalf("Due(4) = %d, want 4", got)
	}
	if got := fs.Due(4); got != 0 {
		t.Fatalf("dropped ticks carried over: Due = %d", got)
	}

	clock.advance(3 * time.Millisecond)
	if got := fs.Due(10); got != 3 {
		t.Fatalf("Due(10) = %d, want 3", got)
	}
}

func TestFixedStepSetTPSDefaults(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Step() != time.Second/60 {
		t.Fatalf("default step = %v, want 1/60s", fs.Step())
	}
	fs.SetTPS(50)
	if fs.Step() != 20*time.Millisecond {
		t.Fatalf("step = %v, want 20ms", fs.Step())
	}
}
