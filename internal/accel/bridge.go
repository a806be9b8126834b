package accel

import (
	"errors"
	"fmt"

	"potlife/internal/buffer"
	"potlife/internal/core"
)

var (
	// ErrAcceleratorUnavailable reports a missing or unconfigured kernel.
	ErrAcceleratorUnavailable = errors.New("accelerator unavailable")
	// ErrSizeMismatch reports buffers that do not match the configured grid.
	ErrSizeMismatch = errors.New("accelerator size mismatch")
)

// Bridge hands buffers and grid parameters to an external kernel.
type Bridge struct {
	kernel     core.Kernel
	side       int
	live       core.LiveColor
	configured bool
}

// NewBridge wraps k. A nil kernel yields a bridge that can never step.
func NewBridge(k core.Kernel) *Bridge {
	return &Bridge{kernel: k}
}

// Name returns the kernel name, or "none".
func (b *Bridge) Name() string {
	if b.kernel == nil {
		return "none"
	}
	return b.kernel.Name()
}

// Configure informs the kernel of the grid dimensions and the liveness color.
// It must be called again whenever the grid size changes.
func (b *Bridge) Configure(side int, p core.Palette) error {
	b.configured = false
	b.side = side
	if b.kernel == nil {
		return ErrAcceleratorUnavailable
	}
	b.live = p.Live()
	if err := b.kernel.Configure(side, side, b.live); err != nil {
		return fmt.Errorf("%w: configure %s kernel: %v", ErrAcceleratorUnavailable, b.kernel.Name(), err)
	}
	b.configured = true
	return nil
}

// Ready reports whether Step may be called for a grid of the given side.
func (b *Bridge) Ready(side int) bool {
	return b.configured && b.side == side
}

// Step advances one generation from src into dst and waits for the kernel to finish.
// Buffers that disagree with the configured size indicate a bug and panic.
func (b *Bridge) Step(src, dst *buffer.Buffer) error {
	if !b.configured {
		return ErrAcceleratorUnavailable
	}
	if src == dst {
		panic(fmt.Errorf("%w: source and destination are the same buffer", ErrSizeMismatch))
	}
	if src.Side() != b.side || dst.Side() != b.side {
		panic(fmt.Errorf("%w: configured %d, source %d, destination %d", ErrSizeMismatch, b.side, src.Side(), dst.Side()))
	}
	if err := b.kernel.Step(src.Pix(), dst.Pix()); err != nil {
		return fmt.Errorf("%s kernel step: %w", b.kernel.Name(), err)
	}
	return nil
}
