// Package cpu evaluates Conway's rule on a toroidal RGBA grid using a pool of
// goroutines, each owning a horizontal strip of the destination.
package cpu

import (
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"potlife/internal/core"
)

// Config holds parameters for the CPU kernel.
type Config struct {
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c
}

// Kernel implements core.Kernel on the CPU.
type Kernel struct {
	workers int
	w, h    int
	alive   [4]byte
	dead    [4]byte
}

var _ core.Kernel = (*Kernel)(nil)

// New creates a kernel that splits work across the given number of workers.
func New(c Config) *Kernel {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	d := core.DeadColor
	return &Kernel{workers: c.Workers, dead: [4]byte{d.R, d.G, d.B, d.A}}
}

// Name returns the kernel identifier.
func (k *Kernel) Name() string { return "cpu" }

// Configure records the grid dimensions and the alive color.
func (k *Kernel) Configure(width, height int, alive core.LiveColor) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cpu kernel: invalid dimensions %dx%d", width, height)
	}
	k.w, k.h = width, height
	c := alive.RGBA()
	k.alive = [4]byte{c.R, c.G, c.B, c.A}
	return nil
}

// Step writes the next generation of src into dst. It returns once every
// strip is complete.
func (k *Kernel) Step(src, dst []byte) error {
	want := k.w * k.h * 4
	if want == 0 {
		return fmt.Errorf("cpu kernel: not configured")
	}
	if len(src) != want || len(dst) != want {
		return fmt.Errorf("cpu kernel: buffer sizes %d/%d, want %d", len(src), len(dst), want)
	}
	var g errgroup.Group
	y0 := 0
	for _, rows := range strips(k.h, k.workers) {
		lo, hi := y0, y0+rows
		y0 = hi
		g.Go(func() error {
			k.stepRows(src, dst, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (k *Kernel) stepRows(src, dst []byte, lo, hi int) {
	w, h := k.w, k.h
	for y := lo; y < hi; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					if src[(ny*w+nx)*4] == core.AliveSentinel {
						neighbors++
					}
				}
			}
			idx := (y*w + x) * 4
			alive := src[idx] == core.AliveSentinel
			out := k.dead
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				out = k.alive
			}
			copy(dst[idx:idx+4], out[:])
		}
	}
}

// strips splits rows as evenly as possible between n workers.
func strips(rows, n int) []int {
	if n > rows {
		n = rows
	}
	each := rows / n
	bigger := rows - each*n
	out := make([]int, 0, n)
	for i := 0; i < n-bigger; i++ {
		out = append(out, each)
	}
	for i := 0; i < bigger; i++ {
		out = append(out, each+1)
	}
	return out
}

func init() {
	core.RegisterKernel("cpu", func(cfg map[string]string) (core.Kernel, error) {
		return New(FromMap(cfg)), nil
	})
}
