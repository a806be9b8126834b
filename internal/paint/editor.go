package paint

import (
	"potlife/internal/buffer"
	"potlife/internal/core"
)

// Mode selects the liveness a paint stroke writes.
type Mode uint8

const (
	// MarkAlive writes the alive color.
	MarkAlive Mode = iota
	// MarkDead writes the dead color.
	MarkDead
)

func (m Mode) String() string {
	if m == MarkDead {
		return "dead"
	}
	return "alive"
}

// ModeFor maps the secondary-action modifier to a paint mode.
func ModeFor(secondary bool) Mode {
	if secondary {
		return MarkDead
	}
	return MarkAlive
}

// Editor applies single-cell edits to a buffer. It holds no buffer between calls.
type Editor struct {
	palette core.Palette
}

// NewEditor returns an editor writing the palette's canonical colors.
func NewEditor(p core.Palette) Editor {
	return Editor{palette: p}
}

// Paint writes the mode's color at pixel (x, y) of dst. Positions off the
// grid are ignored. It reports whether a cell changed; callers refresh either way.
func (e Editor) Paint(dst *buffer.Buffer, x, y int, mode Mode) bool {
	g := core.Geometry{Side: dst.Side()}
	idx := g.Index(x, y)
	if !g.Contains(x, y) || idx < 0 || idx >= dst.Len() {
		return false
	}
	c := e.palette.Alive
	if mode == MarkDead {
		c = e.palette.Dead
	}
	if dst.Cell(idx) == c {
		return false
	}
	dst.SetCell(idx, c)
	return true
}
