package core

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// AliveSentinel is the red channel value kernels treat as "alive".
const AliveSentinel = 0xff

// ErrInvalidPalette reports a color that cannot encode cell liveness.
var ErrInvalidPalette = errors.New("invalid palette")

// DeadColor is the only valid encoding of a dead cell.
var DeadColor = color.RGBA{R: 0, G: 0, B: 0, A: 0xff}

// Palette holds the two canonical cell colors.
type Palette struct {
	Alive color.RGBA
	Dead  color.RGBA
}

// LiveColor is the normalized alive color vector handed to kernels.
type LiveColor [4]float32

// DefaultPalette returns white alive cells on black.
func DefaultPalette() Palette {
	return Palette{Alive: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Dead: DeadColor}
}

// NewPalette builds a palette from the requested alive color. The red channel
// is pinned to AliveSentinel; pinned reports whether it had to be changed.
// The alive color must be opaque; Validate rejects anything else.
func NewPalette(alive color.RGBA) (p Palette, pinned bool) {
	pinned = alive.R != AliveSentinel
	alive.R = AliveSentinel
	return Palette{Alive: alive, Dead: DeadColor}, pinned
}

// ParseAlive parses an alive color written as RRGGBB or RRGGBBAA hex. Cells
// are stored premultiplied with red pinned to the sentinel, so only an opaque
// alpha (ff) is accepted.
func ParseAlive(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q is not RRGGBB[AA]", ErrInvalidPalette, s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}
	c := color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	if c.A != 0xff {
		return color.RGBA{}, fmt.Errorf("%w: alpha %#x, alive color must be opaque", ErrInvalidPalette, c.A)
	}
	return c, nil
}

// Validate checks that alive and dead stay distinguishable by the sentinel
// and that both are valid premultiplied colors.
func (p Palette) Validate() error {
	if p.Alive.R != AliveSentinel {
		return fmt.Errorf("%w: alive red channel %#x, want %#x", ErrInvalidPalette, p.Alive.R, AliveSentinel)
	}
	if p.Alive.A != 0xff {
		return fmt.Errorf("%w: alive alpha %#x, want opaque", ErrInvalidPalette, p.Alive.A)
	}
	if p.Dead != DeadColor {
		return fmt.Errorf("%w: dead color must be opaque black", ErrInvalidPalette)
	}
	return nil
}

// Live returns the kernel-facing alive color vector.
func (p Palette) Live() LiveColor {
	return LiveColor{1, float32(p.Alive.G) / 0xff, float32(p.Alive.B) / 0xff, float32(p.Alive.A) / 0xff}
}

// RGBA converts the vector back to 8-bit channels.
func (c LiveColor) RGBA() color.RGBA {
	ch := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 0xff
		}
		return uint8(v*0xff + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

// Opaque reports whether the alpha component is fully opaque.
func (c LiveColor) Opaque() bool { return c[3] >= 1 }
