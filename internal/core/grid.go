package core

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// MaxSide is the largest supported grid side length.
const MaxSide = 1024

// ErrInvalidSize reports a grid size request outside [1, MaxSide].
var ErrInvalidSize = errors.New("invalid grid size")

// Canonicalize rounds a requested side length up to the nearest power of two.
func Canonicalize(requested int) (int, error) {
	if requested < 1 || requested > MaxSide {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidSize, requested, MaxSide)
	}
	if IsPowerOfTwo(requested) {
		return requested, nil
	}
	return 1 << bits.Len(uint(requested)), nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// Geometry maps coordinates onto a square grid stored in row-major order.
type Geometry struct {
	Side int
}

// NewGeometry canonicalizes the requested size and returns its geometry.
func NewGeometry(requested int) (Geometry, error) {
	side, err := Canonicalize(requested)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{Side: side}, nil
}

// Len returns the number of cells in the grid.
func (g Geometry) Len() int { return g.Side * g.Side }

// Index returns the linear slice index for coordinates (x, y). Callers bound-check.
func (g Geometry) Index(x, y int) int { return y*g.Side + x }

// Contains reports whether (x, y) lies on the grid.
func (g Geometry) Contains(x, y int) bool {
	return x >= 0 && x < g.Side && y >= 0 && y < g.Side
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g Geometry) Wrap(x, y int) (int, int) {
	x = (x%g.Side + g.Side) % g.Side
	y = (y%g.Side + g.Side) % g.Side
	return x, y
}

// ToPixel maps a position in the grid's centered local frame to pixel
// coordinates. The result may fall outside the grid near the boundary.
func (g Geometry) ToPixel(lx, ly float64) (int, int) {
	half := float64(g.Side) / 2
	return int(math.Floor(lx + half)), int(math.Floor(ly + half))
}
