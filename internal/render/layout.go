package render

// FitScale returns the largest integer pixel scale at which a grid of the
// given side fits into viewport screen pixels. It is at least 1.
func FitScale(side, viewport int) int {
	if side <= 0 {
		return 1
	}
	scale := viewport / side
	if scale < 1 {
		return 1
	}
	return scale
}

// ScreenToLocal converts a screen position inside a grid drawn at (originX,
// originY) with the given scale into the grid's centered local frame. ok is
// false when the point lies outside the drawn grid.
func ScreenToLocal(sx, sy, originX, originY, scale, side int) (lx, ly float64, ok bool) {
	if scale <= 0 {
		scale = 1
	}
	extent := side * scale
	dx, dy := sx-originX, sy-originY
	if dx < 0 || dy < 0 || dx >= extent || dy >= extent {
		return 0, 0, false
	}
	half := float64(side) / 2
	lx = (float64(dx)+0.5)/float64(scale) - half
	ly = (float64(dy)+0.5)/float64(scale) - half
	return lx, ly, true
}

// CellToLocal returns the local-frame center of grid cell (x, y).
func CellToLocal(x, y, side int) (float64, float64) {
	half := float64(side) / 2
	return float64(x) + 0.5 - half, float64(y) + 0.5 - half
}

// MinGridLineScale is the smallest cell size, in screen pixels, that gets gridlines.
const MinGridLineScale = 3

// GridLines returns the screen offsets of the cell boundaries along one axis
// of a grid drawn at origin with the given scale, outer edges included. It is
// nil when cells are too small for lines to leave anything visible.
func GridLines(origin, scale, side int) []int {
	if side <= 0 || scale < MinGridLineScale {
		return nil
	}
	lines := make([]int, side+1)
	for i := range lines {
		lines[i] = origin + i*scale
	}
	return lines
}
