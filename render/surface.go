package render

import "errors"

// ErrSurfaceUnavailable is reported when a surface is detached from its host mid-session
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// Surface is a drawable area addressed in pixel coordinates
// Coordinates are real-valued, implementations decide how to rasterize
type Surface interface {
	// Size returns the drawable area in pixels
	Size() (width, height int)

	// Available reports whether the surface can still be written to
	// Writes racing a detach must be harmless, CellBuffer drops them
	Available() bool

	// Fade paints the whole surface with bg at alpha opacity (partial overwrite, not a clear)
	Fade(bg RGB, alpha float64)

	// FillCircle draws a filled circle centered at (x, y)
	FillCircle(x, y, radius float64, c RGB)

	// Line draws a straight stroke from (x0, y0) to (x1, y1) at alpha opacity
	Line(x0, y0, x1, y1 float64, c RGB, alpha float64)
}

// Presenter is optionally implemented by surfaces that buffer writes until a frame completes
type Presenter interface {
	Present()
}

// walkLine visits every integer point on the segment using Bresenham
func walkLine(x0, y0, x1, y1 int, fn func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		fn(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
