package render

// NodeRune marks a node smaller than one cell
const NodeRune = '●'

// fadeResidual is the per-channel distance below which a faded glyph is dropped
const fadeResidual = 8

// Cell is one terminal cell of a CellBuffer
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// CellBuffer is a Surface backed by a cell grid
// Each cell covers cellW x cellH virtual pixels so pixel-space configs render at terminal resolution
type CellBuffer struct {
	cells  []Cell
	cols   int
	rows   int
	cellW  int
	cellH  int
	detach bool
}

// NewCellBuffer creates a buffer of cols x rows cells, each cellW x cellH pixels
func NewCellBuffer(cols, rows, cellW, cellH int) *CellBuffer {
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}
	b := &CellBuffer{cellW: cellW, cellH: cellH}
	b.Resize(cols, rows)
	return b
}

// Resize adjusts grid dimensions, reallocates only if capacity insufficient
func (b *CellBuffer) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	size := cols * rows
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.cols = cols
	b.rows = rows
	b.Clear(RGBBlack)
}

// Clear resets all cells to bg using exponential copy
func (b *CellBuffer) Clear(bg RGB) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: 0, Fg: bg, Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Grid returns dimensions in cells
func (b *CellBuffer) Grid() (cols, rows int) {
	return b.cols, b.rows
}

// Cell returns the cell at grid position, zero Cell when out of bounds
func (b *CellBuffer) Cell(col, row int) Cell {
	if !b.inBounds(col, row) {
		return Cell{}
	}
	return b.cells[row*b.cols+col]
}

// Detach marks the buffer unavailable, subsequent writes are dropped
func (b *CellBuffer) Detach() {
	b.detach = true
}

// inBounds returns true if in grid bounds
func (b *CellBuffer) inBounds(col, row int) bool {
	return col >= 0 && col < b.cols && row >= 0 && row < b.rows
}

// toCell maps a pixel coordinate to its containing cell
func (b *CellBuffer) toCell(x, y float64) (int, int) {
	col := int(x) / b.cellW
	row := int(y) / b.cellH
	if x < 0 {
		col = -1
	}
	if y < 0 {
		row = -1
	}
	return col, row
}

// near reports colors within the residual left by rounded fades
func near(a, b RGB) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= fadeResidual && d(a.G, b.G) <= fadeResidual && d(a.B, b.B) <= fadeResidual
}

// ===== SURFACE API =====

// Size returns the virtual pixel dimensions
func (b *CellBuffer) Size() (int, int) {
	return b.cols * b.cellW, b.rows * b.cellH
}

// Available reports whether the buffer has cells and is not detached
func (b *CellBuffer) Available() bool {
	return !b.detach && len(b.cells) > 0
}

// Fade blends every cell toward bg, glyphs that fade into the background are dropped
func (b *CellBuffer) Fade(bg RGB, alpha float64) {
	if b.detach {
		return
	}
	for i := range b.cells {
		c := &b.cells[i]
		c.Bg = Blend(c.Bg, bg, alpha)
		if c.Rune != 0 {
			c.Fg = Blend(c.Fg, bg, alpha)
			if near(c.Fg, c.Bg) {
				c.Rune = 0
			}
		}
	}
}

// FillCircle paints cells whose centers fall inside the circle, sub-cell radii draw NodeRune
func (b *CellBuffer) FillCircle(x, y, radius float64, c RGB) {
	if b.detach {
		return
	}

	// Sub-cell node: single glyph keeps small radii visible
	if radius*2 < float64(min(b.cellW, b.cellH)) {
		col, row := b.toCell(x, y)
		if !b.inBounds(col, row) {
			return
		}
		cell := &b.cells[row*b.cols+col]
		cell.Rune = NodeRune
		cell.Fg = c
		return
	}

	c0, r0 := b.toCell(x-radius, y-radius)
	c1, r1 := b.toCell(x+radius, y+radius)
	r2 := radius * radius
	for row := max(r0, 0); row <= min(r1, b.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, b.cols-1); col++ {
			// Cell center in pixel space
			cx := (float64(col) + 0.5) * float64(b.cellW)
			cy := (float64(row) + 0.5) * float64(b.cellH)
			dx, dy := cx-x, cy-y
			if dx*dx+dy*dy <= r2 {
				b.cells[row*b.cols+col].Bg = c
			}
		}
	}
}

// Line blends c into every cell on the segment
func (b *CellBuffer) Line(x0, y0, x1, y1 float64, c RGB, alpha float64) {
	if b.detach || alpha <= 0 {
		return
	}
	cx0, cy0 := b.toCell(x0, y0)
	cx1, cy1 := b.toCell(x1, y1)
	walkLine(cx0, cy0, cx1, cy1, func(col, row int) {
		if !b.inBounds(col, row) {
			return
		}
		cell := &b.cells[row*b.cols+col]
		cell.Bg = Blend(cell.Bg, c, alpha)
	})
}
