package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ScreenSurface renders a CellBuffer onto a tcell.Screen
// Rows reserved at the bottom hold the status line
type ScreenSurface struct {
	mu       sync.Mutex
	screen   tcell.Screen
	buf      *CellBuffer
	reserved int
	detached bool
	// collapsed is set while the screen leaves no canvas rows, the buffer keeps its last size
	collapsed bool
	status   string
	statusFg RGB
	statusBg RGB
}

// NewScreenSurface sizes the buffer from the current screen, minus reservedRows
func NewScreenSurface(screen tcell.Screen, cellW, cellH, reservedRows int) *ScreenSurface {
	cols, rows := screen.Size()
	return &ScreenSurface{
		screen:   screen,
		buf:      NewCellBuffer(cols, max(rows-reservedRows, 0), cellW, cellH),
		reserved: reservedRows,
		statusFg: RGBCyan,
		statusBg: RGBBlack,
	}
}

// SetStatus sets the text shown in the first reserved row on the next Present
func (s *ScreenSurface) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

// Sync re-reads the screen dimensions after a resize event
// Returns the new pixel size to hand to the renderer
// A screen with no room for the canvas returns 0x0 and keeps the previous buffer,
// so the surface stays available and drawing resumes once the screen grows back
func (s *ScreenSurface) Sync() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols, rows := s.screen.Size()
	canvasRows := rows - s.reserved
	if cols <= 0 || canvasRows <= 0 {
		s.collapsed = true
		return 0, 0
	}
	s.collapsed = false
	s.buf.Resize(cols, canvasRows)
	return s.buf.Size()
}

// Detach marks the surface unavailable, the renderer stops on its next frame
func (s *ScreenSurface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.buf.Detach()
}

// Size returns the canvas size in virtual pixels
func (s *ScreenSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Size()
}

// Available reports false once detached
func (s *ScreenSurface) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.detached && s.buf.Available()
}

// Fade forwards to the cell buffer
func (s *ScreenSurface) Fade(bg RGB, alpha float64) {
	s.mu.Lock()
	s.buf.Fade(bg, alpha)
	s.mu.Unlock()
}

// FillCircle forwards to the cell buffer
func (s *ScreenSurface) FillCircle(x, y, radius float64, c RGB) {
	s.mu.Lock()
	s.buf.FillCircle(x, y, radius, c)
	s.mu.Unlock()
}

// Line forwards to the cell buffer
func (s *ScreenSurface) Line(x0, y0, x1, y1 float64, c RGB, alpha float64) {
	s.mu.Lock()
	s.buf.Line(x0, y0, x1, y1, c, alpha)
	s.mu.Unlock()
}

// Present copies the buffer to the screen and shows it
func (s *ScreenSurface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	if s.collapsed {
		// Status only, on whatever row is left
		if cols, rows := s.screen.Size(); s.reserved > 0 && rows > 0 {
			s.drawStatus(cols, 0)
		}
		s.screen.Show()
		return
	}

	cols, rows := s.buf.Grid()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := s.buf.cells[row*cols+col]
			style := tcell.StyleDefault.Background(cell.Bg.Tcell()).Foreground(cell.Fg.Tcell())
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			s.screen.SetContent(col, row, r, nil, style)
		}
	}

	if s.reserved > 0 {
		s.drawStatus(cols, rows)
	}
	s.screen.Show()
}

// drawStatus writes the status text into the row below the canvas, padded to full width
func (s *ScreenSurface) drawStatus(cols, row int) {
	style := tcell.StyleDefault.Background(s.statusBg.Tcell()).Foreground(s.statusFg.Tcell())
	text := []rune(s.status)
	for col := 0; col < cols; col++ {
		r := ' '
		if col < len(text) {
			r = text[col]
		}
		s.screen.SetContent(col, row, r, nil, style)
	}
}
