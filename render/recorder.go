package render

import "sync"

// LineCall captures one Line invocation
type LineCall struct {
	X0, Y0, X1, Y1 float64
	Color          RGB
	Alpha          float64
}

// CircleCall captures one FillCircle invocation
type CircleCall struct {
	X, Y, Radius float64
	Color        RGB
}

// Recorder is a Surface that records draw calls instead of rasterizing
// Used by tests and by hosts that want frame-level draw statistics
type Recorder struct {
	mu        sync.Mutex
	width     int
	height    int
	available bool
	fades     int
	presents  int
	circles   []CircleCall
	lines     []LineCall
}

// NewRecorder creates an available recorder of the given pixel size
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height, available: true}
}

// SetAvailable toggles availability, false simulates a detached surface
func (r *Recorder) SetAvailable(ok bool) {
	r.mu.Lock()
	r.available = ok
	r.mu.Unlock()
}

// SetSize changes reported dimensions
func (r *Recorder) SetSize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

// Writes returns total draw calls (fades + circles + lines)
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fades + len(r.circles) + len(r.lines)
}

// Fades returns the number of Fade calls
func (r *Recorder) Fades() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fades
}

// Presents returns the number of completed frames presented
func (r *Recorder) Presents() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presents
}

// Circles returns a copy of recorded circle calls
func (r *Recorder) Circles() []CircleCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CircleCall(nil), r.circles...)
}

// Lines returns a copy of recorded line calls
func (r *Recorder) Lines() []LineCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LineCall(nil), r.lines...)
}

// Reset drops recorded calls, dimensions and availability are kept
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fades = 0
	r.presents = 0
	r.circles = nil
	r.lines = nil
}

// Size returns the configured dimensions
func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Available returns the value set by SetAvailable, true initially
func (r *Recorder) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available
}

// Fade records the call
func (r *Recorder) Fade(bg RGB, alpha float64) {
	r.mu.Lock()
	r.fades++
	r.mu.Unlock()
}

// FillCircle records the call
func (r *Recorder) FillCircle(x, y, radius float64, c RGB) {
	r.mu.Lock()
	r.circles = append(r.circles, CircleCall{X: x, Y: y, Radius: radius, Color: c})
	r.mu.Unlock()
}

// Line records the call
func (r *Recorder) Line(x0, y0, x1, y1 float64, c RGB, alpha float64) {
	r.mu.Lock()
	r.lines = append(r.lines, LineCall{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c, Alpha: alpha})
	r.mu.Unlock()
}

// Present counts frame flushes
func (r *Recorder) Present() {
	r.mu.Lock()
	r.presents++
	r.mu.Unlock()
}
