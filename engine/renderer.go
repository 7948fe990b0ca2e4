package engine

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/gungnir/core"
	"github.com/lixenwraith/gungnir/network"
	"github.com/lixenwraith/gungnir/render"
)

// ErrAlreadyRunning is returned by Start on a renderer that has not been stopped
var ErrAlreadyRunning = errors.New("renderer already running")

// FrameStats summarizes one completed frame
type FrameStats struct {
	Frame     uint64
	Nodes     int
	Edges     int
	Reflected int
	Width     int
	Height    int
	At        time.Time
}

// Observer receives frame summaries, called on the render goroutine outside the renderer lock
type Observer func(FrameStats)

// Option configures a Renderer
type Option func(*Renderer)

// WithTicker replaces the frame clock
func WithTicker(fn TickerFunc) Option {
	return func(r *Renderer) { r.newTicker = fn }
}

// WithClock replaces the timestamp source used in FrameStats
func WithClock(c Clock) Option {
	return func(r *Renderer) { r.clock = c }
}

// Renderer animates one node network on one surface
// Instances are independent, nothing is shared between them
type Renderer struct {
	id        uuid.UUID
	newTicker TickerFunc
	clock     Clock

	mu        sync.Mutex
	surface   render.Surface
	field     *network.Field
	running   bool
	err       error
	frame     uint64
	observers []Observer

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates an idle renderer
func New(opts ...Option) *Renderer {
	r := &Renderer{
		id:        uuid.New(),
		newTicker: NewTimeTicker,
		clock:     SystemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID identifies this renderer instance in logs
func (r *Renderer) ID() uuid.UUID {
	return r.id
}

func (r *Renderer) logf(format string, args ...any) {
	log.Printf("netviz[%s]: "+format, append([]any{r.id.String()[:8]}, args...)...)
}

// Observe registers fn for every completed frame
func (r *Renderer) Observe(fn Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Start seeds the node field from surface dimensions and begins the frame loop
// Nothing is drawn when an error is returned
func (r *Renderer) Start(surface render.Surface, cfg network.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if surface == nil {
		return fmt.Errorf("%w: nil surface", network.ErrInvalidConfiguration)
	}
	width, height := surface.Size()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: surface %dx%d has zero area", network.ErrInvalidConfiguration, width, height)
	}
	if !surface.Available() {
		return fmt.Errorf("start: %w", render.ErrSurfaceUnavailable)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	field, err := network.NewField(cfg, width, height, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return err
	}

	r.surface = surface
	r.field = field
	r.running = true
	r.err = nil
	r.frame = 0
	r.stopChan = make(chan struct{})

	ticker := r.newTicker(cfg.Interval())
	stop := r.stopChan
	r.wg.Add(1)
	core.Go(func() { r.loop(ticker, stop) })

	r.logf("started %d nodes on %dx%d seed=%d interval=%v", cfg.NodeCount, width, height, seed, cfg.Interval())
	return nil
}

// loop drives Tick from the ticker until stopped
func (r *Renderer) loop(ticker Ticker, stop chan struct{}) {
	defer r.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !r.tick(stop) {
				return
			}
		}
	}
}

// halt marks the renderer stopped, caller holds mu
func (r *Renderer) halt(reason error) {
	if !r.running {
		return
	}
	r.running = false
	r.err = reason
	close(r.stopChan)
}

// Stop halts the loop; no surface writes happen after it returns
// Waits for an in-flight frame to finish, idempotent
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.halt(nil)
	r.logf("stopped after %d frames", r.frame)
}

// Wait blocks until the frame goroutine has exited
// Must not be called from an Observer
func (r *Renderer) Wait() {
	r.wg.Wait()
}

// Running reports whether the loop is active
func (r *Renderer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Err returns why the renderer stopped itself, nil after a normal Stop
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Frames returns the number of frames drawn this session
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Nodes returns a snapshot of the current node set, nil before the first Start
func (r *Renderer) Nodes() []network.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.field == nil {
		return nil
	}
	return r.field.Nodes()
}

// Resize updates the working bounds; out-of-bounds nodes snap to the nearest edge on the next frame
func (r *Renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: bounds %dx%d have zero area", network.ErrInvalidConfiguration, width, height)
	}
	if r.field == nil {
		return nil
	}
	if err := r.field.Resize(width, height); err != nil {
		return err
	}
	r.logf("resized to %dx%d", width, height)
	return nil
}

// Tick draws exactly one frame, returns false once the renderer is stopped
// A detached surface stops the renderer here instead of surfacing an error
func (r *Renderer) Tick() bool {
	return r.tick(nil)
}

// tick runs one frame for the session identified by its stop channel, nil matches any session
// A stale loop goroutine racing a restart never draws into the new session
func (r *Renderer) tick(session chan struct{}) bool {
	r.mu.Lock()
	if !r.running || (session != nil && session != r.stopChan) {
		r.mu.Unlock()
		return false
	}
	if !r.surface.Available() {
		r.halt(render.ErrSurfaceUnavailable)
		r.mu.Unlock()
		r.logf("surface unavailable, going idle")
		return false
	}

	// A Detach racing this frame is fine, a detached surface drops the remaining writes
	stats := r.drawFrame()
	observers := r.observers
	r.mu.Unlock()

	for _, fn := range observers {
		fn(stats)
	}
	return true
}

// drawFrame runs fade, integrate, reflect, nodes, edges; caller holds mu
func (r *Renderer) drawFrame() FrameStats {
	f := r.field
	cfg := f.Config()
	s := r.surface

	s.Fade(cfg.Background, cfg.TrailFade)

	reflected := f.Step()

	for i := 0; i < f.Len(); i++ {
		n := f.Node(i)
		s.FillCircle(n.Pos.X, n.Pos.Y, n.Radius, n.Color)
	}

	edges := f.Edges(func(e network.Edge) {
		a, b := f.Node(e.A), f.Node(e.B)
		s.Line(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y, cfg.EdgeColor, e.Opacity)
	})

	if p, ok := s.(render.Presenter); ok {
		p.Present()
	}

	r.frame++
	w, h := f.Bounds()
	return FrameStats{
		Frame:     r.frame,
		Nodes:     f.Len(),
		Edges:     edges,
		Reflected: reflected,
		Width:     w,
		Height:    h,
		At:        r.clock.Now(),
	}
}
