package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies frame timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock provides the real system time with monotonic clock readings
type SystemClock struct{}

// Now returns the current time with monotonic clock reading
func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock provides a controllable time source for testing
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockClock creates a new mock clock with the given start time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{currentTime: startTime}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance advances the current time by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Ticker delivers frame ticks to the render loop
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker for the given frame interval
type TickerFunc func(interval time.Duration) Ticker

// timeTicker adapts time.Ticker
type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker is the production TickerFunc
func NewTimeTicker(interval time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(interval)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// ManualTicker fires only when told to, for deterministic tests
// Holds at most one pending tick like time.Ticker
type ManualTicker struct {
	ch       chan time.Time
	interval atomic.Int64
	stopped  atomic.Bool
}

// NewManualTicker creates an idle manual ticker
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time, 1)}
}

// Func returns a TickerFunc handing out this ticker
func (m *ManualTicker) Func() TickerFunc {
	return func(interval time.Duration) Ticker {
		m.interval.Store(int64(interval))
		m.stopped.Store(false)
		return m
	}
}

// Fire queues one tick, returns false if a tick is already pending or the ticker is stopped
func (m *ManualTicker) Fire(at time.Time) bool {
	if m.stopped.Load() {
		return false
	}
	select {
	case m.ch <- at:
		return true
	default:
		return false
	}
}

// Interval returns the interval requested by the renderer
func (m *ManualTicker) Interval() time.Duration {
	return time.Duration(m.interval.Load())
}

// Stopped reports whether the renderer released the ticker
func (m *ManualTicker) Stopped() bool {
	return m.stopped.Load()
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }
func (m *ManualTicker) Stop()               { m.stopped.Store(true) }
