// Package feed delivers dashboard statistics to the visualizer host.
//
// Values come from an explicit Source instead of random drift: a pull Source is
// polled by a Poller, a Push source lets producers publish whenever they have data.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoSample is returned by Push.Fetch before anything was published
var ErrNoSample = errors.New("no sample published")

// ErrInvalidInterval is returned by Poller.Run for a non-positive interval
var ErrInvalidInterval = errors.New("poll interval must be positive")

// Sample is one snapshot of dashboard statistics
type Sample struct {
	ThreatsDetected int       `yaml:"threats_detected"`
	ZeroDays        int       `yaml:"zero_days"`
	ActiveSessions  int       `yaml:"active_sessions"`
	SystemHealth    float64   `yaml:"system_health"` // Percent, 0-100
	UpdatedAt       time.Time `yaml:"-"`
}

// String formats the sample for a one-line status display
func (s Sample) String() string {
	return fmt.Sprintf("threats %d | zero-days %d | sessions %d | health %.1f%%",
		s.ThreatsDetected, s.ZeroDays, s.ActiveSessions, s.SystemHealth)
}

// Validate rejects impossible values
func (s Sample) Validate() error {
	if s.ThreatsDetected < 0 || s.ZeroDays < 0 || s.ActiveSessions < 0 {
		return fmt.Errorf("negative counter in sample %+v", s)
	}
	if s.SystemHealth < 0 || s.SystemHealth > 100 {
		return fmt.Errorf("system health %.2f outside [0, 100]", s.SystemHealth)
	}
	return nil
}

// Source is a pull-based provider of samples
type Source interface {
	Fetch(ctx context.Context) (Sample, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (Sample, error)

func (f SourceFunc) Fetch(ctx context.Context) (Sample, error) {
	return f(ctx)
}

// Static always returns the same sample
type Static struct {
	Sample Sample
}

func (s Static) Fetch(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	return s.Sample, nil
}

// Push holds the latest published sample and fans it out to subscribers
// Slow subscribers miss intermediate samples, only the newest is kept per subscriber
type Push struct {
	mu     sync.Mutex
	latest Sample
	has    bool
	subs   []chan Sample
	closed bool
}

// NewPush creates an empty push source
func NewPush() *Push {
	return &Push{}
}

// Publish stores s and notifies subscribers without blocking
func (p *Push) Publish(s Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("publish on closed feed")
	}
	p.latest = s
	p.has = true
	for _, ch := range p.subs {
		// Replace a stale pending sample with the new one
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
	return nil
}

// Fetch returns the latest sample
func (p *Push) Fetch(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.has {
		return Sample{}, ErrNoSample
	}
	return p.latest, nil
}

// Subscribe returns a channel receiving every newer sample, closed by Close
func (p *Push) Subscribe() <-chan Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan Sample, 1)
	if p.closed {
		close(ch)
		return ch
	}
	if p.has {
		ch <- p.latest
	}
	p.subs = append(p.subs, ch)
	return ch
}

// Close ends all subscriptions, idempotent
func (p *Push) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}
