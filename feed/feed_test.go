package feed

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var dashboard = Sample{ThreatsDetected: 127, ZeroDays: 3, ActiveSessions: 1247, SystemHealth: 98.7}

func TestSampleValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Sample
		ok   bool
	}{
		{"Dashboard defaults", dashboard, true},
		{"Zero", Sample{}, true},
		{"Negative threats", Sample{ThreatsDetected: -1}, false},
		{"Health above 100", Sample{SystemHealth: 100.5}, false},
		{"Negative health", Sample{SystemHealth: -2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok != (err == nil) {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestSampleString(t *testing.T) {
	got := dashboard.String()
	for _, want := range []string{"threats 127", "zero-days 3", "sessions 1247", "health 98.7%"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestStatic(t *testing.T) {
	s := Static{Sample: dashboard}
	got, err := s.Fetch(context.Background())
	if err != nil || got != dashboard {
		t.Errorf("Fetch = %v, %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Fetch: %v", err)
	}
}

func TestPushFetch(t *testing.T) {
	p := NewPush()
	if _, err := p.Fetch(context.Background()); !errors.Is(err, ErrNoSample) {
		t.Errorf("empty Fetch: %v", err)
	}

	if err := p.Publish(dashboard); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, err := p.Fetch(context.Background())
	if err != nil || got != dashboard {
		t.Errorf("Fetch = %v, %v", got, err)
	}

	if err := p.Publish(Sample{SystemHealth: 400}); err == nil {
		t.Error("invalid sample accepted")
	}
	if got, _ := p.Fetch(context.Background()); got != dashboard {
		t.Error("invalid sample replaced latest")
	}
}

func TestPushSubscribeKeepsNewest(t *testing.T) {
	p := NewPush()
	p.Publish(dashboard)
	ch := p.Subscribe()

	// Late subscriber sees the current value first
	if got := <-ch; got != dashboard {
		t.Errorf("initial = %v", got)
	}

	// Two publishes without reading: only the newest survives
	p.Publish(Sample{ThreatsDetected: 1})
	p.Publish(Sample{ThreatsDetected: 2})
	if got := <-ch; got.ThreatsDetected != 2 {
		t.Errorf("received %d, want newest 2", got.ThreatsDetected)
	}

	p.Close()
	if _, ok := <-ch; ok {
		t.Error("channel open after Close")
	}
	if err := p.Publish(dashboard); err == nil {
		t.Error("Publish after Close succeeded")
	}
	p.Close()

	if _, ok := <-p.Subscribe(); ok {
		t.Error("Subscribe after Close returned open channel")
	}
}

func TestPollerDeliversAndSkipsErrors(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context) (Sample, error) {
		n := calls.Add(1)
		if n == 2 {
			return Sample{}, errors.New("upstream down")
		}
		return Sample{ThreatsDetected: int(n)}, nil
	})

	got := make(chan Sample, 10)
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(src, 5*time.Millisecond, func(s Sample) { got <- s })

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	first := <-got
	if first.ThreatsDetected != 1 {
		t.Errorf("first sample = %d, want 1", first.ThreatsDetected)
	}
	if first.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}
	second := <-got
	if second.ThreatsDetected != 3 {
		t.Errorf("second sample = %d, want 3 (call 2 failed)", second.ThreatsDetected)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPollerRejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		called := false
		p := NewPoller(Static{Sample: dashboard}, interval, func(Sample) { called = true })
		if err := p.Run(context.Background()); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("Run(%v) = %v, want ErrInvalidInterval", interval, err)
		}
		if called {
			t.Errorf("handler called with interval %v", interval)
		}
	}
}
