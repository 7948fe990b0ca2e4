package feed

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Poller pulls a Source on a fixed interval and hands each sample to a handler
type Poller struct {
	source   Source
	interval time.Duration
	handler  func(Sample)
	timeout  time.Duration
}

// NewPoller creates a poller, timeout bounds each Fetch (0 = interval)
func NewPoller(source Source, interval time.Duration, handler func(Sample)) *Poller {
	return &Poller{
		source:   source,
		interval: interval,
		handler:  handler,
		timeout:  interval,
	}
}

// Run fetches immediately, then every interval, until ctx is cancelled
// Fetch errors are logged and the tick is skipped, a non-positive interval fails with ErrInvalidInterval
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, p.interval)
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	s, err := p.source.Fetch(fctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("feed: fetch failed: %v", err)
		}
		return
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	p.handler(s)
}
