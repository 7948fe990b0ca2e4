package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// PulseConfig tunes the link blip
type PulseConfig struct {
	Frequency float64       // Tone pitch in Hz
	Duration  time.Duration // Blip length
	MinGap    time.Duration // Minimum time between blips
	Volume    float64       // Exponent in base 2, 0 = unity, negative = quieter
}

// DefaultPulseConfig returns a short quiet high blip, at most a few per second
func DefaultPulseConfig() PulseConfig {
	return PulseConfig{
		Frequency: 880,
		Duration:  40 * time.Millisecond,
		MinGap:    250 * time.Millisecond,
		Volume:    -3,
	}
}

// Pulser plays a blip when the edge count of the network rises
// Safe to use without a sound device: all calls degrade to bookkeeping only
type Pulser struct {
	mu          sync.Mutex
	cfg         PulseConfig
	mixer       *beep.Mixer
	initialized bool

	lastEdges int
	lastPulse time.Time
	played    int
}

// NewPulser creates an uninitialized pulser
func NewPulser(cfg PulseConfig) *Pulser {
	return &Pulser{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker, a failure leaves the pulser silent
func (p *Pulser) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Observe feeds the current edge count, returns true if a blip was triggered
func (p *Pulser) Observe(edges int, at time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	rising := edges > p.lastEdges
	p.lastEdges = edges
	if !rising {
		return false
	}
	if !p.lastPulse.IsZero() && at.Sub(p.lastPulse) < p.cfg.MinGap {
		return false
	}
	p.lastPulse = at
	p.played++

	if p.initialized {
		p.play()
	}
	return true
}

// play queues one blip on the mixer, caller holds mu
func (p *Pulser) play() {
	tone, err := generators.SineTone(sampleRate, p.cfg.Frequency)
	if err != nil {
		return
	}
	blip := &effects.Volume{
		Streamer: beep.Take(sampleRate.N(p.cfg.Duration), tone),
		Base:     2,
		Volume:   p.cfg.Volume,
	}

	speaker.Lock()
	p.mixer.Add(blip)
	speaker.Unlock()
}

// Played returns the number of blips triggered
func (p *Pulser) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close stops all sounds
func (p *Pulser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	// Note: speaker stays open, beep cannot re-init it within one process
	p.initialized = false
}
