package network

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/gungnir/render"
	"github.com/lixenwraith/gungnir/vmath"
)

// ErrInvalidConfiguration is returned when renderer parameters are out of range
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Defaults
const (
	DefaultNodeCount          = 20
	DefaultConnectionDistance = 100.0
	DefaultVelocityRange      = 1.0
	DefaultRadiusMin          = 3.0
	DefaultRadiusMax          = 8.0
	DefaultTrailFade          = 0.1
	DefaultEdgeOpacity        = 1.0
	DefaultFrameInterval      = time.Second / 60
)

// Config holds all tunables of a node network
type Config struct {
	NodeCount          int
	ConnectionDistance float64 // Edges drawn strictly below this distance
	VelocityRange      float64 // Initial velocity components drawn from [-VelocityRange, +VelocityRange)
	RadiusMin          float64
	RadiusMax          float64
	TrailFade          float64 // Background repaint opacity per frame, lower leaves longer trails

	EdgeOpacity          float64 // Opacity of a zero-length edge
	OpacityNormalization float64 // Distance scale of opacity decay, 0 uses ConnectionDistance

	Background render.RGB
	EdgeColor  render.RGB
	Palette    Palette

	Seed          uint64        // 0 picks a time-based seed at start
	FrameInterval time.Duration // Target frame period, 0 uses DefaultFrameInterval
}

// DefaultConfig returns the stock dashboard backdrop settings
func DefaultConfig() Config {
	return Config{
		NodeCount:          DefaultNodeCount,
		ConnectionDistance: DefaultConnectionDistance,
		VelocityRange:      DefaultVelocityRange,
		RadiusMin:          DefaultRadiusMin,
		RadiusMax:          DefaultRadiusMax,
		TrailFade:          DefaultTrailFade,
		EdgeOpacity:        DefaultEdgeOpacity,
		Background:         render.RGBSlate,
		EdgeColor:          render.RGBCyan,
		Palette:            DefaultPalette(),
		FrameInterval:      DefaultFrameInterval,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks every field, errors wrap ErrInvalidConfiguration
func (c Config) Validate() error {
	switch {
	case c.NodeCount <= 0:
		return fmt.Errorf("%w: node count %d must be positive", ErrInvalidConfiguration, c.NodeCount)
	case !finite(c.ConnectionDistance) || c.ConnectionDistance <= 0:
		return fmt.Errorf("%w: connection distance %v must be positive", ErrInvalidConfiguration, c.ConnectionDistance)
	case !finite(c.VelocityRange) || c.VelocityRange < 0:
		return fmt.Errorf("%w: velocity range %v must be non-negative", ErrInvalidConfiguration, c.VelocityRange)
	case !finite(c.RadiusMin) || !finite(c.RadiusMax) || c.RadiusMin <= 0 || c.RadiusMax < c.RadiusMin:
		return fmt.Errorf("%w: radius range [%v, %v] must satisfy 0 < min <= max", ErrInvalidConfiguration, c.RadiusMin, c.RadiusMax)
	case !(c.TrailFade >= 0 && c.TrailFade <= 1):
		return fmt.Errorf("%w: trail fade %v must be in [0, 1]", ErrInvalidConfiguration, c.TrailFade)
	case !(c.EdgeOpacity > 0 && c.EdgeOpacity <= 1):
		return fmt.Errorf("%w: edge opacity %v must be in (0, 1]", ErrInvalidConfiguration, c.EdgeOpacity)
	case !finite(c.OpacityNormalization) || c.OpacityNormalization < 0:
		return fmt.Errorf("%w: opacity normalization %v must be non-negative", ErrInvalidConfiguration, c.OpacityNormalization)
	case c.EdgeOpacity*c.normalization() > c.ConnectionDistance:
		return fmt.Errorf("%w: edge opacity %v over normalization %v stays visible past connection distance %v",
			ErrInvalidConfiguration, c.EdgeOpacity, c.OpacityNormalization, c.ConnectionDistance)
	case c.FrameInterval < 0:
		return fmt.Errorf("%w: frame interval %v must be non-negative", ErrInvalidConfiguration, c.FrameInterval)
	}
	if err := c.Palette.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// Interval returns the effective frame period
func (c Config) Interval() time.Duration {
	if c.FrameInterval == 0 {
		return DefaultFrameInterval
	}
	return c.FrameInterval
}

// normalization returns the effective opacity decay distance
func (c Config) normalization() float64 {
	if c.OpacityNormalization == 0 {
		return c.ConnectionDistance
	}
	return c.OpacityNormalization
}

// Opacity returns the edge stroke opacity for two nodes distance apart
// Decays linearly from EdgeOpacity and reaches 0 at or before ConnectionDistance
func (c Config) Opacity(distance float64) float64 {
	return vmath.Clamp(c.EdgeOpacity-distance/c.normalization(), 0, c.EdgeOpacity)
}
