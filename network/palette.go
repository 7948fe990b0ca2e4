package network

import (
	"errors"
	"math/rand/v2"

	"github.com/lixenwraith/gungnir/render"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette chooses node colors
// With Colors set, nodes pick uniformly from the list; otherwise a random hue at fixed saturation/lightness
// Color carries no meaning, it is purely cosmetic
type Palette struct {
	Colors     []render.RGB
	Saturation float64
	Lightness  float64
}

// DefaultPalette returns random-hue coloring
func DefaultPalette() Palette {
	return Palette{Saturation: 0.7, Lightness: 0.6}
}

// Validate rejects out-of-range HSL parameters when hue mode is active
func (p Palette) Validate() error {
	if len(p.Colors) > 0 {
		return nil
	}
	if !(p.Saturation >= 0 && p.Saturation <= 1) {
		return errors.New("palette saturation must be in [0, 1]")
	}
	if !(p.Lightness >= 0 && p.Lightness <= 1) {
		return errors.New("palette lightness must be in [0, 1]")
	}
	return nil
}

// Pick draws one color
func (p Palette) Pick(rng *rand.Rand) render.RGB {
	if len(p.Colors) > 0 {
		return p.Colors[rng.IntN(len(p.Colors))]
	}
	hue := rng.Float64() * 360
	return render.FromColorful(colorful.Hsl(hue, p.Saturation, p.Lightness))
}
