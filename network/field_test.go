package network

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lixenwraith/gungnir/physics"
	"github.com/lixenwraith/gungnir/render"
	"github.com/lixenwraith/gungnir/vmath"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// place builds a node at (x, y) with velocity (vx, vy)
func place(x, y, vx, vy float64) Node {
	return Node{
		Kinetic: physics.Kinetic{Pos: vmath.Vec2{X: x, Y: y}, Vel: vmath.Vec2{X: vx, Y: vy}},
		Radius:  3,
		Color:   render.RGBWhite,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"Defaults", func(c *Config) {}, true},
		{"Zero nodes", func(c *Config) { c.NodeCount = 0 }, false},
		{"Negative nodes", func(c *Config) { c.NodeCount = -3 }, false},
		{"Zero distance", func(c *Config) { c.ConnectionDistance = 0 }, false},
		{"NaN distance", func(c *Config) { c.ConnectionDistance = math.NaN() }, false},
		{"Negative velocity range", func(c *Config) { c.VelocityRange = -1 }, false},
		{"Zero velocity range", func(c *Config) { c.VelocityRange = 0 }, true},
		{"Inverted radius", func(c *Config) { c.RadiusMin, c.RadiusMax = 8, 3 }, false},
		{"Zero radius", func(c *Config) { c.RadiusMin = 0 }, false},
		{"Fixed radius", func(c *Config) { c.RadiusMin, c.RadiusMax = 4, 4 }, true},
		{"Trail fade above one", func(c *Config) { c.TrailFade = 1.5 }, false},
		{"Trail fade zero", func(c *Config) { c.TrailFade = 0 }, true},
		{"Trail fade one", func(c *Config) { c.TrailFade = 1 }, true},
		{"Zero edge opacity", func(c *Config) { c.EdgeOpacity = 0 }, false},
		{"Negative normalization", func(c *Config) { c.OpacityNormalization = -1 }, false},
		{"Normalization keeps edges past threshold", func(c *Config) { c.OpacityNormalization = 1000 }, false},
		{"Normalization fades at threshold", func(c *Config) { c.OpacityNormalization = 100 }, true},
		{"Dim edges allow longer normalization", func(c *Config) { c.EdgeOpacity, c.OpacityNormalization = 0.5, 200 }, true},
		{"Negative interval", func(c *Config) { c.FrameInterval = -1 }, false},
		{"Bad saturation", func(c *Config) { c.Palette.Saturation = 2 }, false},
		{"Explicit colors skip HSL check", func(c *Config) {
			c.Palette = Palette{Colors: []render.RGB{render.RGBCyan}, Saturation: 5}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNewFieldSeedsNodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 50
	f, err := NewField(cfg, 640, 480, testRand(1))
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	if f.Len() != 50 {
		t.Fatalf("Len = %d, want 50", f.Len())
	}

	for i, n := range f.Nodes() {
		if n.Pos.X < 0 || n.Pos.X >= 640 || n.Pos.Y < 0 || n.Pos.Y >= 480 {
			t.Errorf("node %d seeded out of bounds: %v", i, n.Pos)
		}
		if n.Vel.X < -1 || n.Vel.X >= 1 || n.Vel.Y < -1 || n.Vel.Y >= 1 {
			t.Errorf("node %d velocity out of range: %v", i, n.Vel)
		}
		if n.Radius < 3 || n.Radius > 8 {
			t.Errorf("node %d radius %f out of [3, 8]", i, n.Radius)
		}
	}
}

func TestNewFieldRejects(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewField(cfg, 0, 100, testRand(1)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := NewField(cfg, 100, 0, testRand(1)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero height: got %v", err)
	}
	cfg.NodeCount = 0
	if _, err := NewField(cfg, 100, 100, testRand(1)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero nodes: got %v", err)
	}
}

func TestSameSeedSameField(t *testing.T) {
	cfg := DefaultConfig()
	a, _ := NewField(cfg, 300, 200, testRand(42))
	b, _ := NewField(cfg, 300, 200, testRand(42))
	for i := 0; i < a.Len(); i++ {
		if a.Node(i) != b.Node(i) {
			t.Fatalf("node %d differs: %v vs %v", i, a.Node(i), b.Node(i))
		}
	}
}

func TestStepKeepsNodesInBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 40
	cfg.VelocityRange = 25 // Fast enough to cross edges often
	f, err := NewField(cfg, 120, 80, testRand(7))
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	for frame := 0; frame < 1000; frame++ {
		f.Step()
		if f.Len() != 40 {
			t.Fatalf("frame %d: node count changed to %d", frame, f.Len())
		}
		for i, n := range f.Nodes() {
			if n.Pos.X < 0 || n.Pos.X >= 120 || n.Pos.Y < 0 || n.Pos.Y >= 80 {
				t.Fatalf("frame %d: node %d escaped: %v", frame, i, n.Pos)
			}
		}
	}
}

func TestStepPreservesSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 1
	f, _ := NewField(cfg, 100, 100, testRand(3))
	f.setNode(0, place(99, 50, 5, -2))

	f.Step()
	n := f.Node(0)
	if n.Vel.X != -5 || n.Vel.Y != -2 {
		t.Errorf("velocity = %v, want {-5 -2}", n.Vel)
	}
	if n.Pos.X != 99 {
		t.Errorf("x = %f, want clamped to 99", n.Pos.X)
	}
}

func TestResizeSnapsToNewEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 1
	f, _ := NewField(cfg, 200, 200, testRand(3))
	f.setNode(0, place(150, 180, 0.5, 0.5))

	if err := f.Resize(100, 50); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	// Position untouched until the next frame
	if f.Node(0).Pos.X != 150 {
		t.Errorf("Resize rescaled position: %v", f.Node(0).Pos)
	}

	f.Step()
	n := f.Node(0)
	if n.Pos.X != 99 || n.Pos.Y != 49 {
		t.Errorf("snapped position = %v, want {99 49}", n.Pos)
	}
	if n.Vel.X >= 0 || n.Vel.Y >= 0 {
		t.Errorf("velocity should point inward: %v", n.Vel)
	}

	if err := f.Resize(0, 10); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero-area resize: got %v", err)
	}
	if w, h := f.Bounds(); w != 100 || h != 50 {
		t.Errorf("bounds changed by rejected resize: %dx%d", w, h)
	}
}

func TestEdgesThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 2
	f, _ := NewField(cfg, 500, 500, testRand(1))

	f.setNode(0, place(10, 10, 0, 0))
	f.setNode(1, place(110, 10, 0, 0))
	if n := f.Edges(nil); n != 0 {
		t.Errorf("nodes exactly at connection distance connected (%d edges)", n)
	}
	if f.Connected(0, 1) {
		t.Error("Connected true at exact distance")
	}

	f.setNode(1, place(110-1e-6, 10, 0, 0))
	if n := f.Edges(nil); n != 1 {
		t.Errorf("nodes just inside distance: %d edges, want 1", n)
	}
}

func TestEdgesUnorderedPairsOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCount = 30
	f, _ := NewField(cfg, 200, 200, testRand(11))

	seen := make(map[[2]int]int)
	f.Edges(func(e Edge) {
		if e.A >= e.B {
			t.Errorf("edge not ordered: %d, %d", e.A, e.B)
		}
		seen[[2]int{e.A, e.B}]++
	})
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %v drawn %d times", pair, n)
		}
	}

	// Decision is symmetric in pair order
	for i := 0; i < f.Len(); i++ {
		for j := 0; j < f.Len(); j++ {
			if f.Connected(i, j) != f.Connected(j, i) {
				t.Fatalf("Connected(%d,%d) asymmetric", i, j)
			}
			if i < j && f.Connected(i, j) != (seen[[2]int{i, j}] == 1) {
				t.Fatalf("Edges and Connected disagree for (%d,%d)", i, j)
			}
		}
	}
}

func TestOpacity(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"Touching", 0, 1},
		{"Half way", 50, 0.5},
		{"At threshold", 100, 0},
		{"Beyond threshold clamps", 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Opacity(tt.distance); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Opacity(%f) = %f, want %f", tt.distance, got, tt.want)
			}
		})
	}

	cfg.EdgeOpacity = 0.8
	cfg.OpacityNormalization = 50
	if got := cfg.Opacity(60); got != 0 {
		t.Errorf("opacity should reach zero before connection distance, got %f", got)
	}

	cfg.EdgeOpacity = 0.5
	cfg.OpacityNormalization = 200
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.Opacity(cfg.ConnectionDistance); got != 0 {
		t.Errorf("Opacity at connection distance = %f, want 0", got)
	}
	if got := cfg.Opacity(cfg.ConnectionDistance - 1); got <= 0 || got > 0.01 {
		t.Errorf("Opacity just inside connection distance = %f", got)
	}
}

func TestPalettePick(t *testing.T) {
	rng := testRand(5)
	fixed := Palette{Colors: []render.RGB{render.RGBCyan, render.RGBWhite}}
	for i := 0; i < 20; i++ {
		c := fixed.Pick(rng)
		if c != render.RGBCyan && c != render.RGBWhite {
			t.Fatalf("Pick returned color outside list: %v", c)
		}
	}

	hue := DefaultPalette()
	distinct := make(map[render.RGB]bool)
	for i := 0; i < 20; i++ {
		distinct[hue.Pick(rng)] = true
	}
	if len(distinct) < 2 {
		t.Error("random hue palette produced a single color")
	}
}
