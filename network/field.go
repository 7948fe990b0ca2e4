package network

import (
	"fmt"
	"math/rand/v2"

	"github.com/lixenwraith/gungnir/physics"
	"github.com/lixenwraith/gungnir/render"
	"github.com/lixenwraith/gungnir/vmath"
)

// Node is a simulated point-mass drawn as a circle
// Radius and Color are fixed at creation
type Node struct {
	physics.Kinetic
	Radius float64
	Color  render.RGB
}

// Edge is a connected unordered pair, A < B
type Edge struct {
	A, B     int
	Distance float64
	Opacity  float64
}

// Field owns a fixed-size node set inside [0, width) x [0, height)
// Not safe for concurrent use, the owning renderer serializes access
type Field struct {
	cfg    Config
	nodes  []Node
	width  int
	height int
}

// NewField seeds cfg.NodeCount nodes uniformly over the bounds
func NewField(cfg Config, width, height int, rng *rand.Rand) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d has zero area", ErrInvalidConfiguration, width, height)
	}

	f := &Field{
		cfg:    cfg,
		nodes:  make([]Node, cfg.NodeCount),
		width:  width,
		height: height,
	}
	for i := range f.nodes {
		f.nodes[i] = Node{
			Kinetic: physics.Kinetic{
				Pos: vmath.Vec2{X: rng.Float64() * float64(width), Y: rng.Float64() * float64(height)},
				Vel: vmath.Vec2{X: symmetric(rng, cfg.VelocityRange), Y: symmetric(rng, cfg.VelocityRange)},
			},
			Radius: vmath.Lerp(cfg.RadiusMin, cfg.RadiusMax, rng.Float64()),
			Color:  cfg.Palette.Pick(rng),
		}
	}
	return f, nil
}

// symmetric draws from [-r, r)
func symmetric(rng *rand.Rand, r float64) float64 {
	return (rng.Float64()*2 - 1) * r
}

// Config returns the field parameters
func (f *Field) Config() Config {
	return f.cfg
}

// Len returns the node count, constant for the field lifetime
func (f *Field) Len() int {
	return len(f.nodes)
}

// Bounds returns the working area
func (f *Field) Bounds() (width, height int) {
	return f.width, f.height
}

// Node returns a copy of node i
func (f *Field) Node(i int) Node {
	return f.nodes[i]
}

// Nodes returns a snapshot copy of all nodes
func (f *Field) Nodes() []Node {
	return append([]Node(nil), f.nodes...)
}

// Resize updates the working bounds
// Positions are not rescaled, nodes outside snap to the nearest edge on the next Step
func (f *Field) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: bounds %dx%d have zero area", ErrInvalidConfiguration, width, height)
	}
	f.width = width
	f.height = height
	return nil
}

// Step integrates every node by one frame, then reflects at the bounds
// Returns the number of nodes that touched a boundary
func (f *Field) Step() int {
	for i := range f.nodes {
		physics.Integrate(&f.nodes[i].Kinetic)
	}
	reflected := 0
	for i := range f.nodes {
		if physics.ReflectBounds(&f.nodes[i].Kinetic, f.width, f.height) {
			reflected++
		}
	}
	return reflected
}

// Edges calls fn for every unordered pair closer than ConnectionDistance, each pair exactly once
// O(n²) per call, acceptable for tens of nodes; large counts need a spatial index
// Returns the number of edges visited
func (f *Field) Edges(fn func(Edge)) int {
	limitSq := f.cfg.ConnectionDistance * f.cfg.ConnectionDistance
	count := 0
	for i := 0; i < len(f.nodes); i++ {
		for j := i + 1; j < len(f.nodes); j++ {
			dSq := vmath.DistanceSq(f.nodes[i].Pos, f.nodes[j].Pos)
			if dSq >= limitSq {
				continue
			}
			count++
			if fn != nil {
				d := vmath.Distance(f.nodes[i].Pos, f.nodes[j].Pos)
				fn(Edge{A: i, B: j, Distance: d, Opacity: f.cfg.Opacity(d)})
			}
		}
	}
	return count
}

// Connected reports whether nodes i and j would be joined by an edge, order-independent
func (f *Field) Connected(i, j int) bool {
	if i == j {
		return false
	}
	limitSq := f.cfg.ConnectionDistance * f.cfg.ConnectionDistance
	return vmath.DistanceSq(f.nodes[i].Pos, f.nodes[j].Pos) < limitSq
}
