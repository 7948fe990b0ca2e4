package vmath

import "math"

// Vec2 is a 2D vector in surface pixel space
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// MagnitudeSq returns squared length without sqrt
func (v Vec2) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Magnitude returns vector length
func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceSq returns squared Euclidean distance, use for threshold tests
func DistanceSq(a, b Vec2) float64 {
	return a.Sub(b).MagnitudeSq()
}

// Distance returns Euclidean distance between a and b
func Distance(a, b Vec2) float64 {
	return a.Sub(b).Magnitude()
}

// ReflectAxisX returns velocity reflected off a vertical wall (X axis boundary)
func ReflectAxisX(v Vec2) Vec2 {
	return Vec2{X: -v.X, Y: v.Y}
}

// ReflectAxisY returns velocity reflected off a horizontal wall (Y axis boundary)
func ReflectAxisY(v Vec2) Vec2 {
	return Vec2{X: v.X, Y: -v.Y}
}

// Clamp limits f to [lo, hi]
func Clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Lerp interpolates between a and b, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
