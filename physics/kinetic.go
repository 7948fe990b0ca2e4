package physics

import "github.com/lixenwraith/gungnir/vmath"

// Kinetic is the motion state of a point-mass in surface pixel space
type Kinetic struct {
	Pos vmath.Vec2
	Vel vmath.Vec2
}

// Integrate advances position by one frame of velocity: p = p + v
// No acceleration and no damping, motion is constant between reflections
func Integrate(k *Kinetic) {
	k.Pos = k.Pos.Add(k.Vel)
}

// ReflectBoundsX handles horizontal boundary collision, returns true if reflection occurred
// Clamps into the valid range [minX, maxX) and points velocity back inside
func ReflectBoundsX(k *Kinetic, minX, maxX int) bool {
	lo, hi := float64(minX), float64(maxX-1)
	if k.Pos.X >= lo && k.Pos.X < float64(maxX) {
		return false
	}
	outward := (k.Pos.X < lo && k.Vel.X < 0) || (k.Pos.X > hi && k.Vel.X > 0)
	k.Pos.X = vmath.Clamp(k.Pos.X, lo, hi)
	if outward {
		k.Vel = vmath.ReflectAxisX(k.Vel)
	}
	return true
}

// ReflectBoundsY handles vertical boundary collision, returns true if reflection occurred
// Clamps into the valid range [minY, maxY) and points velocity back inside
func ReflectBoundsY(k *Kinetic, minY, maxY int) bool {
	lo, hi := float64(minY), float64(maxY-1)
	if k.Pos.Y >= lo && k.Pos.Y < float64(maxY) {
		return false
	}
	outward := (k.Pos.Y < lo && k.Vel.Y < 0) || (k.Pos.Y > hi && k.Vel.Y > 0)
	k.Pos.Y = vmath.Clamp(k.Pos.Y, lo, hi)
	if outward {
		k.Vel = vmath.ReflectAxisY(k.Vel)
	}
	return true
}

// ReflectBounds applies both axes independently, returns true if either axis reflected
func ReflectBounds(k *Kinetic, width, height int) bool {
	rx := ReflectBoundsX(k, 0, width)
	ry := ReflectBoundsY(k, 0, height)
	return rx || ry
}
