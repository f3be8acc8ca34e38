// Package geom provides the 2D vector type shared by the simulation,
// hit-testing and rendering layers.
package geom

import "math"

// approxZero is the squared length below which a vector counts as zero.
const approxZero = 1e-12

// Vec2 is a 2D vector with float64 components.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Zero returns the zero vector.
func Zero() Vec2 {
	return Vec2{}
}

// Up returns the unit vector pointing towards negative Y (screen up).
func Up() Vec2 {
	return Vec2{X: 0, Y: -1}
}

// Add returns the sum of two vectors
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the difference between two vectors
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies the vector by a scalar value
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Neg returns the vector pointing the opposite way.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Len returns the magnitude of the vector
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

// IsApproxZero reports whether the vector is too short to have a direction.
func (v Vec2) IsApproxZero() bool {
	return v.X*v.X+v.Y*v.Y < approxZero
}

// Normalized returns a unit vector in the same direction. A vector too short
// to have a direction normalizes to the zero vector.
func (v Vec2) Normalized() Vec2 {
	if v.IsApproxZero() {
		return Vec2{}
	}
	l := v.Len()
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rotated rotates the vector counter-clockwise by angle radians.
func (v Vec2) Rotated(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Within reports whether v lies inside the axis-aligned rectangle spanned by
// a and b, edges included. The corners may be given in either order.
func (v Vec2) Within(a, b Vec2) bool {
	return between(v.X, a.X, b.X) && between(v.Y, a.Y, b.Y)
}

// Less orders vectors lexicographically by X then Y.
func (v Vec2) Less(o Vec2) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	return v.Y < o.Y
}

// Lerp linearly interpolates from a (t=0) to b (t=1).
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// TriangleArea returns the unsigned area of the triangle abc.
func TriangleArea(a, b, c Vec2) float64 {
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
}

func between(x, lo, hi float64) bool {
	if lo > hi {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}
