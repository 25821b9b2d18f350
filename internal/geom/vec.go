package geom

import "math"

// Vec3 представляет точку или направление в мировых координатах.
// X: глубина (ось к игроку), Y: горизонталь, Z: вертикаль.
// Value type, передаётся по значению.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// LengthSquared возвращает квадрат длины (без sqrt).
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the euclidean length.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// DistanceSquared возвращает квадрат расстояния до другой точки.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	return v.Sub(o).LengthSquared()
}

// Distance returns the euclidean distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Normalize returns the unit vector of v, or the zero vector for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Direction returns the unit vector pointing from `from` to `to`.
func Direction(from, to Vec3) Vec3 {
	return to.Sub(from).Normalize()
}

// ApproxEqual reports whether every component of v and o differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// WithX возвращает копию с новой глубиной (immutable pattern).
func (v Vec3) WithX(x float64) Vec3 {
	v.X = x
	return v
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
