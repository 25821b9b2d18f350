package geom

// Sphere is a bounding sphere around a placed target.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Intersects reports whether two spheres overlap. Touching spheres do not intersect.
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.DistanceSquared(o.Center) < r*r
}

// Contains reports whether p lies strictly inside the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return s.Center.DistanceSquared(p) < s.Radius*s.Radius
}

// Rect is an axis-aligned rectangle on the Y/Z spawn plane.
type Rect struct {
	MinY, MinZ float64
	MaxY, MaxZ float64
}

// RectAround returns the rectangle centered on c with the given half extents.
func RectAround(c Vec3, halfY, halfZ float64) Rect {
	return Rect{
		MinY: c.Y - halfY,
		MinZ: c.Z - halfZ,
		MaxY: c.Y + halfY,
		MaxZ: c.Z + halfZ,
	}
}

// Contains reports whether (y, z) lies inside r, edges included.
func (r Rect) Contains(y, z float64) bool {
	return y >= r.MinY && y <= r.MaxY && z >= r.MinZ && z <= r.MaxZ
}

// Width returns the Y span.
func (r Rect) Width() float64 { return r.MaxY - r.MinY }

// Height returns the Z span.
func (r Rect) Height() float64 { return r.MaxZ - r.MinZ }
