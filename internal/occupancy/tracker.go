package occupancy

import (
	"github.com/udisondev/beatspawn/internal/geom"
)

// DefaultBaseRadius is the radius of a target at scale 1.
const DefaultBaseRadius = 50.0

// Tracker remembers where targets were recently placed.
// The ring answers "is this candidate free" for the random-retry search;
// the grid tracks live targets and answers "which regions are free".
type Tracker struct {
	ring          *Ring
	grid          *Grid
	baseRadius    float64
	minSeparation float64
}

// NewTracker creates a tracker with a ring of the given capacity and a grid
// covering staticBounds on the plane at depth.
func NewTracker(capacity int, staticBounds geom.Rect, depth, baseRadius, minSeparation float64) *Tracker {
	if baseRadius <= 0 {
		baseRadius = DefaultBaseRadius
	}
	return &Tracker{
		ring:          NewRing(capacity),
		grid:          NewGrid(staticBounds, depth),
		baseRadius:    baseRadius,
		minSeparation: max(minSeparation, 0),
	}
}

// RingCapacity returns ceil(maxLifespan / spawnPeriod), at least 1.
func RingCapacity(maxLifespan, spawnPeriod float64) int {
	if spawnPeriod <= 0 || maxLifespan <= 0 {
		return 1
	}
	n := int(maxLifespan / spawnPeriod)
	if float64(n)*spawnPeriod < maxLifespan {
		n++
	}
	return max(n, 1)
}

// CollisionRadius returns scale × baseRadius + minSeparation.
func (t *Tracker) CollisionRadius(scale float64) float64 {
	return max(scale, 0)*t.baseRadius + t.minSeparation
}

// BaseRadius returns the radius of a target at scale 1.
func (t *Tracker) BaseRadius() float64 { return t.baseRadius }

// RecordPlacement pushes the sphere of a placed target to the front of the ring.
func (t *Tracker) RecordPlacement(center geom.Vec3, scale float64) Record {
	rec := Record{Sphere: geom.Sphere{Center: center, Radius: t.CollisionRadius(scale)}}
	t.ring.Push(rec)
	return rec
}

// RecordSkip pushes a degenerate record so the retry window keeps advancing.
func (t *Tracker) RecordSkip() {
	t.ring.Push(skipRecord())
}

// IntersectsAny checks a candidate sphere against the recent ring only.
func (t *Tracker) IntersectsAny(center geom.Vec3, radius float64) bool {
	return t.ring.IntersectsAny(geom.Sphere{Center: center, Radius: radius})
}

// MarkOccupiedCells blocks the grid cells covered by a target and returns them.
func (t *Tracker) MarkOccupiedCells(center geom.Vec3, scale float64) CellSet {
	r := max(scale, 0)*t.baseRadius*2 + t.minSeparation/2
	r = max(r, t.grid.MinOverlapRadius())
	return t.grid.Mark(geom.Sphere{Center: center, Radius: r})
}

// FreeCells releases cells previously returned by MarkOccupiedCells.
func (t *Tracker) FreeCells(set CellSet) {
	t.grid.Release(set)
}

// FreeRegions lists cells inside bounds where a new target fits.
func (t *Tracker) FreeRegions(bounds geom.Rect, edgeOnly bool) []Cell {
	return t.grid.FreeRegions(bounds, edgeOnly)
}

// Ring exposes the recent-sphere ring (read-only use).
func (t *Tracker) Ring() *Ring { return t.ring }

// Grid exposes the occupancy grid (read-only use).
func (t *Tracker) Grid() *Grid { return t.grid }
