package occupancy

import "github.com/udisondev/beatspawn/internal/geom"

// farAway anchors degenerate records well outside any spawn volume.
var farAway = geom.Vec3{X: -1e12, Y: -1e12, Z: -1e12}

// Record is a recently used location: the bounding sphere of a placed target
// (radius already includes the minimum separation) or a skipped slot.
type Record struct {
	Sphere  geom.Sphere
	Skipped bool
}

func skipRecord() Record {
	return Record{Sphere: geom.Sphere{Center: farAway}, Skipped: true}
}

// Ring is a fixed-length most-recent-first buffer of Records.
// Length never changes after construction.
type Ring struct {
	records []Record
}

// NewRing creates a ring filled with skipped slots. Capacity is at least 1.
func NewRing(capacity int) *Ring {
	capacity = max(capacity, 1)
	r := &Ring{records: make([]Record, capacity)}
	for i := range r.records {
		r.records[i] = skipRecord()
	}
	return r
}

// Push inserts rec at index 0 and drops the oldest record.
func (r *Ring) Push(rec Record) {
	copy(r.records[1:], r.records[:len(r.records)-1])
	r.records[0] = rec
}

// Len returns the fixed ring length.
func (r *Ring) Len() int {
	return len(r.records)
}

// At returns the i-th most recent record.
func (r *Ring) At(i int) Record {
	return r.records[i]
}

// Records returns a copy of the ring, most recent first.
func (r *Ring) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// IntersectsAny reports whether s overlaps any recorded sphere.
// Hot path: runs once per placement candidate.
func (r *Ring) IntersectsAny(s geom.Sphere) bool {
	for i := range r.records {
		if r.records[i].Skipped {
			continue
		}
		if r.records[i].Sphere.Intersects(s) {
			return true
		}
	}
	return false
}
