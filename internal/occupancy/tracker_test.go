package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/beatspawn/internal/geom"
)

func TestRingCapacity(t *testing.T) {
	tests := []struct {
		name     string
		lifespan float64
		period   float64
		want     int
	}{
		{"rounds up", 1.5, 0.35, 5},
		{"exact", 1.0, 0.5, 2},
		{"lifespan shorter than period", 0.2, 1.0, 1},
		{"zero period", 1.5, 0, 1},
		{"zero lifespan", 0, 0.35, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RingCapacity(tt.lifespan, tt.period))
		})
	}
}

func TestTracker_CollisionRadius(t *testing.T) {
	tr := NewTracker(4, testBounds, 3700, DefaultBaseRadius, 100)
	assert.Equal(t, 175.0, tr.CollisionRadius(1.5))
	assert.Equal(t, 100.0, tr.CollisionRadius(0), "zero scale is a valid tiny sphere")

	fallback := NewTracker(4, testBounds, 3700, 0, -5)
	assert.Equal(t, DefaultBaseRadius, fallback.BaseRadius())
	assert.Equal(t, 50.0, fallback.CollisionRadius(1))
}

func TestTracker_RecordPlacementAndSkip(t *testing.T) {
	tr := NewTracker(3, testBounds, 3700, DefaultBaseRadius, 0)
	center := geom.Vec3{X: 3700, Z: 360}

	rec := tr.RecordPlacement(center, 1)
	assert.Equal(t, geom.Sphere{Center: center, Radius: 50}, rec.Sphere)
	assert.True(t, tr.IntersectsAny(center.Add(geom.Vec3{Y: 60}), 20))
	assert.False(t, tr.IntersectsAny(center.Add(geom.Vec3{Y: 80}), 20))

	for range 3 {
		tr.RecordSkip()
	}
	assert.Equal(t, 3, tr.Ring().Len())
	assert.False(t, tr.IntersectsAny(center, 20), "placement evicted by skips")
}

func TestTracker_MarkOccupiedCells(t *testing.T) {
	tr := NewTracker(3, testBounds, 3700, DefaultBaseRadius, 0)
	center := geom.Vec3{X: 3700, Y: 0, Z: 360}

	// scale 0 still reserves MinOverlapRadius around the center
	small := tr.MarkOccupiedCells(center, 0)
	assert.True(t, small.Contains(Cell{Col: 10, Row: 5}))

	big := tr.MarkOccupiedCells(center, 2)
	assert.Greater(t, len(big), len(small))
	for _, c := range big {
		a := tr.Grid().Anchor(c)
		assert.Less(t, a.Distance(center), 200.0+1e-9)
	}

	tr.FreeCells(small)
	tr.FreeCells(big)
	assert.Zero(t, tr.Grid().BlockedCount())
	assert.Len(t, tr.FreeRegions(testBounds, false), 200)
}
