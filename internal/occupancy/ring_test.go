package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/beatspawn/internal/geom"
)

func sphereAt(y float64) Record {
	return Record{Sphere: geom.Sphere{Center: geom.Vec3{Y: y}, Radius: 1}}
}

func TestRing_KeepsMostRecent(t *testing.T) {
	r := NewRing(4)
	for i := 1; i <= 6; i++ {
		r.Push(sphereAt(float64(i)))
	}

	require.Equal(t, 4, r.Len())
	for i, want := range []float64{6, 5, 4, 3} {
		assert.Equal(t, want, r.At(i).Sphere.Center.Y, "position %d", i)
	}
}

func TestRing_LengthIsConstant(t *testing.T) {
	r := NewRing(3)
	assert.Equal(t, 3, r.Len())
	for i := range 10 {
		if i%2 == 0 {
			r.Push(sphereAt(float64(i)))
		} else {
			r.Push(skipRecord())
		}
		assert.Equal(t, 3, r.Len())
	}
}

func TestRing_MinimumCapacity(t *testing.T) {
	assert.Equal(t, 1, NewRing(0).Len())
	assert.Equal(t, 1, NewRing(-3).Len())
}

func TestRing_SkippedRecordsNeverIntersect(t *testing.T) {
	r := NewRing(2)
	huge := geom.Sphere{Center: farAway, Radius: 1e6}
	assert.False(t, r.IntersectsAny(huge), "fresh ring is all skips")

	r.Push(sphereAt(0))
	assert.True(t, r.IntersectsAny(geom.Sphere{Center: geom.Vec3{Y: 1.5}, Radius: 1}))
	assert.False(t, r.IntersectsAny(geom.Sphere{Center: geom.Vec3{Y: 10}, Radius: 1}))

	r.Push(skipRecord())
	r.Push(skipRecord())
	assert.False(t, r.IntersectsAny(geom.Sphere{Center: geom.Vec3{Y: 1.5}, Radius: 1}), "evicted")
}

func TestRing_RecordsIsACopy(t *testing.T) {
	r := NewRing(2)
	r.Push(sphereAt(7))
	recs := r.Records()
	recs[0] = sphereAt(99)
	assert.Equal(t, 7.0, r.At(0).Sphere.Center.Y)
}
