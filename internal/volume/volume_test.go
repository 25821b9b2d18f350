package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/beatspawn/internal/geom"
)

type fixedFactor int

func (f fixedFactor) Factor() int { return int(f) }

func TestVolume_CurrentExtents(t *testing.T) {
	half := geom.Vec3{X: 10, Y: 800, Z: 250}

	tests := []struct {
		name   string
		policy SpreadPolicy
		factor int
		want   geom.Vec3
	}{
		{"static ignores factor", SpreadStaticWide, 100, half},
		{"none ignores factor", SpreadNone, 50, half},
		{"dynamic at 0 is full", SpreadDynamicRandom, 0, half},
		{"dynamic at 50 shrinks by quarter", SpreadDynamicRandom, 50, geom.Vec3{X: 10, Y: 600, Z: 187.5}},
		{"dynamic at 100 is half", SpreadDynamicEdgeOnly, 100, geom.Vec3{X: 10, Y: 400, Z: 125}},
		{"factor above range is clamped", SpreadDynamicRandom, 250, geom.Vec3{X: 10, Y: 400, Z: 125}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(fixedFactor(tt.factor))
			v.Configure(geom.Vec3{X: 3700, Z: 360}, half, tt.policy)

			got := v.CurrentExtents()
			assert.True(t, got.ApproxEqual(tt.want, 1e-9), "got %+v, want %+v", got, tt.want)
			assert.Equal(t, half, v.StaticExtents())
		})
	}
}

func TestVolume_ShrinkIsMonotonic(t *testing.T) {
	half := geom.Vec3{Y: 800, Z: 250}
	prev := half
	for f := 0; f <= 100; f++ {
		v := New(fixedFactor(f))
		v.Configure(geom.Vec3{}, half, SpreadDynamicRandom)
		cur := v.CurrentExtents()
		assert.LessOrEqual(t, cur.Y, prev.Y)
		assert.LessOrEqual(t, cur.Z, prev.Z)
		prev = cur
	}
}

func TestVolume_NegativeExtentsClamped(t *testing.T) {
	v := New(nil)
	v.Configure(geom.Vec3{}, geom.Vec3{X: -1, Y: -50, Z: 20}, SpreadStaticNarrow)
	assert.Equal(t, geom.Vec3{Z: 20}, v.StaticExtents())
}

func TestVolume_BoundsAndContains(t *testing.T) {
	v := New(fixedFactor(100))
	v.Configure(geom.Vec3{X: 3700, Y: 0, Z: 360}, geom.Vec3{Y: 800, Z: 250}, SpreadDynamicRandom)

	assert.Equal(t, geom.Rect{MinY: -800, MinZ: 110, MaxY: 800, MaxZ: 610}, v.StaticBounds())
	assert.Equal(t, geom.Rect{MinY: -400, MinZ: 235, MaxY: 400, MaxZ: 485}, v.Bounds())

	assert.True(t, v.Contains(geom.Vec3{X: 3700, Y: 400, Z: 360}))
	assert.False(t, v.Contains(geom.Vec3{X: 3700, Y: 401, Z: 360}))
	assert.False(t, v.Contains(geom.Vec3{X: 3600, Y: 0, Z: 360}), "depth is part of the volume")
}

func TestSpreadPolicy_Text(t *testing.T) {
	for p := range policyNames {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var back SpreadPolicy
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}

	var p SpreadPolicy
	assert.Error(t, p.UnmarshalText([]byte("everywhere")))
	assert.True(t, SpreadDynamicEdgeOnly.IsDynamic())
	assert.False(t, SpreadStaticWide.IsDynamic())
	assert.Equal(t, "SpreadPolicy(42)", SpreadPolicy(42).String())
}

func TestVolume_ConfigureIsIdempotent(t *testing.T) {
	origin := geom.Vec3{X: 3700, Z: 360}
	half := geom.Vec3{Y: 800, Z: 600}

	for _, policy := range []SpreadPolicy{SpreadStaticNarrow, SpreadDynamicRandom, SpreadDynamicEdgeOnly} {
		v := New(fixedFactor(40))
		v.Configure(origin, half, policy)
		first := v.CurrentExtents()
		v.Configure(origin, half, policy)
		assert.Equal(t, first, v.CurrentExtents(), policy.String())
	}
}
