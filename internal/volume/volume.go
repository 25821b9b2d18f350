package volume

import (
	"log/slog"

	"github.com/udisondev/beatspawn/internal/geom"
)

// MaxShrink is the fraction of the static extents removed at difficulty factor 100.
const MaxShrink = 0.5

// FactorSource supplies the live difficulty factor (0–100).
type FactorSource interface {
	Factor() int
}

type zeroFactor struct{}

func (zeroFactor) Factor() int { return 0 }

// Volume is the bounded box where targets may appear.
// Depth (X) is fixed; only the Y/Z extents shrink under dynamic policies.
type Volume struct {
	origin  geom.Vec3
	extents geom.Vec3 // half extents, static
	policy  SpreadPolicy
	factor  FactorSource
}

// New creates a volume reading the difficulty factor from src.
// A nil src behaves as a constant factor of 0.
func New(src FactorSource) *Volume {
	if src == nil {
		src = zeroFactor{}
	}
	return &Volume{factor: src}
}

// Configure sets origin, half extents and spread policy.
// Negative extents are clamped to 0.
func (v *Volume) Configure(origin, halfExtents geom.Vec3, policy SpreadPolicy) {
	clamped := geom.Vec3{
		X: max(halfExtents.X, 0),
		Y: max(halfExtents.Y, 0),
		Z: max(halfExtents.Z, 0),
	}
	if clamped != halfExtents {
		slog.Warn("negative spawn volume extents clamped",
			"requested", halfExtents,
			"clamped", clamped)
	}

	v.origin = origin
	v.extents = clamped
	v.policy = policy
}

// Origin returns the volume center.
func (v *Volume) Origin() geom.Vec3 { return v.origin }

// Policy returns the configured spread policy.
func (v *Volume) Policy() SpreadPolicy { return v.policy }

// StaticExtents returns the un-shrunk half extents.
func (v *Volume) StaticExtents() geom.Vec3 { return v.extents }

// CurrentExtents returns the effective half extents.
// Recomputed on every call so the shrink tracks the difficulty factor live.
func (v *Volume) CurrentExtents() geom.Vec3 {
	if !v.policy.IsDynamic() {
		return v.extents
	}
	f := geom.Clamp(float64(v.factor.Factor()), 0, 100)
	k := 1 - f/100*MaxShrink
	return geom.Vec3{
		X: v.extents.X,
		Y: v.extents.Y * k,
		Z: v.extents.Z * k,
	}
}

// Bounds returns the current Y/Z rectangle.
func (v *Volume) Bounds() geom.Rect {
	e := v.CurrentExtents()
	return geom.RectAround(v.origin, e.Y, e.Z)
}

// StaticBounds returns the un-shrunk Y/Z rectangle.
func (v *Volume) StaticBounds() geom.Rect {
	return geom.RectAround(v.origin, v.extents.Y, v.extents.Z)
}

// Contains reports whether p lies inside the current extents, depth included.
func (v *Volume) Contains(p geom.Vec3) bool {
	e := v.CurrentExtents()
	d := p.Sub(v.origin)
	const eps = 1e-9
	return abs(d.X) <= e.X+eps && abs(d.Y) <= e.Y+eps && abs(d.Z) <= e.Z+eps
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
