package beattrack

import (
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/volume"
)

// MaxDestinationAttempts bounds the destination search; past it the last sample is used.
const MaxDestinationAttempts = 20

// ScaleSource generates the tracking target scale for each leg.
type ScaleSource interface {
	GenerateScale() float64
}

// Config holds tracking speed bounds and the spawn period (seconds).
type Config struct {
	MinSpeed    float64
	MaxSpeed    float64
	SpawnPeriod float64
}

// State is the kinematic state of the single tracking target.
type State struct {
	Position     geom.Vec3
	Direction    geom.Vec3
	Speed        float64
	Scale        float64
	BeforeChange geom.Vec3
	Destination  geom.Vec3
}

// Leg is the plan computed on one tick.
type Leg struct {
	From        geom.Vec3
	Destination geom.Vec3
	Direction   geom.Vec3
	Speed       float64
	Scale       float64
	// Created is true on the leg that brought the target into existence.
	Created bool
}

// Planner re-plans direction, speed and scale of one continuously moving target.
type Planner struct {
	vol     *volume.Volume
	scales  ScaleSource
	cfg     Config
	rng     *rand.Rand
	state   State
	exists  bool
	outside bool
}

// NewPlanner creates a planner over vol.
func NewPlanner(vol *volume.Volume, scales ScaleSource, cfg Config, rng *rand.Rand) *Planner {
	if cfg.MaxSpeed < cfg.MinSpeed {
		cfg.MinSpeed, cfg.MaxSpeed = cfg.MaxSpeed, cfg.MinSpeed
	}
	return &Planner{
		vol:    vol,
		scales: scales,
		cfg:    cfg,
		rng:    rng,
	}
}

// ComputeNextLeg plans the next movement leg from the current position.
func (p *Planner) ComputeNextLeg() Leg {
	created := false
	if !p.exists {
		p.state.Position = p.vol.Origin()
		p.exists = true
		p.outside = false
		created = true
	}

	from := p.state.Position
	p.state.BeforeChange = from
	p.state.Scale = p.scales.GenerateScale()
	p.state.Speed = p.cfg.MinSpeed + p.rng.Float64()*(p.cfg.MaxSpeed-p.cfg.MinSpeed)
	p.state.Destination = p.destination(from, p.state.Speed)
	p.state.Direction = geom.Direction(from, p.state.Destination)

	slog.Debug("tracking leg planned",
		"from", from,
		"destination", p.state.Destination,
		"speed", p.state.Speed)

	return Leg{
		From:        from,
		Destination: p.state.Destination,
		Direction:   p.state.Direction,
		Speed:       p.state.Speed,
		Scale:       p.state.Scale,
		Created:     created,
	}
}

// destination samples points until the distance travelled over one spawn
// period, heading toward the sample, stays inside the volume.
func (p *Planner) destination(from geom.Vec3, speed float64) geom.Vec3 {
	travel := speed * p.cfg.SpawnPeriod
	var sample geom.Vec3
	for range MaxDestinationAttempts {
		sample = p.samplePoint()
		end := from.Add(geom.Direction(from, sample).Scale(travel))
		if p.vol.Contains(end) {
			return sample
		}
	}
	return sample
}

func (p *Planner) samplePoint() geom.Vec3 {
	o := p.vol.Origin()
	e := p.vol.CurrentExtents()
	return geom.Vec3{
		X: o.X - e.X + 2*e.X*p.rng.Float64(),
		Y: o.Y - e.Y + 2*e.Y*p.rng.Float64(),
		Z: o.Z - e.Z + 2*e.Z*p.rng.Float64(),
	}
}

// ReverseDirection flips the heading; called when the target stops overlapping the volume.
func (p *Planner) ReverseDirection() {
	p.state.Direction = p.state.Direction.Neg()
	slog.Debug("tracking direction reversed", "direction", p.state.Direction)
}

// Advance integrates the position over dt seconds. exited is true on the
// step where the target leaves the volume.
func (p *Planner) Advance(dt float64) (pos geom.Vec3, exited bool) {
	if !p.exists {
		return geom.Vec3{}, false
	}
	p.state.Position = p.state.Position.Add(p.state.Direction.Scale(p.state.Speed * dt))

	inside := p.vol.Contains(p.state.Position)
	exited = !inside && !p.outside
	p.outside = !inside
	return p.state.Position, exited
}

// Exists reports whether the tracking target has been created.
func (p *Planner) Exists() bool { return p.exists }

// State returns a snapshot of the tracking state.
func (p *Planner) State() State { return p.state }

// Reset forgets the tracking target.
func (p *Planner) Reset() {
	p.state = State{}
	p.exists = false
	p.outside = false
}
