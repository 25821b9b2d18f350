package sim

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/udisondev/beatspawn/internal/geom"
)

// Player decides whether and when targets are hit.
type Player struct {
	hitProbability float64
	reactionTime   float64
	rng            *rand.Rand
}

// NewPlayer creates a simulated player. hitProbability is clamped to [0,1].
func NewPlayer(hitProbability, reactionTime float64, rng *rand.Rand) *Player {
	return &Player{
		hitProbability: geom.Clamp(hitProbability, 0, 1),
		reactionTime:   max(reactionTime, 0),
		rng:            rng,
	}
}

// live is a target the player is engaging.
type live struct {
	handle    uuid.UUID
	position  geom.Vec3
	spawnedAt float64
	resolveAt float64
	hit       bool
	seq       int
}

// engage plans the fate of a target spawned at now with the given lifespan.
// A target is hit only if the reaction fits in its lifespan.
func (p *Player) engage(handle uuid.UUID, position geom.Vec3, now, lifespan float64) *live {
	l := &live{
		handle:    handle,
		position:  position,
		spawnedAt: now,
		resolveAt: now + lifespan,
	}
	if p.rng.Float64() < p.hitProbability && p.reactionTime < lifespan {
		// ±25% jitter around the mean reaction time
		reaction := p.reactionTime * (0.75 + 0.5*p.rng.Float64())
		l.resolveAt = now + min(reaction, lifespan)
		l.hit = true
	}
	return l
}

// rollTrackingHit decides whether one tracking sample is on target.
func (p *Player) rollTrackingHit() bool {
	return p.rng.Float64() < p.hitProbability
}
