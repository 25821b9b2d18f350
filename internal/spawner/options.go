package spawner

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Option customizes a Spawner.
type Option func(*Spawner)

// WithRand injects the random source. It overrides the configured seed.
func WithRand(rng *rand.Rand) Option {
	return func(s *Spawner) {
		s.rng = rng
	}
}

// WithObserver registers the scoring observer.
func WithObserver(o Observer) Option {
	return func(s *Spawner) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithHandles replaces the target handle generator (uuid.New by default).
func WithHandles(next func() uuid.UUID) Option {
	return func(s *Spawner) {
		if next != nil {
			s.newHandle = next
		}
	}
}
