package difficulty

import (
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/beatspawn/internal/geom"
)

// MaxFactor is the upper bound of the difficulty factor.
const MaxFactor = 100

// Config holds the scale generator parameters.
type Config struct {
	MinScale      float64
	MaxScale      float64
	DynamicSizing bool
	// Enabled is false when the spread policy is None: the factor never moves.
	Enabled bool
}

// Scaler tracks the dynamic difficulty factor (0–100).
// Consecutive hits raise it, misses and expirations lower it.
type Scaler struct {
	cfg    Config
	factor int
	rng    *rand.Rand
}

// NewScaler creates a scaler at factor 0.
func NewScaler(cfg Config, rng *rand.Rand) *Scaler {
	if cfg.MaxScale < cfg.MinScale {
		slog.Warn("target scale range inverted, swapping",
			"min", cfg.MinScale,
			"max", cfg.MaxScale)
		cfg.MinScale, cfg.MaxScale = cfg.MaxScale, cfg.MinScale
	}
	return &Scaler{cfg: cfg, rng: rng}
}

// Factor returns the current factor.
func (s *Scaler) Factor() int {
	return s.factor
}

// Reset returns the factor to 0.
func (s *Scaler) Reset() {
	s.factor = 0
}

// Record applies a resolution event. didExpire=false is a hit.
func (s *Scaler) Record(didExpire bool) {
	if !s.cfg.Enabled {
		return
	}
	old := s.factor
	if didExpire {
		s.factor = max(s.factor-missStep(s.factor), 0)
	} else {
		s.factor = min(s.factor+hitStep(s.factor), MaxFactor)
	}
	slog.Debug("difficulty factor changed",
		"from", old,
		"to", s.factor,
		"expired", didExpire)
}

// hitStep shrinks as the factor approaches 100.
func hitStep(f int) int {
	switch {
	case f < 40:
		return 5
	case f < 60:
		return 4
	case f < 80:
		return 3
	default:
		return 2
	}
}

// missStep shrinks as the factor approaches 0.
func missStep(f int) int {
	switch {
	case f > 80:
		return 20
	case f > 60:
		return 15
	case f > 40:
		return 10
	default:
		return 5
	}
}

// GenerateScale returns the scale of the next target.
// With dynamic sizing the scale shrinks from max to min as the factor grows;
// otherwise it is uniform in [min, max].
func (s *Scaler) GenerateScale() float64 {
	if !s.cfg.DynamicSizing {
		return s.cfg.MinScale + s.rng.Float64()*(s.cfg.MaxScale-s.cfg.MinScale)
	}
	if s.factor == 0 {
		return s.cfg.MaxScale
	}
	t := 1 - float64(s.factor)/MaxFactor
	return geom.Lerp(s.cfg.MinScale, s.cfg.MaxScale, t)
}

// MaxScale returns the upper scale bound.
func (s *Scaler) MaxScale() float64 { return s.cfg.MaxScale }
