package sim

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/spawner"
)

const defaultFrameStep = 1.0 / 60

// Result summarizes one simulated session.
type Result struct {
	Name        string
	Mode        config.Mode
	Fingerprint string
	Seed        uint64
	Duration    float64 // simulated seconds

	TargetsSpawned  int
	Hits            int
	Misses          int
	BestStreak      int
	FinalDifficulty int
	Accuracy        spawner.AccuracyMatrix

	StartedAt time.Time
	Elapsed   time.Duration
}

// HitRate returns hits over resolved targets, 0 when nothing resolved.
func (r Result) HitRate() float64 {
	if r.Hits+r.Misses == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Hits+r.Misses)
}

// counter observes the spawner.
type counter struct {
	spawned    int
	bestStreak int
}

func (c *counter) TargetSpawned() { c.spawned++ }

func (c *counter) StreakChanged(count int, _ geom.Vec3) {
	c.bestStreak = max(c.bestStreak, count)
}

// Run plays a session: ticks the spawner every spawn period, advances it
// frame by frame and resolves targets the way the simulated player decides.
func Run(ctx context.Context, s config.Session) (Result, error) {
	if s.Duration <= 0 {
		return Result{}, fmt.Errorf("session %q: duration must be positive, got %g", s.Name, s.Duration)
	}
	if s.Spawner.SpawnPeriod <= 0 {
		return Result{}, fmt.Errorf("session %q: spawn period must be positive, got %g", s.Name, s.Spawner.SpawnPeriod)
	}
	step := s.FrameStep
	if step <= 0 {
		step = defaultFrameStep
	}

	fingerprint, err := s.Spawner.Fingerprint()
	if err != nil {
		return Result{}, fmt.Errorf("session %q: %w", s.Name, err)
	}

	obs := &counter{}
	sp := spawner.New(s.Spawner, spawner.WithObserver(obs))
	seed := sp.Seed()
	player := NewPlayer(s.HitProbability, s.ReactionTime, rand.New(rand.NewPCG(seed, seed+1)))

	res := Result{
		Name:        s.Name,
		Mode:        s.Spawner.Mode,
		Fingerprint: fingerprint,
		Seed:        seed,
		Duration:    s.Duration,
		StartedAt:   time.Now(),
	}

	slog.Info("session started",
		"session", s.Name,
		"mode", s.Spawner.Mode,
		"duration", s.Duration,
		"seed", seed)

	r := &runner{
		sp:       sp,
		player:   player,
		lifespan: s.Spawner.TargetMaxLifespan,
		live:     make(map[uuid.UUID]*live),
		tracking: s.Spawner.Mode == config.ModeBeatTrack,
	}
	nextTick := 0.0
	nextSample := s.ReactionTime
	for now := 0.0; now < s.Duration; now += step {
		if now >= nextTick {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("session %q: %w", s.Name, err)
			}
			r.apply(sp.Tick(), now)
			nextTick += s.Spawner.SpawnPeriod
		}

		r.apply(sp.Advance(step), now)
		r.resolveDue(now, &res)

		if r.tracking && r.track != uuid.Nil && now >= nextSample {
			r.sampleTracking(now, &res)
			nextSample = now + max(s.ReactionTime, step)
		}
	}

	res.TargetsSpawned = obs.spawned
	res.BestStreak = obs.bestStreak
	res.FinalDifficulty = sp.DifficultyFactor()
	res.Accuracy = sp.LocationAccuracy()
	res.Elapsed = time.Since(res.StartedAt)

	slog.Info("session finished",
		"session", s.Name,
		"spawned", res.TargetsSpawned,
		"hits", res.Hits,
		"misses", res.Misses,
		"bestStreak", res.BestStreak,
		"difficulty", res.FinalDifficulty,
		"elapsed", res.Elapsed)

	return res, nil
}

// runner plays the target lifecycle actor for the spawner.
type runner struct {
	sp       *spawner.Spawner
	player   *Player
	lifespan float64
	live     map[uuid.UUID]*live
	seq      int
	tracking bool
	track    uuid.UUID
}

func (r *runner) apply(cmds []spawner.Command, now float64) {
	for _, c := range cmds {
		switch c.Kind {
		case spawner.CommandPlace, spawner.CommandActivate:
			lifespan := c.Lifespan
			if lifespan <= 0 {
				lifespan = r.lifespan
			}
			l := r.player.engage(c.Handle, c.Position, now, lifespan)
			r.seq++
			l.seq = r.seq
			r.live[c.Handle] = l
		case spawner.CommandSpawn:
			if r.tracking {
				r.track = c.Handle
			}
		case spawner.CommandMove:
			if l, ok := r.live[c.Handle]; ok {
				l.position = c.Position
			}
		}
	}
}

// resolveDue resolves targets in the order their fate was due.
func (r *runner) resolveDue(now float64, res *Result) {
	var due []*live
	for _, l := range r.live {
		if now >= l.resolveAt {
			due = append(due, l)
		}
	}
	slices.SortFunc(due, func(a, b *live) int {
		if c := cmp.Compare(a.resolveAt, b.resolveAt); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	for _, l := range due {
		h := l.handle
		delete(r.live, h)
		if l.hit {
			res.Hits++
		} else {
			res.Misses++
		}
		r.sp.OnTargetResolved(h, !l.hit, now-l.spawnedAt, l.position)
	}
}

// sampleTracking scores the tracking target: each sample is a hit or a miss.
func (r *runner) sampleTracking(now float64, res *Result) {
	hit := r.player.rollTrackingHit()
	if hit {
		res.Hits++
	} else {
		res.Misses++
	}
	var pos geom.Vec3
	for _, t := range r.sp.ActiveTargets() {
		if t.Handle == r.track {
			pos = t.Center
		}
	}
	r.sp.OnTargetResolved(r.track, !hit, now, pos)
}
