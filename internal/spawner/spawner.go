package spawner

import (
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/udisondev/beatspawn/internal/beatgrid"
	"github.com/udisondev/beatspawn/internal/beattrack"
	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/difficulty"
	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/occupancy"
	"github.com/udisondev/beatspawn/internal/placement"
	"github.com/udisondev/beatspawn/internal/volume"
)

// World placement of the spawn area (game units).
const (
	// SpawnDepth is the X coordinate of the spawn plane.
	SpawnDepth = 3700.0
	// DistanceFromFloor is the gap between the floor and a floor-relative box.
	DistanceFromFloor = 110.0
	// HeadshotHeight is the Z coordinate of headshot-height targets.
	HeadshotHeight = 160.0
	// WallCenterHeight is the Z coordinate of a wall-centered box.
	WallCenterHeight = 750.0
)

// Spawner owns the whole placement state of one session and turns ticks and
// resolution events into target commands. It is not safe for concurrent use.
type Spawner struct {
	cfg  config.Spawner
	seed uint64

	rng       *rand.Rand
	observer  Observer
	newHandle func() uuid.UUID

	scaler  *difficulty.Scaler
	vol     *volume.Volume
	occ     *occupancy.Tracker
	solver  *placement.Solver
	grid    *beatgrid.Engine
	planner *beattrack.Planner

	targets     *activeSet
	counter     *spawnCounter
	slotHandles []uuid.UUID
	trackHandle uuid.UUID

	enabled      bool
	gridSpawned  bool
	streak       int
	hasLast      bool
	lastLocation geom.Vec3
	lastScale    float64
}

// New creates a spawner and initializes it with cfg.
func New(cfg config.Spawner, opts ...Option) *Spawner {
	s := &Spawner{
		observer:  nopObserver{},
		newHandle: uuid.New,
		seed:      cfg.Seed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		if s.seed == 0 {
			s.seed = rand.Uint64()
		}
		s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	} else {
		s.seed = 0
	}

	s.Initialize(cfg)
	return s
}

// Initialize (re)builds every component from cfg. Live targets are dropped.
func (s *Spawner) Initialize(cfg config.Spawner) {
	s.cfg = cfg

	s.scaler = difficulty.NewScaler(difficulty.Config{
		MinScale:      cfg.MinTargetScale,
		MaxScale:      cfg.MaxTargetScale,
		DynamicSizing: cfg.UseDynamicSizing,
		Enabled:       cfg.SpreadPolicy != volume.SpreadNone,
	}, s.rng)

	origin, half := spawnBox(cfg)
	s.vol = volume.New(s.scaler)
	s.vol.Configure(origin, half, cfg.SpreadPolicy)

	capacity := occupancy.RingCapacity(cfg.TargetMaxLifespan, cfg.SpawnPeriod)
	s.occ = occupancy.NewTracker(capacity, s.vol.StaticBounds(), s.vol.Origin().X,
		occupancy.DefaultBaseRadius, cfg.MinSeparation)
	s.solver = placement.NewSolver(s.vol, s.occ, s.scaler, cfg.PlacementStrategy, s.rng)
	s.counter = newSpawnCounter(s.occ.Grid())

	s.targets = newActiveSet()
	s.grid = nil
	s.planner = nil
	s.slotHandles = nil
	s.trackHandle = uuid.Nil
	s.gridSpawned = false
	s.streak = 0
	s.hasLast = false
	s.lastLocation = geom.Vec3{}
	s.lastScale = 0
	s.enabled = true

	switch cfg.Mode {
	case config.ModeBeatGrid:
		policy := beatgrid.PolicyAdjacent
		if cfg.RandomizeBeatGrid {
			policy = beatgrid.PolicyRandom
		}
		s.grid = beatgrid.NewEngine(policy, s.rng)
		s.grid.Build(s.vol.Origin(), beatgrid.Layout{
			Count:      cfg.BeatGridSize,
			SpacingY:   cfg.BeatGridSpacing.Horizontal,
			SpacingZ:   cfg.BeatGridSpacing.Vertical,
			BaseRadius: s.occ.BaseRadius(),
			MaxScale:   s.scaler.MaxScale(),
			Extents:    s.vol.StaticExtents(),
		}, s.scaler)
		s.slotHandles = make([]uuid.UUID, len(s.grid.Slots()))
		for i := range s.slotHandles {
			s.slotHandles[i] = s.newHandle()
		}
	case config.ModeBeatTrack:
		s.planner = beattrack.NewPlanner(s.vol, s.scaler, beattrack.Config{
			MinSpeed:    cfg.MinTrackingSpeed,
			MaxSpeed:    cfg.MaxTrackingSpeed,
			SpawnPeriod: cfg.SpawnPeriod,
		}, s.rng)
	}

	slog.Info("spawner initialized",
		"mode", cfg.Mode,
		"policy", cfg.SpreadPolicy,
		"strategy", cfg.PlacementStrategy,
		"origin", s.vol.Origin(),
		"extents", s.vol.StaticExtents(),
		"ringCapacity", capacity,
		"seed", s.seed)
}

// spawnBox derives the volume origin and half extents from the full box size
// and the vertical placement rule.
func spawnBox(cfg config.Spawner) (origin, half geom.Vec3) {
	half = geom.Vec3{Y: cfg.BoxWidth / 2, Z: cfg.BoxHeight / 2}
	origin = geom.Vec3{X: SpawnDepth}

	switch cfg.VerticalPlacement {
	case config.VerticalHeadshot:
		origin.Z = HeadshotHeight
		half.Z = 0
	case config.VerticalWallCentered:
		origin.Z = WallCenterHeight
	default:
		origin.Z = half.Z + DistanceFromFloor
	}

	// The tracking target roams toward the player as well.
	if cfg.Mode == config.ModeBeatTrack && cfg.MoveForwardDistance > 0 {
		half.X = cfg.MoveForwardDistance / 2
		origin.X -= cfg.MoveForwardDistance / 2
	}
	return origin, half
}

// SetSpawningEnabled pauses or resumes Tick. No state is lost while paused.
func (s *Spawner) SetSpawningEnabled(enabled bool) {
	s.enabled = enabled
}

// SpawningEnabled reports whether Tick does any work.
func (s *Spawner) SpawningEnabled() bool { return s.enabled }

// Tick runs once per spawn period and returns the commands for this beat.
func (s *Spawner) Tick() []Command {
	if !s.enabled {
		return nil
	}

	switch s.cfg.Mode {
	case config.ModeBeatGrid:
		return s.tickGrid()
	case config.ModeBeatTrack:
		return s.tickTrack()
	case config.ModeSingleBeat:
		// the next target appears once the live one is resolved
		if s.targets.len() > 0 {
			return nil
		}
		return s.tickPlacement(true)
	default:
		return s.tickPlacement(false)
	}
}

func (s *Spawner) tickPlacement(singleBeat bool) []Command {
	res := s.solver.Solve(placement.Request{
		Policy:       s.cfg.SpreadPolicy,
		LastLocation: s.lastLocation,
		LastScale:    s.lastScale,
		HasLast:      s.hasLast,
		SingleBeat:   singleBeat,
	})
	if res.Skip {
		return nil
	}

	t := &ActiveTarget{
		Handle:    s.newHandle(),
		Scale:     res.Scale,
		Center:    res.Location,
		Cells:     s.occ.MarkOccupiedCells(res.Location, res.Scale),
		Slot:      -1,
		spawnCell: s.occ.Grid().NearestCell(res.Location),
	}
	s.targets.add(t)
	s.hasLast = true
	s.lastLocation = res.Location
	s.lastScale = res.Scale
	s.spawned(t)

	slog.Debug("target placed",
		"handle", t.Handle,
		"location", t.Center,
		"scale", t.Scale,
		"attempts", res.Attempts)

	return []Command{{
		Kind:     CommandPlace,
		Handle:   t.Handle,
		Position: t.Center,
		Scale:    t.Scale,
		Lifespan: s.cfg.TargetMaxLifespan,
	}}
}

func (s *Spawner) tickGrid() []Command {
	var cmds []Command
	if !s.gridSpawned {
		for _, slot := range s.grid.Slots() {
			cmds = append(cmds, Command{
				Kind:     CommandSpawn,
				Handle:   s.slotHandles[slot.Index],
				Position: slot.Position,
				Scale:    slot.Scale,
			})
		}
		s.gridSpawned = true
	}

	slot, ok := s.grid.ActivateNext()
	if !ok {
		return cmds
	}
	t := &ActiveTarget{
		Handle:    s.slotHandles[slot.Index],
		Scale:     slot.Scale,
		Center:    slot.Position,
		Slot:      slot.Index,
		spawnCell: s.occ.Grid().NearestCell(slot.Position),
	}
	s.targets.add(t)
	s.spawned(t)

	slog.Debug("grid target activated", "slot", slot.Index, "history", s.grid.History())

	return append(cmds, Command{
		Kind:     CommandActivate,
		Handle:   t.Handle,
		Position: t.Center,
		Scale:    t.Scale,
		Lifespan: s.cfg.TargetMaxLifespan,
	})
}

func (s *Spawner) tickTrack() []Command {
	leg := s.planner.ComputeNextLeg()
	if leg.Created {
		s.trackHandle = s.newHandle()
		t := &ActiveTarget{
			Handle:    s.trackHandle,
			Scale:     leg.Scale,
			Center:    leg.From,
			Slot:      -1,
			spawnCell: s.occ.Grid().NearestCell(leg.From),
		}
		s.targets.add(t)
		s.spawned(t)
		return []Command{{
			Kind:      CommandSpawn,
			Handle:    s.trackHandle,
			Position:  leg.From,
			Scale:     leg.Scale,
			Lifespan:  s.cfg.TargetMaxLifespan,
			Direction: leg.Direction,
			Speed:     leg.Speed,
		}}
	}

	if t, ok := s.targets.get(s.trackHandle); ok {
		t.Scale = leg.Scale
	}
	return []Command{{
		Kind:      CommandRedirect,
		Handle:    s.trackHandle,
		Position:  leg.From,
		Scale:     leg.Scale,
		Direction: leg.Direction,
		Speed:     leg.Speed,
	}}
}

func (s *Spawner) spawned(t *ActiveTarget) {
	s.counter.spawned(t.spawnCell)
	s.observer.TargetSpawned()
}

// OnTargetResolved processes a hit (didExpire=false) or an expiry of a live
// target. Unknown handles are ignored.
func (s *Spawner) OnTargetResolved(handle uuid.UUID, didExpire bool, aliveTime float64, location geom.Vec3) {
	t, ok := s.targets.get(handle)
	if !ok {
		slog.Debug("resolution for unknown target ignored", "handle", handle)
		return
	}

	switch {
	case s.grid != nil:
		s.grid.Deactivate(t.Slot)
		s.targets.remove(handle)
	case s.planner != nil:
		// the tracking target lives for the whole session
	default:
		s.occ.FreeCells(t.Cells)
		s.targets.remove(handle)
	}

	s.scaler.Record(didExpire)
	if !didExpire {
		s.counter.hit(t.spawnCell)
	}

	prev := s.streak
	if didExpire {
		s.streak = 0
	} else {
		s.streak++
	}
	if s.streak != prev {
		s.observer.StreakChanged(s.streak, location)
	}

	slog.Debug("target resolved",
		"handle", handle,
		"expired", didExpire,
		"aliveTime", aliveTime,
		"streak", s.streak,
		"factor", s.scaler.Factor())
}

// OnVolumeBoundaryExit reverses the tracking target. No-op outside BeatTrack.
func (s *Spawner) OnVolumeBoundaryExit() {
	if s.planner == nil {
		return
	}
	s.planner.ReverseDirection()
}

// Advance moves live targets by dt seconds: placed targets drift toward the
// player when move-forward is enabled, the tracking target follows its leg
// and turns around when it leaves the volume.
func (s *Spawner) Advance(dt float64) []Command {
	if dt <= 0 {
		return nil
	}

	if s.planner != nil {
		return s.advanceTrack(dt)
	}

	if !s.cfg.MoveTargetsForward || s.cfg.MoveForwardDistance <= 0 || s.cfg.TargetMaxLifespan <= 0 || s.grid != nil {
		return nil
	}

	step := s.cfg.MoveForwardDistance * dt / s.cfg.TargetMaxLifespan
	var cmds []Command
	s.targets.each(func(t *ActiveTarget) {
		t.Center.X -= step
		cmds = append(cmds, Command{Kind: CommandMove, Handle: t.Handle, Position: t.Center, Scale: t.Scale})
	})
	return cmds
}

func (s *Spawner) advanceTrack(dt float64) []Command {
	t, ok := s.targets.get(s.trackHandle)
	if !ok {
		return nil
	}

	pos, exited := s.planner.Advance(dt)
	t.Center = pos
	cmds := []Command{{Kind: CommandMove, Handle: t.Handle, Position: pos, Scale: t.Scale}}
	if exited {
		s.planner.ReverseDirection()
		st := s.planner.State()
		cmds = append(cmds, Command{
			Kind:      CommandRedirect,
			Handle:    t.Handle,
			Position:  pos,
			Scale:     st.Scale,
			Direction: st.Direction,
			Speed:     st.Speed,
		})
	}
	return cmds
}

// ActiveTargets returns a snapshot of the live targets in spawn order.
func (s *Spawner) ActiveTargets() []ActiveTarget {
	return s.targets.snapshot()
}

// Streak returns the current consecutive-hit count.
func (s *Spawner) Streak() int { return s.streak }

// DifficultyFactor returns the current difficulty factor (0–100).
func (s *Spawner) DifficultyFactor() int { return s.scaler.Factor() }

// LocationAccuracy aggregates spawns and hits over the spawn area.
func (s *Spawner) LocationAccuracy() AccuracyMatrix { return s.counter.matrix() }

// Config returns the configuration the spawner was initialized with.
func (s *Spawner) Config() config.Spawner { return s.cfg }

// Seed returns the seed of the random source, 0 when one was injected.
func (s *Spawner) Seed() uint64 { return s.seed }

// Volume exposes the spawn volume (read-only use).
func (s *Spawner) Volume() *volume.Volume { return s.vol }

// Occupancy exposes the occupancy tracker (read-only use).
func (s *Spawner) Occupancy() *occupancy.Tracker { return s.occ }

// Grid exposes the BeatGrid engine, nil outside BeatGrid mode.
func (s *Spawner) Grid() *beatgrid.Engine { return s.grid }

// Planner exposes the tracking planner, nil outside BeatTrack mode.
func (s *Spawner) Planner() *beattrack.Planner { return s.planner }
