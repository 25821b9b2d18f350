package placement

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/occupancy"
	"github.com/udisondev/beatspawn/internal/volume"
)

// MaxAttempts is the retry budget of the random search.
const MaxAttempts = 50

// centerEpsilon decides whether the previous target sat on the volume center.
const centerEpsilon = 1e-6

// ScaleSource generates target scales.
type ScaleSource interface {
	GenerateScale() float64
}

// Request describes one placement.
type Request struct {
	Policy       volume.SpreadPolicy
	LastLocation geom.Vec3
	LastScale    float64
	// HasLast is false before the first placement of a session.
	HasLast bool
	// SingleBeat enables the center/non-center alternation rule.
	SingleBeat bool
}

// Result is the outcome of a placement. Skip means no valid location was
// found within the budget and no target must be materialized this tick.
type Result struct {
	Location geom.Vec3
	Scale    float64
	Skip     bool
	Attempts int
}

// Solver picks a center and scale honoring the volume, spread policy and
// recent occupancy. Every Solve updates the occupancy ring exactly once.
type Solver struct {
	vol      *volume.Volume
	occ      *occupancy.Tracker
	scales   ScaleSource
	strategy Strategy
	rng      *rand.Rand
}

// NewSolver creates a solver.
func NewSolver(vol *volume.Volume, occ *occupancy.Tracker, scales ScaleSource, strategy Strategy, rng *rand.Rand) *Solver {
	return &Solver{
		vol:      vol,
		occ:      occ,
		scales:   scales,
		strategy: strategy,
		rng:      rng,
	}
}

// Strategy returns the configured search strategy.
func (s *Solver) Strategy() Strategy { return s.strategy }

// Solve produces the next placement.
func (s *Solver) Solve(req Request) Result {
	scale := s.scales.GenerateScale()
	origin := s.vol.Origin()

	if req.SingleBeat && !s.lastWasCenter(req) {
		s.occ.RecordPlacement(origin, scale)
		return Result{Location: origin, Scale: scale, Attempts: 1}
	}

	if s.strategy == StrategyGridScan {
		return s.solveGridScan(req, scale)
	}
	return s.solveRetry(req, scale)
}

func (s *Solver) lastWasCenter(req Request) bool {
	return req.HasLast && req.LastLocation.ApproxEqual(s.vol.Origin(), centerEpsilon)
}

func (s *Solver) solveRetry(req Request, scale float64) Result {
	radius := s.occ.CollisionRadius(scale)

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		candidate := s.Candidate(req.Policy)
		if s.occ.IntersectsAny(candidate, radius) {
			continue
		}
		s.occ.RecordPlacement(candidate, scale)
		return Result{Location: candidate, Scale: scale, Attempts: attempt}
	}

	s.occ.RecordSkip()
	slog.Debug("placement budget exhausted, skipping spawn",
		"policy", req.Policy,
		"scale", scale,
		"attempts", MaxAttempts)
	return Result{Scale: scale, Skip: true, Attempts: MaxAttempts}
}

// solveGridScan samples free regions of the occupancy grid. Candidates still
// have to clear the recent-sphere ring, same as the random search.
func (s *Solver) solveGridScan(req Request, scale float64) Result {
	bounds := s.vol.Bounds()
	if !req.Policy.IsDynamic() {
		bounds = s.vol.StaticBounds()
	}
	radius := s.occ.CollisionRadius(scale)
	origin := s.vol.Origin()

	cells := s.occ.FreeRegions(bounds, req.Policy == volume.SpreadDynamicEdgeOnly)
	if len(cells) == 0 {
		s.occ.RecordSkip()
		slog.Debug("no free region, skipping spawn", "policy", req.Policy)
		return Result{Scale: scale, Skip: true, Attempts: 1}
	}

	attempt := 0
	if oc, ok := s.occ.Grid().CellAt(origin); ok && slices.Contains(cells, oc) {
		attempt++
		if !s.occ.IntersectsAny(origin, radius) {
			s.occ.RecordPlacement(origin, scale)
			return Result{Location: origin, Scale: scale, Attempts: attempt}
		}
	}

	for attempt < MaxAttempts {
		attempt++
		cell := cells[s.rng.IntN(len(cells))]
		p := s.occ.Grid().RandomPoint(cell, bounds, s.rng)
		p.X = origin.X
		if s.occ.IntersectsAny(p, radius) {
			continue
		}
		s.occ.RecordPlacement(p, scale)
		return Result{Location: p, Scale: scale, Attempts: attempt}
	}

	s.occ.RecordSkip()
	slog.Debug("free regions all near recent targets, skipping spawn",
		"policy", req.Policy,
		"regions", len(cells),
		"attempts", attempt)
	return Result{Scale: scale, Skip: true, Attempts: attempt}
}

// Candidate generates one random center according to the spread policy.
func (s *Solver) Candidate(policy volume.SpreadPolicy) geom.Vec3 {
	origin := s.vol.Origin()

	switch policy {
	case volume.SpreadDynamicRandom:
		return s.uniform(origin, s.vol.CurrentExtents())
	case volume.SpreadDynamicEdgeOnly:
		return s.edge(origin, s.vol.CurrentExtents())
	default:
		return s.uniform(origin, s.vol.StaticExtents())
	}
}

func (s *Solver) uniform(origin, ext geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: origin.X,
		Y: origin.Y + s.symmetric(ext.Y),
		Z: origin.Z + s.symmetric(ext.Z),
	}
}

// edge picks one of the four edges uniformly, then a uniform point along it.
func (s *Solver) edge(origin, ext geom.Vec3) geom.Vec3 {
	p := geom.Vec3{X: origin.X}
	switch s.rng.IntN(4) {
	case 0: // top
		p.Y, p.Z = origin.Y+s.symmetric(ext.Y), origin.Z+ext.Z
	case 1: // bottom
		p.Y, p.Z = origin.Y+s.symmetric(ext.Y), origin.Z-ext.Z
	case 2: // left
		p.Y, p.Z = origin.Y-ext.Y, origin.Z+s.symmetric(ext.Z)
	default: // right
		p.Y, p.Z = origin.Y+ext.Y, origin.Z+s.symmetric(ext.Z)
	}
	return p
}

// symmetric returns a uniform value in [-half, half].
func (s *Solver) symmetric(half float64) float64 {
	return -half + 2*half*s.rng.Float64()
}
