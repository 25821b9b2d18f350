package beatgrid

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/udisondev/beatspawn/internal/geom"
)

// HistoryLen is how many recent activations are excluded from the next choice.
const HistoryLen = 2

// Policy selects the next cell.
type Policy uint8

const (
	// PolicyAdjacent activates a grid neighbour of the last cell.
	PolicyAdjacent Policy = iota
	// PolicyRandom activates any cell.
	PolicyRandom
)

func (p Policy) String() string {
	if p == PolicyRandom {
		return "random"
	}
	return "adjacent"
}

// State of the activation engine.
type State uint8

const (
	StateUninitialized State = iota
	StateIdle
	StateCellActive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateCellActive:
		return "cell_active"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Slot is one standing target of the lattice.
type Slot struct {
	Index    int
	Position geom.Vec3
	Scale    float64
}

// Layout describes the lattice to build.
type Layout struct {
	// Count is the requested number of targets; the lattice is floor(sqrt(Count)) square.
	Count      int
	SpacingY   float64
	SpacingZ   float64
	BaseRadius float64
	MaxScale   float64
	// Extents are the half extents the slot centers must fit in. A
	// non-positive axis is left unconstrained.
	Extents geom.Vec3
}

// ScaleSource generates the per-slot scale at build time.
type ScaleSource interface {
	GenerateScale() float64
}

// Engine is the BeatGrid activation state machine:
// Uninitialized → Idle ⇄ CellActive.
type Engine struct {
	policy    Policy
	state     State
	side      int
	slots     []Slot
	adjacency [][]int
	last      int
	history   []int
	active    map[int]struct{}
	rng       *rand.Rand
}

// NewEngine creates an uninitialized engine.
func NewEngine(policy Policy, rng *rand.Rand) *Engine {
	return &Engine{
		policy: policy,
		last:   -1,
		active: make(map[int]struct{}),
		rng:    rng,
	}
}

// Build lays out the lattice centered on origin, row-major from the top-left.
// Spacing includes the largest target diameter so slots never overlap.
func (e *Engine) Build(origin geom.Vec3, layout Layout, scales ScaleSource) {
	side := int(math.Sqrt(float64(max(layout.Count, 0))))
	if side < 1 {
		slog.Warn("beat grid size clamped to 1x1", "requested", layout.Count)
		side = 1
	}

	diameter := layout.MaxScale * 2 * layout.BaseRadius
	hSpacing := fitSpacing(layout.SpacingY+diameter, diameter, layout.Extents.Y, side)
	vSpacing := fitSpacing(layout.SpacingZ+diameter, diameter, layout.Extents.Z, side)
	startY := origin.Y - hSpacing*float64(side-1)/2
	startZ := origin.Z + vSpacing*float64(side-1)/2

	e.side = side
	e.slots = make([]Slot, 0, side*side)
	for row := range side {
		for col := range side {
			e.slots = append(e.slots, Slot{
				Index: row*side + col,
				Position: geom.Vec3{
					X: origin.X,
					Y: startY + float64(col)*hSpacing,
					Z: startZ - float64(row)*vSpacing,
				},
				Scale: scales.GenerateScale(),
			})
		}
	}
	e.adjacency = buildAdjacency(side)
	e.last = -1
	e.history = e.history[:0]
	clear(e.active)
	e.state = StateIdle

	slog.Info("beat grid built",
		"side", side,
		"targets", len(e.slots),
		"policy", e.policy)
}

// fitSpacing shrinks the slot pitch until side slots span at most 2*half,
// but never below one diameter.
func fitSpacing(pitch, diameter, half float64, side int) float64 {
	if side < 2 || half <= 0 {
		return pitch
	}
	limit := 2 * half / float64(side-1)
	if pitch <= limit {
		return pitch
	}
	if limit < diameter {
		slog.Warn("beat grid does not fit the spawn volume",
			"side", side,
			"halfExtent", half,
			"diameter", diameter)
		return diameter
	}
	return limit
}

// buildAdjacency precomputes the up-to-8 neighbours of every index.
func buildAdjacency(side int) [][]int {
	adj := make([][]int, side*side)
	for row := range side {
		for col := range side {
			var n []int
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					r, c := row+dr, col+dc
					if r < 0 || r >= side || c < 0 || c >= side {
						continue
					}
					n = append(n, r*side+c)
				}
			}
			adj[row*side+col] = n
		}
	}
	return adj
}

// ActivateNext chooses and activates the next slot. Returns false before Build.
func (e *Engine) ActivateNext() (Slot, bool) {
	if e.state == StateUninitialized {
		return Slot{}, false
	}

	var idx int
	switch {
	case e.last < 0:
		idx = e.rng.IntN(len(e.slots))
	case e.policy == PolicyRandom:
		idx = e.pickRandom()
	default:
		idx = e.pickAdjacent()
	}

	e.last = idx
	e.history = slices.Insert(e.history, 0, idx)
	if len(e.history) > HistoryLen {
		e.history = e.history[:HistoryLen]
	}
	e.active[idx] = struct{}{}
	e.state = StateCellActive

	slog.Debug("beat grid cell activated",
		"index", idx,
		"history", e.history)

	return e.slots[idx], true
}

func (e *Engine) pickRandom() int {
	all := make([]int, len(e.slots))
	for i := range all {
		all[i] = i
	}
	return e.choose(all)
}

func (e *Engine) pickAdjacent() int {
	return e.choose(e.adjacency[e.last])
}

// choose picks uniformly from candidates, dropping recent and live cells
// while that still leaves something to choose from.
func (e *Engine) choose(candidates []int) int {
	if len(candidates) == 0 {
		return max(e.last, 0)
	}

	fresh := slices.DeleteFunc(slices.Clone(candidates), func(i int) bool {
		return slices.Contains(e.history, i)
	})
	if len(fresh) == 0 {
		fresh = candidates
	}

	idle := slices.DeleteFunc(slices.Clone(fresh), func(i int) bool {
		_, live := e.active[i]
		return live
	})
	if len(idle) > 0 {
		fresh = idle
	}

	return fresh[e.rng.IntN(len(fresh))]
}

// Deactivate marks a slot as no longer live.
func (e *Engine) Deactivate(index int) {
	delete(e.active, index)
	if e.state == StateCellActive && len(e.active) == 0 {
		e.state = StateIdle
	}
}

// Neighbors returns the adjacency list of index.
func (e *Engine) Neighbors(index int) []int {
	if index < 0 || index >= len(e.adjacency) {
		return nil
	}
	return slices.Clone(e.adjacency[index])
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Side returns the lattice width (and height).
func (e *Engine) Side() int { return e.side }

// Last returns the most recently activated index, or -1.
func (e *Engine) Last() int { return e.last }

// History returns recent activations, most recent first.
func (e *Engine) History() []int { return slices.Clone(e.history) }

// Slots returns a copy of the lattice.
func (e *Engine) Slots() []Slot { return slices.Clone(e.slots) }

// Slot returns slot i.
func (e *Engine) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(e.slots) {
		return Slot{}, false
	}
	return e.slots[i], true
}

// IsActive reports whether slot i is live.
func (e *Engine) IsActive(i int) bool {
	_, ok := e.active[i]
	return ok
}
