package spawner

import (
	"github.com/google/uuid"

	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/occupancy"
)

// ActiveTarget is a live target owned by the spawner.
type ActiveTarget struct {
	Handle uuid.UUID
	Scale  float64
	Center geom.Vec3
	// Cells are the occupancy cells held until the target resolves.
	Cells occupancy.CellSet
	// Slot is the lattice index in BeatGrid mode, -1 otherwise.
	Slot int

	spawnCell occupancy.Cell
}

// activeSet keeps live targets in spawn order.
type activeSet struct {
	byHandle map[uuid.UUID]*ActiveTarget
	order    []uuid.UUID
}

func newActiveSet() *activeSet {
	return &activeSet{byHandle: make(map[uuid.UUID]*ActiveTarget)}
}

func (a *activeSet) add(t *ActiveTarget) {
	if _, ok := a.byHandle[t.Handle]; !ok {
		a.order = append(a.order, t.Handle)
	}
	a.byHandle[t.Handle] = t
}

func (a *activeSet) get(h uuid.UUID) (*ActiveTarget, bool) {
	t, ok := a.byHandle[h]
	return t, ok
}

func (a *activeSet) remove(h uuid.UUID) {
	if _, ok := a.byHandle[h]; !ok {
		return
	}
	delete(a.byHandle, h)
	for i, o := range a.order {
		if o == h {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

func (a *activeSet) len() int {
	return len(a.order)
}

// each visits targets in spawn order.
func (a *activeSet) each(fn func(*ActiveTarget)) {
	for _, h := range a.order {
		fn(a.byHandle[h])
	}
}

func (a *activeSet) snapshot() []ActiveTarget {
	out := make([]ActiveTarget, 0, len(a.order))
	a.each(func(t *ActiveTarget) {
		cp := *t
		cp.Cells = append(occupancy.CellSet(nil), t.Cells...)
		out = append(out, cp)
	})
	return out
}
