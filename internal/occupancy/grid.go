package occupancy

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/udisondev/beatspawn/internal/geom"
)

// preferredIncrements are tried in order when choosing the grid cell size.
var preferredIncrements = []int{100, 95, 90, 85, 80, 75, 70, 65, 60, 55, 50, 45, 40, 30, 25, 20, 15, 10, 5}

// FallbackIncrement is used when no preferred increment divides the extent evenly.
const FallbackIncrement = 50

// Cell addresses one grid cell relative to the negative corner of the static extents.
type Cell struct {
	Col int // Y axis
	Row int // Z axis
}

// CellSet is the list of cells a target occupies.
type CellSet []Cell

// CellState is the occupancy state of one cell.
type CellState uint8

const (
	CellFree CellState = iota
	CellBlocked
	CellOutOfBounds
)

func (s CellState) String() string {
	switch s {
	case CellFree:
		return "free"
	case CellBlocked:
		return "blocked"
	case CellOutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// Grid is the discretized 2D occupancy map of the spawn plane.
// Sized to the static (maximum) extents; cells are reference counted so that
// overlapping targets release them independently.
type Grid struct {
	minY, minZ float64
	incY, incZ float64
	cols, rows int
	depth      float64
	refs       []int
}

// NewGrid creates a grid covering bounds. depth is the X coordinate of the plane.
func NewGrid(bounds geom.Rect, depth float64) *Grid {
	incY := float64(CellIncrement(bounds.Width() / 2))
	incZ := float64(CellIncrement(bounds.Height() / 2))

	cols := max(int(math.Ceil(bounds.Width()/incY)), 1)
	rows := max(int(math.Ceil(bounds.Height()/incZ)), 1)

	slog.Debug("occupancy grid created",
		"cols", cols,
		"rows", rows,
		"incY", incY,
		"incZ", incZ)

	return &Grid{
		minY:  bounds.MinY,
		minZ:  bounds.MinZ,
		incY:  incY,
		incZ:  incZ,
		cols:  cols,
		rows:  rows,
		depth: depth,
		refs:  make([]int, cols*rows),
	}
}

// CellIncrement picks the cell size for a half extent: the first preferred
// increment d with half%d == 0 and (half/d)%5 == 0.
func CellIncrement(half float64) int {
	h := int(math.Round(half))
	if h <= 0 {
		return FallbackIncrement
	}
	for _, d := range preferredIncrements {
		if h%d == 0 && (h/d)%5 == 0 {
			return d
		}
	}
	return FallbackIncrement
}

// Size returns the number of columns and rows.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// Increments returns the cell size along Y and Z.
func (g *Grid) Increments() (incY, incZ float64) {
	return g.incY, g.incZ
}

// MinOverlapRadius keeps small targets from slipping between cell anchors.
func (g *Grid) MinOverlapRadius() float64 {
	return (g.incY + g.incZ) / 2
}

func (g *Grid) valid(c Cell) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

func (g *Grid) index(c Cell) int {
	return c.Row*g.cols + c.Col
}

// Anchor returns the world point at the negative corner of the cell.
func (g *Grid) Anchor(c Cell) geom.Vec3 {
	return geom.Vec3{
		X: g.depth,
		Y: g.minY + float64(c.Col)*g.incY,
		Z: g.minZ + float64(c.Row)*g.incZ,
	}
}

// CellAt returns the cell containing p.
func (g *Grid) CellAt(p geom.Vec3) (Cell, bool) {
	c := Cell{
		Col: int(math.Floor((p.Y - g.minY) / g.incY)),
		Row: int(math.Floor((p.Z - g.minZ) / g.incZ)),
	}
	return c, g.valid(c)
}

// NearestCell returns the cell containing p, clamped to the grid.
func (g *Grid) NearestCell(p geom.Vec3) Cell {
	c, _ := g.CellAt(p)
	c.Col = min(max(c.Col, 0), g.cols-1)
	c.Row = min(max(c.Row, 0), g.rows-1)
	return c
}

// inBounds reports whether the anchor of c lies in [min, max) of bounds.
// An axis narrower than one cell (a headshot row has zero height) keeps the
// single cell that covers it.
func (g *Grid) inBounds(c Cell, bounds geom.Rect) bool {
	a := g.Anchor(c)
	return axisInBounds(a.Y, g.incY, bounds.MinY, bounds.MaxY) &&
		axisInBounds(a.Z, g.incZ, bounds.MinZ, bounds.MaxZ)
}

func axisInBounds(anchor, inc, lo, hi float64) bool {
	if anchor >= lo && anchor < hi {
		return true
	}
	return anchor <= lo && hi < anchor+inc
}

// State returns the state of c relative to the current bounds.
func (g *Grid) State(c Cell, bounds geom.Rect) CellState {
	if !g.valid(c) || !g.inBounds(c, bounds) {
		return CellOutOfBounds
	}
	if g.refs[g.index(c)] > 0 {
		return CellBlocked
	}
	return CellFree
}

// Blocked reports whether any live target holds c.
func (g *Grid) Blocked(c Cell) bool {
	return g.valid(c) && g.refs[g.index(c)] > 0
}

// Mark blocks every cell whose anchor lies inside s.
func (g *Grid) Mark(s geom.Sphere) CellSet {
	var set CellSet
	for row := range g.rows {
		for col := range g.cols {
			c := Cell{Col: col, Row: row}
			a := g.Anchor(c)
			a.X = s.Center.X
			if s.Contains(a) {
				g.refs[g.index(c)]++
				set = append(set, c)
			}
		}
	}
	return set
}

// Release frees the cells of a set previously returned by Mark.
func (g *Grid) Release(set CellSet) {
	for _, c := range set {
		if !g.valid(c) {
			continue
		}
		i := g.index(c)
		if g.refs[i] > 0 {
			g.refs[i]--
		}
	}
}

// BlockedCount returns the number of blocked cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, r := range g.refs {
		if r > 0 {
			n++
		}
	}
	return n
}

// FreeRegions returns the cells inside bounds where a target fits: the cell
// and its right and top neighbours (when inside bounds) are all free.
// With edgeOnly only the perimeter of bounds is considered.
func (g *Grid) FreeRegions(bounds geom.Rect, edgeOnly bool) []Cell {
	minCol, maxCol := g.cols, -1
	minRow, maxRow := g.rows, -1
	for row := range g.rows {
		for col := range g.cols {
			c := Cell{Col: col, Row: row}
			if !g.inBounds(c, bounds) {
				continue
			}
			minCol, maxCol = min(minCol, col), max(maxCol, col)
			minRow, maxRow = min(minRow, row), max(maxRow, row)
		}
	}
	if maxCol < 0 {
		return nil
	}

	fits := func(c Cell) bool {
		if g.Blocked(c) {
			return false
		}
		for _, n := range []Cell{{Col: c.Col + 1, Row: c.Row}, {Col: c.Col, Row: c.Row + 1}} {
			if g.valid(n) && g.inBounds(n, bounds) && g.Blocked(n) {
				return false
			}
		}
		return true
	}

	var out []Cell
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			c := Cell{Col: col, Row: row}
			if !g.inBounds(c, bounds) {
				continue
			}
			if edgeOnly && col != minCol && col != maxCol && row != minRow && row != maxRow {
				continue
			}
			if fits(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// RandomPoint returns a uniform point inside c, clipped to bounds.
func (g *Grid) RandomPoint(c Cell, bounds geom.Rect, rng *rand.Rand) geom.Vec3 {
	a := g.Anchor(c)
	a.Y = geom.Clamp(a.Y+rng.Float64()*g.incY, bounds.MinY, bounds.MaxY)
	a.Z = geom.Clamp(a.Z+rng.Float64()*g.incZ, bounds.MinZ, bounds.MaxZ)
	return a
}

// Contains reports whether set holds c.
func (s CellSet) Contains(c Cell) bool {
	return slices.Contains(s, c)
}
