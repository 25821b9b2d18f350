package spawner

import "github.com/udisondev/beatspawn/internal/occupancy"

// AccuracySize is the side of the aggregated location accuracy matrix.
const AccuracySize = 5

// AccuracyCell holds the counters of one region of the spawn area.
type AccuracyCell struct {
	Spawns int
	Hits   int
}

// Accuracy returns hits/spawns, or -1 when nothing spawned there.
func (c AccuracyCell) Accuracy() float64 {
	if c.Spawns == 0 {
		return -1
	}
	return float64(c.Hits) / float64(c.Spawns)
}

// AccuracyMatrix aggregates per-cell counters into a 5x5 view of the spawn
// area. Row 0 is the top row, column 0 the leftmost.
type AccuracyMatrix [AccuracySize][AccuracySize]AccuracyCell

// Totals sums every region.
func (m AccuracyMatrix) Totals() AccuracyCell {
	var t AccuracyCell
	for _, row := range m {
		for _, c := range row {
			t.Spawns += c.Spawns
			t.Hits += c.Hits
		}
	}
	return t
}

// spawnCounter counts spawns and hits per occupancy grid cell.
type spawnCounter struct {
	cols, rows int
	cells      []AccuracyCell
}

func newSpawnCounter(g *occupancy.Grid) *spawnCounter {
	cols, rows := g.Size()
	return &spawnCounter{
		cols:  cols,
		rows:  rows,
		cells: make([]AccuracyCell, cols*rows),
	}
}

func (s *spawnCounter) at(c occupancy.Cell) *AccuracyCell {
	return &s.cells[c.Row*s.cols+c.Col]
}

func (s *spawnCounter) spawned(c occupancy.Cell) {
	s.at(c).Spawns++
}

func (s *spawnCounter) hit(c occupancy.Cell) {
	s.at(c).Hits++
}

// matrix folds grid cells into AccuracySize bins along each axis.
func (s *spawnCounter) matrix() AccuracyMatrix {
	var m AccuracyMatrix
	for row := range s.rows {
		// grid rows grow upward, matrix rows downward
		bin := AccuracySize - 1 - row*AccuracySize/s.rows
		for col := range s.cols {
			c := s.cells[row*s.cols+col]
			m[bin][col*AccuracySize/s.cols].Spawns += c.Spawns
			m[bin][col*AccuracySize/s.cols].Hits += c.Hits
		}
	}
	return m
}
