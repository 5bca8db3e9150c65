package world

import (
	"fmt"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

// InvalidCellError reports a coordinate outside the grid bounds. It marks a
// programming or configuration error, never a retryable condition.
type InvalidCellError struct {
	Cell model.Cell
	Size int
}

func (e *InvalidCellError) Error() string {
	return fmt.Sprintf("cell %s outside %dx%d grid", e.Cell, e.Size, e.Size)
}

// Grid is a fully connected square grid with a designated charger cell.
// It is immutable after construction; mutable per-episode state lives in
// DirtField and the battery.
type Grid struct {
	size    int
	charger model.Cell
}

func NewGrid(size int, charger model.Cell) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("grid size must be > 0, got %d", size)
	}
	g := &Grid{size: size, charger: charger}
	if !g.Contains(charger) {
		return nil, &InvalidCellError{Cell: charger, Size: size}
	}
	return g, nil
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) Charger() model.Cell {
	return g.charger
}

func (g *Grid) Contains(c model.Cell) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// CheckCell returns an *InvalidCellError when c lies outside the grid.
func (g *Grid) CheckCell(c model.Cell) error {
	if !g.Contains(c) {
		return &InvalidCellError{Cell: c, Size: g.size}
	}
	return nil
}

// Fixed N/E/S/W expansion order keeps neighbor iteration, and everything
// seeded on top of it, deterministic.
var neighborOffsets = [4]model.Cell{
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
}

// Neighbors returns the 4-connected in-bounds neighbors of c.
func (g *Grid) Neighbors(c model.Cell) ([]model.Cell, error) {
	if err := g.CheckCell(c); err != nil {
		return nil, err
	}
	out := make([]model.Cell, 0, 4)
	for _, d := range neighborOffsets {
		n := model.Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// ManhattanDistance is the exact shortest path length between two cells on
// an obstacle-free grid, and the planner's admissible heuristic.
func (g *Grid) ManhattanDistance(a, b model.Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Cells returns every grid cell in row-major order.
func (g *Grid) Cells() []model.Cell {
	out := make([]model.Cell, 0, g.size*g.size)
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			out = append(out, model.Cell{Row: row, Col: col})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
