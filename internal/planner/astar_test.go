package planner

import (
	"errors"
	"testing"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/world"
)

func newPlanner(t *testing.T, size int) (*Planner, *world.Grid) {
	t.Helper()
	grid, err := world.NewGrid(size, model.Cell{})
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return New(grid), grid
}

func checkPath(t *testing.T, grid *world.Grid, path []model.Cell, start, goal model.Cell) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("empty path %s -> %s", start, goal)
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path endpoints wrong: %v for %s -> %s", path, start, goal)
	}
	for i := 1; i < len(path); i++ {
		if grid.ManhattanDistance(path[i-1], path[i]) != 1 {
			t.Fatalf("non-adjacent hop %s -> %s in %v", path[i-1], path[i], path)
		}
	}
}

// At epsilon = 1 the heuristic is admissible and every path must be exactly
// the Manhattan distance, for every pair of cells.
func TestFindPathOptimalAtEpsilonOne(t *testing.T) {
	p, grid := newPlanner(t, 5)
	cells := grid.Cells()
	for _, start := range cells {
		for _, goal := range cells {
			path, err := p.FindPath(start, goal, 1)
			if err != nil {
				t.Fatalf("find path %s -> %s: %v", start, goal, err)
			}
			checkPath(t, grid, path, start, goal)
			want := grid.ManhattanDistance(start, goal) + 1
			if len(path) != want {
				t.Fatalf("path %s -> %s: expected %d cells, got %d (%v)", start, goal, want, len(path), path)
			}
		}
	}
}

// Above 1 the solution is bounded-suboptimal within factor epsilon.
func TestFindPathBoundedSuboptimal(t *testing.T) {
	p, grid := newPlanner(t, 5)
	for _, epsilon := range []float64{1.5, 2, 3} {
		for _, pair := range []struct{ start, goal model.Cell }{
			{model.Cell{Row: 0, Col: 0}, model.Cell{Row: 4, Col: 4}},
			{model.Cell{Row: 4, Col: 0}, model.Cell{Row: 0, Col: 4}},
			{model.Cell{Row: 2, Col: 2}, model.Cell{Row: 0, Col: 3}},
		} {
			path, err := p.FindPath(pair.start, pair.goal, epsilon)
			if err != nil {
				t.Fatalf("find path: %v", err)
			}
			checkPath(t, grid, path, pair.start, pair.goal)
			optimal := grid.ManhattanDistance(pair.start, pair.goal)
			if float64(len(path)-1) > epsilon*float64(optimal) {
				t.Fatalf(
					"epsilon=%g %s -> %s: cost %d exceeds bound %g",
					epsilon, pair.start, pair.goal, len(path)-1, epsilon*float64(optimal),
				)
			}
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	p, _ := newPlanner(t, 5)
	start, goal := model.Cell{Row: 0, Col: 0}, model.Cell{Row: 3, Col: 4}
	first, err := p.FindPath(start, goal, 1)
	if err != nil {
		t.Fatalf("find path: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := p.FindPath(start, goal, 1)
		if err != nil {
			t.Fatalf("find path: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("path length changed between calls: %d vs %d", len(first), len(again))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("path diverged at %d: %s vs %s", j, first[j], again[j])
			}
		}
	}
}

func TestFindPathTrivialAndClamped(t *testing.T) {
	p, _ := newPlanner(t, 5)
	cell := model.Cell{Row: 2, Col: 2}
	path, err := p.FindPath(cell, cell, 1)
	if err != nil {
		t.Fatalf("find path: %v", err)
	}
	if len(path) != 1 || path[0] != cell {
		t.Fatalf("start == goal should yield the single cell, got %v", path)
	}

	// Epsilon below 1 clamps to admissible search.
	clamped, err := p.FindPath(model.Cell{}, model.Cell{Row: 0, Col: 3}, 0.25)
	if err != nil {
		t.Fatalf("find path: %v", err)
	}
	if len(clamped) != 4 {
		t.Fatalf("clamped search should stay optimal, got %v", clamped)
	}
}

func TestFindPathInvalidEndpoint(t *testing.T) {
	p, _ := newPlanner(t, 5)
	_, err := p.FindPath(model.Cell{}, model.Cell{Row: 7, Col: 0}, 1)
	var invalid *world.InvalidCellError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCellError, got %v", err)
	}
}

func TestNoPathErrorMessage(t *testing.T) {
	err := &NoPathError{Start: model.Cell{Row: 0, Col: 0}, Goal: model.Cell{Row: 4, Col: 4}}
	if err.Error() == "" {
		t.Fatal("expected a message")
	}
}
