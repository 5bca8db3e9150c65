package world

import (
	"errors"
	"testing"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

func mustGrid(t *testing.T, size int, charger model.Cell) *Grid {
	t.Helper()
	grid, err := NewGrid(size, charger)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return grid
}

func TestNewGridRejectsBadConfig(t *testing.T) {
	if _, err := NewGrid(0, model.Cell{}); err == nil {
		t.Fatal("expected error for zero size")
	}
	_, err := NewGrid(5, model.Cell{Row: 5, Col: 0})
	if err == nil {
		t.Fatal("expected error for out-of-bounds charger")
	}
	var invalid *InvalidCellError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCellError, got %v", err)
	}
}

func TestNeighbors(t *testing.T) {
	grid := mustGrid(t, 5, model.Cell{})

	cases := []struct {
		name string
		cell model.Cell
		want int
	}{
		{"corner", model.Cell{Row: 0, Col: 0}, 2},
		{"edge", model.Cell{Row: 0, Col: 2}, 3},
		{"center", model.Cell{Row: 2, Col: 2}, 4},
		{"opposite corner", model.Cell{Row: 4, Col: 4}, 2},
	}
	for _, tc := range cases {
		neighbors, err := grid.Neighbors(tc.cell)
		if err != nil {
			t.Fatalf("%s: neighbors: %v", tc.name, err)
		}
		if len(neighbors) != tc.want {
			t.Fatalf("%s: expected %d neighbors, got %d (%v)", tc.name, tc.want, len(neighbors), neighbors)
		}
		for _, n := range neighbors {
			if !grid.Contains(n) {
				t.Fatalf("%s: neighbor %s out of bounds", tc.name, n)
			}
			if grid.ManhattanDistance(tc.cell, n) != 1 {
				t.Fatalf("%s: neighbor %s not adjacent to %s", tc.name, n, tc.cell)
			}
		}
	}
}

func TestNeighborsOutOfBounds(t *testing.T) {
	grid := mustGrid(t, 5, model.Cell{})
	_, err := grid.Neighbors(model.Cell{Row: -1, Col: 0})
	var invalid *InvalidCellError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCellError, got %v", err)
	}
}

func TestManhattanDistance(t *testing.T) {
	grid := mustGrid(t, 5, model.Cell{})
	cases := []struct {
		a, b model.Cell
		want int
	}{
		{model.Cell{Row: 0, Col: 0}, model.Cell{Row: 0, Col: 0}, 0},
		{model.Cell{Row: 0, Col: 0}, model.Cell{Row: 4, Col: 4}, 8},
		{model.Cell{Row: 2, Col: 3}, model.Cell{Row: 3, Col: 1}, 3},
		{model.Cell{Row: 4, Col: 0}, model.Cell{Row: 0, Col: 4}, 8},
	}
	for _, tc := range cases {
		if got := grid.ManhattanDistance(tc.a, tc.b); got != tc.want {
			t.Fatalf("distance %s-%s: expected %d, got %d", tc.a, tc.b, tc.want, got)
		}
		if got := grid.ManhattanDistance(tc.b, tc.a); got != tc.want {
			t.Fatalf("distance %s-%s not symmetric", tc.b, tc.a)
		}
	}
}

func TestCellsRowMajor(t *testing.T) {
	grid := mustGrid(t, 3, model.Cell{})
	cells := grid.Cells()
	if len(cells) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(cells))
	}
	for i := 1; i < len(cells); i++ {
		if !cells[i-1].Less(cells[i]) {
			t.Fatalf("cells not row-major at %d: %s before %s", i, cells[i-1], cells[i])
		}
	}
}
