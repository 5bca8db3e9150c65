package planner

import (
	"container/heap"
	"fmt"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/world"
)

// NoPathError reports an unreachable goal. On a fully connected grid it
// signals a misconfigured world, not a retryable condition.
type NoPathError struct {
	Start model.Cell
	Goal  model.Cell
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path from %s to %s", e.Start, e.Goal)
}

// Planner runs epsilon-admissible A* over a grid's 4-connected adjacency
// with unit step cost. It holds no search state between calls; replanning
// is the caller's concern.
type Planner struct {
	grid *world.Grid
}

func New(grid *world.Grid) *Planner {
	return &Planner{grid: grid}
}

// FindPath returns the cells from start to goal inclusive. The heuristic is
// Manhattan distance inflated by epsilon: admissible at epsilon = 1, and
// bounded-suboptimal within factor epsilon above that. Epsilon below 1 is
// clamped to 1. Ties on f prefer the smaller g, then insertion order, so a
// given query always yields the same path.
func (p *Planner) FindPath(start, goal model.Cell, epsilon float64) ([]model.Cell, error) {
	if err := p.grid.CheckCell(start); err != nil {
		return nil, err
	}
	if err := p.grid.CheckCell(goal); err != nil {
		return nil, err
	}
	if epsilon < 1 {
		epsilon = 1
	}
	if start == goal {
		return []model.Cell{start}, nil
	}

	frontier := &nodeHeap{}
	heap.Init(frontier)
	seq := 0
	heap.Push(frontier, &node{
		cell: start,
		g:    0,
		f:    epsilon * float64(p.grid.ManhattanDistance(start, goal)),
		seq:  seq,
	})

	cameFrom := make(map[model.Cell]model.Cell)
	bestG := map[model.Cell]int{start: 0}
	closed := make(map[model.Cell]bool)

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(*node)
		if closed[current.cell] {
			continue
		}
		if current.cell == goal {
			return reconstruct(cameFrom, start, goal), nil
		}
		closed[current.cell] = true

		neighbors, err := p.grid.Neighbors(current.cell)
		if err != nil {
			return nil, err
		}
		for _, next := range neighbors {
			if closed[next] {
				continue
			}
			g := current.g + 1
			if known, ok := bestG[next]; ok && g >= known {
				continue
			}
			bestG[next] = g
			cameFrom[next] = current.cell
			seq++
			heap.Push(frontier, &node{
				cell: next,
				g:    g,
				f:    float64(g) + epsilon*float64(p.grid.ManhattanDistance(next, goal)),
				seq:  seq,
			})
		}
	}

	return nil, &NoPathError{Start: start, Goal: goal}
}

func reconstruct(cameFrom map[model.Cell]model.Cell, start, goal model.Cell) []model.Cell {
	path := []model.Cell{goal}
	for at := goal; at != start; {
		at = cameFrom[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type node struct {
	cell model.Cell
	g    int
	f    float64
	seq  int
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g < h[j].g
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
