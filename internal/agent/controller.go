// Package agent holds the per-episode decision policies. The three
// strategies form a closed set behind one small interface; each variant
// keeps nothing mutable beyond its targeting cache.
package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/battery"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/planner"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/world"
)

type Action string

const (
	ActionMove   Action = "move"
	ActionCharge Action = "charge"
)

// Decision is one step's outcome: either move to an adjacent cell or
// charge in place at the charger.
type Decision struct {
	Action Action
	Next   model.Cell
}

// Controller picks the next action given the agent's position. The episode
// driver owns movement, draining, and dirt collection; controllers only
// decide.
type Controller interface {
	Strategy() model.StrategyKind
	Decide(pos model.Cell) (Decision, error)
}

// ErrNoTarget is returned when a cleaning strategy is asked to decide with
// no dirt left. The episode driver terminates before that point.
var ErrNoTarget = errors.New("no dirty cells to target")

// Deps are the per-episode collaborators a controller reads from. All are
// owned by the same episode; nothing is shared across episodes.
type Deps struct {
	Grid    *world.Grid
	Dirt    *world.DirtField
	Battery *battery.Battery
	Planner *planner.Planner
	Rand    *rand.Rand
	Epsilon float64
}

func New(kind model.StrategyKind, deps Deps) (Controller, error) {
	switch kind {
	case model.StrategyRandom:
		if deps.Grid == nil || deps.Rand == nil {
			return nil, errors.New("random strategy requires grid and rand")
		}
		return &randomController{grid: deps.Grid, rng: deps.Rand}, nil
	case model.StrategyAStarEpsilon:
		return newCleaner(deps)
	case model.StrategyBatteryAware:
		cleaner, err := newCleaner(deps)
		if err != nil {
			return nil, err
		}
		if deps.Battery == nil {
			return nil, errors.New("battery_aware strategy requires a battery")
		}
		return &batteryAwareController{
			cleaner: cleaner,
			grid:    deps.Grid,
			battery: deps.Battery,
			planner: deps.Planner,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %s", kind)
	}
}

// randomController walks to a uniformly random neighbor, blind to dirt and
// battery alike. It is the uninformed baseline.
type randomController struct {
	grid *world.Grid
	rng  *rand.Rand
}

func (c *randomController) Strategy() model.StrategyKind {
	return model.StrategyRandom
}

func (c *randomController) Decide(pos model.Cell) (Decision, error) {
	neighbors, err := c.grid.Neighbors(pos)
	if err != nil {
		return Decision{}, err
	}
	next := neighbors[c.rng.Intn(len(neighbors))]
	return Decision{Action: ActionMove, Next: next}, nil
}

// cleanerController targets the nearest remaining dirty cell by planned
// path length and advances one step per call along the cached path,
// replanning when the target is reached or was cleaned en route.
type cleanerController struct {
	grid    *world.Grid
	dirt    *world.DirtField
	planner *planner.Planner
	epsilon float64

	target model.Cell
	path   []model.Cell // cells still to visit, excluding the current one
}

func newCleaner(deps Deps) (*cleanerController, error) {
	if deps.Grid == nil || deps.Dirt == nil || deps.Planner == nil {
		return nil, errors.New("astar strategy requires grid, dirt, and planner")
	}
	epsilon := deps.Epsilon
	if epsilon < 1 {
		epsilon = 1
	}
	return &cleanerController{
		grid:    deps.Grid,
		dirt:    deps.Dirt,
		planner: deps.Planner,
		epsilon: epsilon,
	}, nil
}

func (c *cleanerController) Strategy() model.StrategyKind {
	return model.StrategyAStarEpsilon
}

func (c *cleanerController) Decide(pos model.Cell) (Decision, error) {
	if len(c.path) > 0 && c.dirt.DirtAt(c.target) == 0 {
		// Target cleaned in passing; the cached plan is stale.
		c.path = nil
	}
	if len(c.path) == 0 {
		if err := c.retarget(pos); err != nil {
			return Decision{}, err
		}
	}
	next := c.path[0]
	c.path = c.path[1:]
	return Decision{Action: ActionMove, Next: next}, nil
}

// Reset drops the cached plan, forcing a retarget on the next decision.
func (c *cleanerController) Reset() {
	c.path = nil
}

// retarget picks the nearest dirty cell by planned path length. Dirty cells
// are scanned in row-major order, so distance ties resolve to the smaller
// cell and the choice is deterministic.
func (c *cleanerController) retarget(pos model.Cell) error {
	var best []model.Cell
	var target model.Cell
	for _, cell := range c.dirt.DirtyCells() {
		path, err := c.planner.FindPath(pos, cell, c.epsilon)
		if err != nil {
			return err
		}
		if best == nil || len(path) < len(best) {
			best = path
			target = cell
		}
	}
	if best == nil {
		return ErrNoTarget
	}
	c.target = target
	c.path = best[1:]
	return nil
}

// batteryAwareController runs the cleaner's targeting until the battery
// turns Low or the remaining step budget barely covers the return cost.
// Then it latches onto the charger, travels there, charges, and resumes.
// The latch guarantees a started diversion is never abandoned.
type batteryAwareController struct {
	cleaner *cleanerController
	grid    *world.Grid
	battery *battery.Battery
	planner *planner.Planner

	returning  bool
	returnPath []model.Cell
}

func (c *batteryAwareController) Strategy() model.StrategyKind {
	return model.StrategyBatteryAware
}

func (c *batteryAwareController) Decide(pos model.Cell) (Decision, error) {
	if c.returning || c.mustReturn(pos) {
		return c.headHome(pos)
	}
	return c.cleaner.Decide(pos)
}

// mustReturn triggers the diversion. The Manhattan distance is the exact
// return cost on an obstacle-free grid. The margin is two steps, not one:
// a cleaning move can head away from the charger, shrinking the budget and
// growing the distance at once, so a one-step margin could first bind with
// the budget exactly equal to the return cost and the agent would arrive
// empty.
func (c *batteryAwareController) mustReturn(pos model.Cell) bool {
	if pos == c.grid.Charger() && c.battery.State() == battery.StateFull {
		return false
	}
	if c.battery.State() == battery.StateLow {
		return true
	}
	return c.battery.StepsRemaining() <= c.grid.ManhattanDistance(pos, c.grid.Charger())+2
}

func (c *batteryAwareController) headHome(pos model.Cell) (Decision, error) {
	if !c.returning {
		c.returning = true
		c.returnPath = nil
		c.cleaner.Reset()
	}
	if pos == c.grid.Charger() {
		// Charging restores to full; cleaning resumes immediately on the
		// next decision rather than waiting out any hysteresis band.
		c.returning = false
		c.returnPath = nil
		return Decision{Action: ActionCharge, Next: pos}, nil
	}
	if len(c.returnPath) == 0 {
		// Exact shortest return: the diversion margin assumes it.
		path, err := c.planner.FindPath(pos, c.grid.Charger(), 1)
		if err != nil {
			return Decision{}, err
		}
		c.returnPath = path[1:]
	}
	next := c.returnPath[0]
	c.returnPath = c.returnPath[1:]
	return Decision{Action: ActionMove, Next: next}, nil
}
