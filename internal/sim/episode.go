// Package sim drives episodes and the Monte-Carlo comparison harness.
package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/agent"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/battery"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/planner"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/world"
)

const (
	DefaultGridSize  = 5
	DefaultDirtCells = 10
	DefaultMaxSteps  = 200
)

// EpisodeConfig fully determines one episode. Identical configs produce
// identical episodes: all randomness flows from Seed.
type EpisodeConfig struct {
	Strategy model.StrategyKind
	GridSize int
	Charger  model.Cell // default is the (0,0) corner

	// Dirt placement, first non-zero wins: explicit layout, scatter count,
	// per-cell density.
	DirtLayout  []model.Cell
	DirtCells   int
	DirtDensity float64

	BatteryCapacity float64
	DrainPerStep    float64
	LowThreshold    float64

	Epsilon  float64
	MaxSteps int
	Seed     int64
}

func (cfg EpisodeConfig) withDefaults() EpisodeConfig {
	if cfg.GridSize <= 0 {
		cfg.GridSize = DefaultGridSize
	}
	if len(cfg.DirtLayout) == 0 && cfg.DirtCells <= 0 && cfg.DirtDensity <= 0 {
		cfg.DirtCells = DefaultDirtCells
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Epsilon < 1 {
		cfg.Epsilon = 1
	}
	return cfg
}

// Trace is the per-step decision record of one episode.
type Trace []model.StepRecord

// RunEpisode builds a fresh world, battery, and controller from the config
// and drives the step loop to termination. The first condition reached
// wins: fully clean is success, depletion and the step cap are failures.
func RunEpisode(ctx context.Context, cfg EpisodeConfig) (model.EpisodeResult, Trace, error) {
	cfg = cfg.withDefaults()

	grid, err := world.NewGrid(cfg.GridSize, cfg.Charger)
	if err != nil {
		return model.EpisodeResult{}, nil, err
	}
	dirt := world.NewDirtField(grid)
	switch {
	case len(cfg.DirtLayout) > 0:
		for _, c := range cfg.DirtLayout {
			if err := dirt.Set(c, 1); err != nil {
				return model.EpisodeResult{}, nil, err
			}
		}
	case cfg.DirtCells > 0:
		dirt.Scatter(rand.New(rand.NewSource(cfg.Seed)), cfg.DirtCells)
	default:
		dirt.ScatterDensity(rand.New(rand.NewSource(cfg.Seed)), cfg.DirtDensity)
	}

	bat, err := battery.New(battery.Config{
		Capacity:     cfg.BatteryCapacity,
		DrainPerStep: cfg.DrainPerStep,
		LowThreshold: cfg.LowThreshold,
	})
	if err != nil {
		return model.EpisodeResult{}, nil, err
	}

	ctrl, err := agent.New(cfg.Strategy, agent.Deps{
		Grid:    grid,
		Dirt:    dirt,
		Battery: bat,
		Planner: planner.New(grid),
		Rand:    rand.New(rand.NewSource(cfg.Seed + 1000)),
		Epsilon: cfg.Epsilon,
	})
	if err != nil {
		return model.EpisodeResult{}, nil, err
	}

	pos := grid.Charger()
	steps := 0
	collected := 0
	trace := make(Trace, 0, cfg.MaxSteps)
	termination := ""
	success := false

	for {
		if err := ctx.Err(); err != nil {
			return model.EpisodeResult{}, nil, err
		}
		if dirt.IsFullyClean() {
			termination = model.TerminationClean
			success = true
			break
		}
		if steps >= cfg.MaxSteps {
			termination = model.TerminationTimeout
			break
		}

		decision, err := ctrl.Decide(pos)
		if err != nil {
			return model.EpisodeResult{}, nil, fmt.Errorf("step %d: %w", steps, err)
		}

		if decision.Action == agent.ActionCharge {
			if decision.Next != grid.Charger() {
				return model.EpisodeResult{}, nil, fmt.Errorf("step %d: charge away from charger at %s", steps, decision.Next)
			}
			bat.Charge()
			steps++
			trace = append(trace, model.StepRecord{Step: steps, Cell: pos, Battery: bat.Percent(), Action: string(agent.ActionCharge)})
			continue
		}

		if grid.ManhattanDistance(pos, decision.Next) != 1 {
			return model.EpisodeResult{}, nil, fmt.Errorf("step %d: non-adjacent move %s -> %s", steps, pos, decision.Next)
		}
		pos = decision.Next
		bat.Drain()
		collected += dirt.Collect(pos)
		steps++
		trace = append(trace, model.StepRecord{Step: steps, Cell: pos, Battery: bat.Percent(), Action: string(agent.ActionMove)})

		if bat.Depleted() {
			if dirt.IsFullyClean() {
				termination = model.TerminationClean
				success = true
			} else {
				termination = model.TerminationDepleted
			}
			break
		}
	}

	result := model.EpisodeResult{
		Strategy:         cfg.Strategy,
		Epsilon:          cfg.Epsilon,
		Seed:             cfg.Seed,
		Steps:            steps,
		DirtCollected:    collected,
		InitialDirt:      dirt.InitialDirty(),
		CoveragePct:      dirt.CoveragePct(),
		BatteryConsumed:  bat.TotalConsumed(),
		BatteryRemaining: bat.Percent(),
		ChargeCycles:     bat.ChargeCycles(),
		Success:          success,
		Termination:      termination,
	}
	return result, trace, nil
}
