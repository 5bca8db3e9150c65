package sim

import (
	"context"
	"testing"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

func TestHarnessVariantSeedsAndOrdering(t *testing.T) {
	result, err := NewHarness().Run(context.Background(), HarnessConfig{
		Episode:             EpisodeConfig{BatteryCapacity: 1000, DrainPerStep: 5},
		Strategies:          []model.StrategyKind{model.StrategyRandom, model.StrategyAStarEpsilon},
		Epsilons:            []float64{1, 2},
		EpisodesPerStrategy: 2,
		Seed:                100,
	})
	if err != nil {
		t.Fatalf("run harness: %v", err)
	}

	// random ignores the sweep and runs one variant; astar runs one variant
	// per epsilon. Seeds advance by the variant stride.
	want := []struct {
		strategy model.StrategyKind
		epsilon  float64
		seed     int64
	}{
		{model.StrategyRandom, 1, 100},
		{model.StrategyRandom, 1, 101},
		{model.StrategyAStarEpsilon, 1, 1100},
		{model.StrategyAStarEpsilon, 1, 1101},
		{model.StrategyAStarEpsilon, 2, 2100},
		{model.StrategyAStarEpsilon, 2, 2101},
	}
	if len(result.Episodes) != len(want) {
		t.Fatalf("expected %d episodes, got %d", len(want), len(result.Episodes))
	}
	for i, w := range want {
		ep := result.Episodes[i]
		if ep.Strategy != w.strategy || ep.Epsilon != w.epsilon || ep.Seed != w.seed {
			t.Fatalf("episode %d: expected %s/eps=%g/seed=%d, got %s/eps=%g/seed=%d",
				i, w.strategy, w.epsilon, w.seed, ep.Strategy, ep.Epsilon, ep.Seed)
		}
	}
	if len(result.Aggregates) != 3 {
		t.Fatalf("expected 3 aggregate rows, got %d", len(result.Aggregates))
	}
}

func TestHarnessDeterministicAcrossWorkers(t *testing.T) {
	cfg := HarnessConfig{
		Episode:             EpisodeConfig{BatteryCapacity: 1000, DrainPerStep: 5},
		EpisodesPerStrategy: 3,
		Seed:                42,
	}

	serial, err := NewHarness().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	cfg.Workers = 4
	parallel, err := NewHarness().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	if len(serial.Episodes) != len(parallel.Episodes) {
		t.Fatalf("episode counts differ: %d vs %d", len(serial.Episodes), len(parallel.Episodes))
	}
	for i := range serial.Episodes {
		if serial.Episodes[i] != parallel.Episodes[i] {
			t.Fatalf("episode %d differs across worker counts:\n  serial:   %+v\n  parallel: %+v",
				i, serial.Episodes[i], parallel.Episodes[i])
		}
	}
}

func TestHarnessAStarOutperformsRandom(t *testing.T) {
	result, err := NewHarness().Run(context.Background(), HarnessConfig{
		Episode: EpisodeConfig{BatteryCapacity: 1000, DrainPerStep: 5},
		Strategies: []model.StrategyKind{
			model.StrategyRandom,
			model.StrategyAStarEpsilon,
		},
		EpisodesPerStrategy: 5,
		Seed:                7,
	})
	if err != nil {
		t.Fatalf("run harness: %v", err)
	}

	byStrategy := result.StrategyMap()
	random, astar := byStrategy[model.StrategyRandom], byStrategy[model.StrategyAStarEpsilon]
	if astar.SuccessRate != 1 {
		t.Fatalf("astar with ample battery should always finish, got rate %g", astar.SuccessRate)
	}
	if astar.MeanSteps >= random.MeanSteps {
		t.Fatalf("astar should clean in fewer steps: astar %g vs random %g", astar.MeanSteps, random.MeanSteps)
	}
	if astar.MeanEfficiency <= random.MeanEfficiency {
		t.Fatalf("astar should collect more per step: astar %g vs random %g", astar.MeanEfficiency, random.MeanEfficiency)
	}
}

// On the default world the battery-aware agent always reaches the nearest
// dirt before its return budget binds, so every excursion makes progress
// and every episode terminates clean well inside the step cap.
func TestHarnessBatteryAwareAlwaysSucceeds(t *testing.T) {
	result, err := NewHarness().Run(context.Background(), HarnessConfig{
		Episode:             EpisodeConfig{MaxSteps: 400},
		Strategies:          []model.StrategyKind{model.StrategyBatteryAware},
		EpisodesPerStrategy: 5,
		Seed:                42,
	})
	if err != nil {
		t.Fatalf("run harness: %v", err)
	}

	for _, ep := range result.Episodes {
		if !ep.Success || ep.Termination != model.TerminationClean {
			t.Fatalf("expected every episode clean, got %+v", ep)
		}
	}
	agg := result.Aggregates[0]
	if agg.SuccessRate != 1 || agg.MeanCoveragePct != 100 {
		t.Fatalf("expected perfect success and coverage, got %+v", agg)
	}
}

func TestHarnessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHarness().Run(ctx, HarnessConfig{Seed: 1}); err == nil {
		t.Fatal("expected context error")
	}
}
