package sim

import (
	"context"
	"sync"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/stats"
)

const (
	DefaultEpisodesPerStrategy = 5
	DefaultWorkers             = 1

	// Seed stride between variants; episode i of variant v runs with
	// base seed + v*variantSeedStride + i.
	variantSeedStride = 1000
)

// HarnessConfig describes one Monte-Carlo comparison: which strategy
// variants to run, how many independent episodes each, and the episode
// template they share.
type HarnessConfig struct {
	Episode             EpisodeConfig // template; Strategy/Epsilon/Seed are filled per episode
	Strategies          []model.StrategyKind
	Epsilons            []float64 // applied to planner-backed strategies only
	EpisodesPerStrategy int
	Seed                int64
	Workers             int
}

func (cfg HarnessConfig) withDefaults() HarnessConfig {
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = []model.StrategyKind{
			model.StrategyRandom,
			model.StrategyAStarEpsilon,
			model.StrategyBatteryAware,
		}
	}
	if len(cfg.Epsilons) == 0 {
		cfg.Epsilons = []float64{1}
	}
	if cfg.EpisodesPerStrategy <= 0 {
		cfg.EpisodesPerStrategy = DefaultEpisodesPerStrategy
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return cfg
}

// Result carries every episode outcome plus the per-variant aggregates,
// ordered deterministically.
type Result struct {
	Episodes   []model.EpisodeResult
	Aggregates []model.StrategyAggregate
}

// StrategyMap views the aggregates keyed by strategy. With an epsilon
// sweep a strategy has several rows; the map keeps the first (lowest
// epsilon) and the slice remains the complete record.
func (r Result) StrategyMap() map[model.StrategyKind]model.StrategyAggregate {
	out := make(map[model.StrategyKind]model.StrategyAggregate, len(r.Aggregates))
	for _, agg := range r.Aggregates {
		if _, ok := out[agg.Strategy]; !ok {
			out[agg.Strategy] = agg
		}
	}
	return out
}

type Harness struct{}

func NewHarness() *Harness {
	return &Harness{}
}

// Run executes EpisodesPerStrategy independent episodes per variant.
// Episodes share no mutable state, so the optional worker pool is a plain
// jobs/results fan-out with a single accumulation point; results are
// re-ordered by index afterwards, making worker count irrelevant to the
// outcome.
func (h *Harness) Run(ctx context.Context, cfg HarnessConfig) (Result, error) {
	cfg = cfg.withDefaults()

	type job struct {
		idx int
		cfg EpisodeConfig
	}

	jobs := make([]job, 0, len(cfg.Strategies)*cfg.EpisodesPerStrategy)
	variant := 0
	for _, strategy := range cfg.Strategies {
		epsilons := cfg.Epsilons
		if !strategy.UsesPlanner() {
			epsilons = []float64{1}
		}
		for _, epsilon := range epsilons {
			for i := 0; i < cfg.EpisodesPerStrategy; i++ {
				episode := cfg.Episode
				episode.Strategy = strategy
				episode.Epsilon = epsilon
				episode.Seed = cfg.Seed + int64(variant)*variantSeedStride + int64(i)
				jobs = append(jobs, job{idx: len(jobs), cfg: episode})
			}
			variant++
		}
	}

	type outcome struct {
		idx    int
		result model.EpisodeResult
		err    error
	}

	workerCount := cfg.Workers
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	jobCh := make(chan job)
	results := make(chan outcome, len(jobs))

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if err := ctx.Err(); err != nil {
					results <- outcome{idx: j.idx, err: err}
					continue
				}
				result, _, err := RunEpisode(ctx, j.cfg)
				results <- outcome{idx: j.idx, result: result, err: err}
			}
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()
	close(results)

	episodes := make([]model.EpisodeResult, len(jobs))
	for out := range results {
		if out.err != nil {
			return Result{}, out.err
		}
		episodes[out.idx] = out.result
	}

	aggregates, err := stats.Aggregate(episodes)
	if err != nil {
		return Result{}, err
	}
	return Result{Episodes: episodes, Aggregates: aggregates}, nil
}
