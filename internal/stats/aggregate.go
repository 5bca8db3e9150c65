// Package stats aggregates episode results and writes run artifacts.
package stats

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}

type variantKey struct {
	strategy model.StrategyKind
	epsilon  float64
}

// Aggregate groups episodes by (strategy, epsilon) and reduces each group
// to its summary row. Output order is deterministic: strategy name, then
// epsilon ascending.
func Aggregate(episodes []model.EpisodeResult) ([]model.StrategyAggregate, error) {
	groups := make(map[variantKey][]model.EpisodeResult)
	for _, ep := range episodes {
		key := variantKey{strategy: ep.Strategy, epsilon: ep.Epsilon}
		groups[key] = append(groups[key], ep)
	}

	keys := maps.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].strategy != keys[j].strategy {
			return keys[i].strategy < keys[j].strategy
		}
		return keys[i].epsilon < keys[j].epsilon
	})

	out := make([]model.StrategyAggregate, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		steps := make([]float64, 0, len(group))
		efficiency := make([]float64, 0, len(group))
		coverage := make([]float64, 0, len(group))
		successes := 0
		for _, ep := range group {
			steps = append(steps, float64(ep.Steps))
			efficiency = append(efficiency, ep.Efficiency())
			coverage = append(coverage, ep.CoveragePct)
			if ep.Success {
				successes++
			}
		}
		meanSteps, err := Avg(steps)
		if err != nil {
			return nil, err
		}
		stdSteps, err := Std(steps)
		if err != nil {
			return nil, err
		}
		meanEfficiency, err := Avg(efficiency)
		if err != nil {
			return nil, err
		}
		meanCoverage, err := Avg(coverage)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StrategyAggregate{
			Strategy:        key.strategy,
			Epsilon:         key.epsilon,
			Episodes:        len(group),
			MeanSteps:       meanSteps,
			StdSteps:        stdSteps,
			MeanEfficiency:  meanEfficiency,
			MeanCoveragePct: meanCoverage,
			SuccessRate:     float64(successes) / float64(len(group)),
		})
	}
	return out, nil
}
