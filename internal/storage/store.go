package storage

import (
	"context"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

// Resetter is implemented by stores that can drop every persisted run
// record. Callers discover it by type assertion; a store without it simply
// cannot be reset.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Store defines persistence operations for simulation run records.
type Store interface {
	Init(ctx context.Context) error
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, runID string) (model.RunSummary, bool, error)
	ListRunSummaries(ctx context.Context) ([]model.RunSummary, error)
	SaveEpisodes(ctx context.Context, runID string, episodes []model.EpisodeResult) error
	GetEpisodes(ctx context.Context, runID string) ([]model.EpisodeResult, bool, error)
	SaveAggregates(ctx context.Context, runID string, aggregates []model.StrategyAggregate) error
	GetAggregates(ctx context.Context, runID string) ([]model.StrategyAggregate, bool, error)
}
