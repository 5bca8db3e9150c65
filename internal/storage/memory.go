package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunSummary
	episodes    map[string][]model.EpisodeResult
	aggregates  map[string][]model.StrategyAggregate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunSummary)
	s.episodes = make(map[string][]model.EpisodeResult)
	s.aggregates = make(map[string][]model.StrategyAggregate)
	return nil
}

// Reset drops every stored record, leaving an initialized empty store.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunSummary)
	s.episodes = make(map[string][]model.EpisodeResult)
	s.aggregates = make(map[string][]model.StrategyAggregate)
	return nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := summary
	copied.Strategies = append([]string(nil), summary.Strategies...)
	copied.Epsilons = append([]float64(nil), summary.Epsilons...)
	s.runs[summary.RunID] = copied
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, runID string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.runs[runID]
	if !ok {
		return model.RunSummary{}, false, nil
	}
	copied := summary
	copied.Strategies = append([]string(nil), summary.Strategies...)
	copied.Epsilons = append([]float64(nil), summary.Epsilons...)
	return copied, true, nil
}

// ListRunSummaries returns summaries newest first by creation timestamp.
func (s *MemoryStore) ListRunSummaries(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunSummary, 0, len(s.runs))
	for _, summary := range s.runs {
		copied := summary
		copied.Strategies = append([]string(nil), summary.Strategies...)
		copied.Epsilons = append([]float64(nil), summary.Epsilons...)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].RunID > out[j].RunID
		}
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	return out, nil
}

func (s *MemoryStore) SaveEpisodes(_ context.Context, runID string, episodes []model.EpisodeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.EpisodeResult, len(episodes))
	copy(copied, episodes)
	s.episodes[runID] = copied
	return nil
}

func (s *MemoryStore) GetEpisodes(_ context.Context, runID string) ([]model.EpisodeResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episodes, ok := s.episodes[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.EpisodeResult, len(episodes))
	copy(copied, episodes)
	return copied, true, nil
}

func (s *MemoryStore) SaveAggregates(_ context.Context, runID string, aggregates []model.StrategyAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.StrategyAggregate, len(aggregates))
	copy(copied, aggregates)
	s.aggregates[runID] = copied
	return nil
}

func (s *MemoryStore) GetAggregates(_ context.Context, runID string) ([]model.StrategyAggregate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aggregates, ok := s.aggregates[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.StrategyAggregate, len(aggregates))
	copy(copied, aggregates)
	return copied, true, nil
}
