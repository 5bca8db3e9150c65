// Package robotsim is the embeddable client for the vacuum-robot strategy
// simulator: it orchestrates Monte-Carlo comparison runs, persists their
// results, and answers queries about past runs.
package robotsim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/sim"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/stats"
	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "robotsim.db"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store       storage.Store
	initialized bool

	benchmarksDir string
	exportsDir    string
}

// CompareRequest configures one Monte-Carlo comparison run. Zero values
// take defaults; Strategies defaults to all three variants.
type CompareRequest struct {
	GridSize            int
	Charger             model.Cell
	DirtCells           int
	DirtDensity         float64
	BatteryCapacity     float64
	DrainPerStep        float64
	LowThreshold        float64
	MaxSteps            int
	EpisodesPerStrategy int
	Strategies          []string
	Epsilons            []float64
	Seed                int64
	Workers             int
}

type CompareSummary struct {
	RunID        string
	ArtifactsDir string
	Episodes     []model.EpisodeResult
	Aggregates   []model.StrategyAggregate
}

// StrategyMap views the aggregates keyed by strategy kind, first (lowest
// epsilon) row per strategy when an epsilon sweep produced several.
func (s CompareSummary) StrategyMap() map[model.StrategyKind]model.StrategyAggregate {
	out := make(map[model.StrategyKind]model.StrategyAggregate, len(s.Aggregates))
	for _, agg := range s.Aggregates {
		if _, ok := out[agg.Strategy]; !ok {
			out[agg.Strategy] = agg
		}
	}
	return out
}

// EpisodeRequest runs one episode of one strategy, returning its trace.
type EpisodeRequest struct {
	Strategy        string
	GridSize        int
	Charger         model.Cell
	DirtCells       int
	DirtDensity     float64
	BatteryCapacity float64
	DrainPerStep    float64
	LowThreshold    float64
	MaxSteps        int
	Epsilon         float64
	Seed            int64
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID               string
	CreatedAtUTC        string
	GridSize            int
	DirtCells           int
	EpisodesPerStrategy int
	Seed                int64
	BestSuccessRate     float64
}

type EpisodesRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type AggregatesRequest struct {
	RunID  string
	Latest bool
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

// Reset drops every run record from the store. Artifacts on disk are left
// untouched; they remain reachable through the run index.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.ensureStore(ctx); err != nil {
		return err
	}
	resetter, ok := c.store.(storage.Resetter)
	if !ok {
		return fmt.Errorf("store backend does not support reset")
	}
	return resetter.Reset(ctx)
}

// Compare runs the Monte-Carlo harness for the requested strategy variants,
// writes the run's artifacts, indexes it, and persists it in the store.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (CompareSummary, error) {
	if req.GridSize <= 0 {
		req.GridSize = sim.DefaultGridSize
	}
	if req.DirtCells <= 0 && req.DirtDensity <= 0 {
		req.DirtCells = sim.DefaultDirtCells
	}
	if req.MaxSteps <= 0 {
		req.MaxSteps = sim.DefaultMaxSteps
	}
	if req.EpisodesPerStrategy <= 0 {
		req.EpisodesPerStrategy = sim.DefaultEpisodesPerStrategy
	}
	if len(req.Epsilons) == 0 {
		req.Epsilons = []float64{1}
	}
	for _, epsilon := range req.Epsilons {
		if epsilon < 1 {
			return CompareSummary{}, fmt.Errorf("epsilon must be >= 1, got %g", epsilon)
		}
	}
	if req.Workers <= 0 {
		req.Workers = 1
	}

	strategies, err := parseStrategies(req.Strategies)
	if err != nil {
		return CompareSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return CompareSummary{}, err
	}

	harness := sim.NewHarness()
	result, err := harness.Run(ctx, sim.HarnessConfig{
		Episode: sim.EpisodeConfig{
			GridSize:        req.GridSize,
			Charger:         req.Charger,
			DirtCells:       req.DirtCells,
			DirtDensity:     req.DirtDensity,
			BatteryCapacity: req.BatteryCapacity,
			DrainPerStep:    req.DrainPerStep,
			LowThreshold:    req.LowThreshold,
			MaxSteps:        req.MaxSteps,
		},
		Strategies:          strategies,
		Epsilons:            req.Epsilons,
		EpisodesPerStrategy: req.EpisodesPerStrategy,
		Seed:                req.Seed,
		Workers:             req.Workers,
	})
	if err != nil {
		return CompareSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("compare-%d-%s", req.Seed, uuid.NewString()[:8])

	strategyNames := make([]string, 0, len(strategies))
	for _, s := range strategies {
		strategyNames = append(strategyNames, string(s))
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:               runID,
			GridSize:            req.GridSize,
			ChargerRow:          req.Charger.Row,
			ChargerCol:          req.Charger.Col,
			DirtCells:           req.DirtCells,
			DirtDensity:         req.DirtDensity,
			BatteryCapacity:     req.BatteryCapacity,
			DrainPerStep:        req.DrainPerStep,
			LowThreshold:        req.LowThreshold,
			MaxSteps:            req.MaxSteps,
			EpisodesPerStrategy: req.EpisodesPerStrategy,
			Strategies:          strategyNames,
			Epsilons:            req.Epsilons,
			Seed:                req.Seed,
			Workers:             req.Workers,
		},
		Episodes:   result.Episodes,
		Aggregates: result.Aggregates,
	})
	if err != nil {
		return CompareSummary{}, err
	}

	bestSuccess := 0.0
	for _, agg := range result.Aggregates {
		if agg.SuccessRate > bestSuccess {
			bestSuccess = agg.SuccessRate
		}
	}
	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:               runID,
		GridSize:            req.GridSize,
		DirtCells:           req.DirtCells,
		EpisodesPerStrategy: req.EpisodesPerStrategy,
		Seed:                req.Seed,
		Workers:             req.Workers,
		BestSuccessRate:     bestSuccess,
		CreatedAtUTC:        now.Format(time.RFC3339Nano),
	}); err != nil {
		return CompareSummary{}, err
	}

	summary := model.RunSummary{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:               runID,
		CreatedAtUTC:        now.Format(time.RFC3339Nano),
		GridSize:            req.GridSize,
		DirtCells:           req.DirtCells,
		EpisodesPerStrategy: req.EpisodesPerStrategy,
		Seed:                req.Seed,
		Strategies:          strategyNames,
		Epsilons:            req.Epsilons,
	}
	if err := c.store.SaveRunSummary(ctx, summary); err != nil {
		return CompareSummary{}, err
	}
	if err := c.store.SaveEpisodes(ctx, runID, result.Episodes); err != nil {
		return CompareSummary{}, err
	}
	if err := c.store.SaveAggregates(ctx, runID, result.Aggregates); err != nil {
		return CompareSummary{}, err
	}

	return CompareSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Episodes:     result.Episodes,
		Aggregates:   result.Aggregates,
	}, nil
}

// Episode runs a single episode and returns its result and step trace.
// Nothing is persisted; this is the verbose inspection path.
func (c *Client) Episode(ctx context.Context, req EpisodeRequest) (model.EpisodeResult, sim.Trace, error) {
	if req.Strategy == "" {
		req.Strategy = string(model.StrategyAStarEpsilon)
	}
	strategy, err := model.ParseStrategyKind(req.Strategy)
	if err != nil {
		return model.EpisodeResult{}, nil, err
	}
	return sim.RunEpisode(ctx, sim.EpisodeConfig{
		Strategy:        strategy,
		GridSize:        req.GridSize,
		Charger:         req.Charger,
		DirtCells:       req.DirtCells,
		DirtDensity:     req.DirtDensity,
		BatteryCapacity: req.BatteryCapacity,
		DrainPerStep:    req.DrainPerStep,
		LowThreshold:    req.LowThreshold,
		MaxSteps:        req.MaxSteps,
		Epsilon:         req.Epsilon,
		Seed:            req.Seed,
	})
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:               e.RunID,
			CreatedAtUTC:        e.CreatedAtUTC,
			GridSize:            e.GridSize,
			DirtCells:           e.DirtCells,
			EpisodesPerStrategy: e.EpisodesPerStrategy,
			Seed:                e.Seed,
			BestSuccessRate:     e.BestSuccessRate,
		})
	}
	return out, nil
}

func (c *Client) Episodes(ctx context.Context, req EpisodesRequest) ([]model.EpisodeResult, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	episodes, ok, err := c.store.GetEpisodes(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("episodes not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(episodes) > req.Limit {
		episodes = episodes[:req.Limit]
	}
	return episodes, nil
}

func (c *Client) Aggregates(ctx context.Context, req AggregatesRequest) ([]model.StrategyAggregate, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	aggregates, ok, err := c.store.GetAggregates(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("aggregates not found for run id: %s", runID)
	}
	return aggregates, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func parseStrategies(names []string) ([]model.StrategyKind, error) {
	if len(names) == 0 {
		return []model.StrategyKind{
			model.StrategyRandom,
			model.StrategyAStarEpsilon,
			model.StrategyBatteryAware,
		}, nil
	}
	out := make([]model.StrategyKind, 0, len(names))
	for _, name := range names {
		kind, err := model.ParseStrategyKind(name)
		if err != nil {
			return nil, err
		}
		out = append(out, kind)
	}
	return out, nil
}
