package model

import "fmt"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Cell is an immutable grid coordinate. Zero value is the top-left corner.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Less orders cells row-major. Used for deterministic tie-breaking wherever
// two cells are otherwise equally good.
func (c Cell) Less(other Cell) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

type StrategyKind string

const (
	StrategyRandom       StrategyKind = "random"
	StrategyAStarEpsilon StrategyKind = "astar"
	StrategyBatteryAware StrategyKind = "battery_aware"
)

// UsesPlanner reports whether the strategy consults the pathfinder, and
// therefore whether the epsilon parameter has any effect on it.
func (s StrategyKind) UsesPlanner() bool {
	return s == StrategyAStarEpsilon || s == StrategyBatteryAware
}

func ParseStrategyKind(name string) (StrategyKind, error) {
	switch StrategyKind(name) {
	case StrategyRandom, StrategyAStarEpsilon, StrategyBatteryAware:
		return StrategyKind(name), nil
	default:
		return "", fmt.Errorf("unsupported strategy: %s", name)
	}
}

// Termination reasons recorded on EpisodeResult.
const (
	TerminationClean    = "clean"
	TerminationDepleted = "depleted"
	TerminationTimeout  = "timeout"
)

// EpisodeResult is the immutable outcome of one simulated episode. It is the
// only artifact that outlives the episode's world/battery/agent instances.
type EpisodeResult struct {
	Strategy         StrategyKind `json:"strategy"`
	Epsilon          float64      `json:"epsilon"`
	Seed             int64        `json:"seed"`
	Steps            int          `json:"steps"`
	DirtCollected    int          `json:"dirt_collected"`
	InitialDirt      int          `json:"initial_dirt"`
	CoveragePct      float64      `json:"coverage_pct"`
	BatteryConsumed  float64      `json:"battery_consumed"`
	BatteryRemaining float64      `json:"battery_remaining"`
	ChargeCycles     int          `json:"charge_cycles"`
	Success          bool         `json:"success"`
	Termination      string       `json:"termination"`
}

// Efficiency is dirt collected per step taken, zero for a zero-step episode.
func (r EpisodeResult) Efficiency() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.DirtCollected) / float64(r.Steps)
}

// StrategyAggregate summarizes all episodes of one (strategy, epsilon)
// variant of a comparison run.
type StrategyAggregate struct {
	Strategy        StrategyKind `json:"strategy"`
	Epsilon         float64      `json:"epsilon"`
	Episodes        int          `json:"episodes"`
	MeanSteps       float64      `json:"mean_steps"`
	StdSteps        float64      `json:"std_steps"`
	MeanEfficiency  float64      `json:"mean_efficiency"`
	MeanCoveragePct float64      `json:"mean_coverage_pct"`
	SuccessRate     float64      `json:"success_rate"`
}

// Label names the variant in tables and persisted rows; planner-backed
// strategies carry their epsilon since it changes behavior.
func (a StrategyAggregate) Label() string {
	if a.Strategy.UsesPlanner() {
		return fmt.Sprintf("%s(eps=%g)", a.Strategy, a.Epsilon)
	}
	return string(a.Strategy)
}

// RunSummary indexes one comparison run in the store.
type RunSummary struct {
	VersionedRecord
	RunID               string    `json:"run_id"`
	CreatedAtUTC        string    `json:"created_at_utc"`
	GridSize            int       `json:"grid_size"`
	DirtCells           int       `json:"dirt_cells"`
	EpisodesPerStrategy int       `json:"episodes_per_strategy"`
	Seed                int64     `json:"seed"`
	Strategies          []string  `json:"strategies"`
	Epsilons            []float64 `json:"epsilons"`
}

// StepRecord is one row of an episode's decision trace.
type StepRecord struct {
	Step    int     `json:"step"`
	Cell    Cell    `json:"cell"`
	Battery float64 `json:"battery"`
	Action  string  `json:"action"`
}
