package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/storage"
	"github.com/RamadhanAdam/pathfinding-robot-sim/pkg/robotsim"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "compare":
		return runCompare(ctx, args[1:])
	case "episode":
		return runEpisode(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "episodes":
		return runEpisodes(ctx, args[1:])
	case "aggregates":
		return runAggregates(ctx, args[1:])
	case "report":
		return runReport(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: robotsimctl <init|reset|compare|episode|runs|episodes|aggregates|report|export> [flags]", msg)
}

func storeFlags(fs *flag.FlagSet) (storeKind, dbPath *string) {
	storeKind = fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath = fs.String("db-path", "robotsim.db", "sqlite database path")
	return storeKind, dbPath
}

func newClient(storeKind, dbPath string) (*robotsim.Client, error) {
	return robotsim.New(robotsim.Options{
		StoreKind:     storeKind,
		DBPath:        dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	configPath := fs.String("config", "", "JSON comparison profile")
	gridSize := fs.Int("grid-size", 5, "grid dimension")
	dirtCells := fs.Int("dirt-cells", 10, "dirty cells per episode")
	dirtDensity := fs.Float64("dirt-density", 0, "per-cell dirt probability (overrides dirt-cells when > 0)")
	capacity := fs.Float64("battery-capacity", 100, "battery capacity")
	drain := fs.Float64("drain-per-step", 5, "battery drain per move")
	lowThreshold := fs.Float64("low-threshold", 20, "low-battery threshold")
	maxSteps := fs.Int("max-steps", 200, "per-episode step cap")
	episodes := fs.Int("episodes", 5, "episodes per strategy variant")
	strategies := fs.String("strategies", "", "comma-separated strategies (default all)")
	epsilons := fs.String("epsilons", "1.0", "comma-separated epsilon values for planner strategies")
	seed := fs.Int64("seed", 42, "base random seed")
	workers := fs.Int("workers", 1, "episode workers")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := robotsim.CompareRequest{
		GridSize:            *gridSize,
		DirtCells:           *dirtCells,
		DirtDensity:         *dirtDensity,
		BatteryCapacity:     *capacity,
		DrainPerStep:        *drain,
		LowThreshold:        *lowThreshold,
		MaxSteps:            *maxSteps,
		EpisodesPerStrategy: *episodes,
		Seed:                *seed,
		Workers:             *workers,
	}
	if *strategies != "" {
		req.Strategies = splitList(*strategies)
	}
	epsilonValues, err := parseEpsilonList(*epsilons)
	if err != nil {
		return err
	}
	req.Epsilons = epsilonValues

	if *configPath != "" {
		req, err = applyCompareProfile(*configPath, req, setFlags(fs))
		if err != nil {
			return err
		}
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Compare(ctx, req)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(summary)
	}
	fmt.Printf("run_id=%s artifacts_dir=%s episodes=%d\n", summary.RunID, summary.ArtifactsDir, len(summary.Episodes))
	for _, agg := range summary.Aggregates {
		fmt.Printf(
			"variant=%s episodes=%d mean_steps=%.2f std_steps=%.2f efficiency=%.3f coverage=%.1f%% success_rate=%.2f\n",
			agg.Label(), agg.Episodes, agg.MeanSteps, agg.StdSteps, agg.MeanEfficiency, agg.MeanCoveragePct, agg.SuccessRate,
		)
	}
	return nil
}

func runEpisode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("episode", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	strategy := fs.String("strategy", "astar", "strategy: random|astar|battery_aware")
	gridSize := fs.Int("grid-size", 5, "grid dimension")
	dirtCells := fs.Int("dirt-cells", 10, "dirty cells")
	capacity := fs.Float64("battery-capacity", 100, "battery capacity")
	drain := fs.Float64("drain-per-step", 5, "battery drain per move")
	lowThreshold := fs.Float64("low-threshold", 20, "low-battery threshold")
	maxSteps := fs.Int("max-steps", 200, "step cap")
	epsilon := fs.Float64("epsilon", 1.0, "heuristic inflation (>= 1)")
	seed := fs.Int64("seed", 42, "random seed")
	trace := fs.Bool("trace", false, "print the per-step trace")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	result, steps, err := client.Episode(ctx, robotsim.EpisodeRequest{
		Strategy:        *strategy,
		GridSize:        *gridSize,
		DirtCells:       *dirtCells,
		BatteryCapacity: *capacity,
		DrainPerStep:    *drain,
		LowThreshold:    *lowThreshold,
		MaxSteps:        *maxSteps,
		Epsilon:         *epsilon,
		Seed:            *seed,
	})
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(map[string]any{"result": result, "trace": steps})
	}
	if *trace {
		for _, s := range steps {
			fmt.Printf("step=%d cell=%s battery=%.1f%% action=%s\n", s.Step, s.Cell, s.Battery, s.Action)
		}
	}
	fmt.Printf(
		"strategy=%s steps=%d dirt_collected=%d coverage=%.1f%% charge_cycles=%d success=%t termination=%s\n",
		result.Strategy, result.Steps, result.DirtCollected, result.CoveragePct, result.ChargeCycles, result.Success, result.Termination,
	)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	limit := fs.Int("limit", 20, "max runs to list")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, robotsim.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(items)
	}
	for _, item := range items {
		fmt.Printf(
			"run_id=%s created=%s grid=%dx%d dirt_cells=%d episodes=%d seed=%d best_success_rate=%.2f\n",
			item.RunID, formatCreatedAt(item.CreatedAtUTC), item.GridSize, item.GridSize,
			item.DirtCells, item.EpisodesPerStrategy, item.Seed, item.BestSuccessRate,
		)
	}
	return nil
}

func runEpisodes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("episodes", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max episodes to list (0 = all)")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	episodes, err := client.Episodes(ctx, robotsim.EpisodesRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(episodes)
	}
	for _, ep := range episodes {
		fmt.Printf(
			"strategy=%s epsilon=%g seed=%d steps=%d dirt=%d coverage=%.1f%% success=%t termination=%s\n",
			ep.Strategy, ep.Epsilon, ep.Seed, ep.Steps, ep.DirtCollected, ep.CoveragePct, ep.Success, ep.Termination,
		)
	}
	return nil
}

func runAggregates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("aggregates", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	aggregates, err := client.Aggregates(ctx, robotsim.AggregatesRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(aggregates)
	}
	for _, agg := range aggregates {
		fmt.Printf(
			"variant=%s episodes=%d mean_steps=%.2f std_steps=%.2f efficiency=%.3f coverage=%.1f%% success_rate=%.2f\n",
			agg.Label(), agg.Episodes, agg.MeanSteps, agg.StdSteps, agg.MeanEfficiency, agg.MeanCoveragePct, agg.SuccessRate,
		)
	}
	return nil
}

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	aggregates, err := client.Aggregates(ctx, robotsim.AggregatesRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if len(aggregates) == 0 {
		return errors.New("no aggregates to report")
	}

	renderReport(os.Stdout, aggregates, stdoutIsTerminal())
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	outDir := fs.String("out", "", "destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, robotsim.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
