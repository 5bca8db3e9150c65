package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig records the full configuration of one comparison run so a
// result directory is self-describing and the run reproducible.
type RunConfig struct {
	RunID               string    `json:"run_id"`
	GridSize            int       `json:"grid_size"`
	ChargerRow          int       `json:"charger_row"`
	ChargerCol          int       `json:"charger_col"`
	DirtCells           int       `json:"dirt_cells"`
	DirtDensity         float64   `json:"dirt_density,omitempty"`
	BatteryCapacity     float64   `json:"battery_capacity"`
	DrainPerStep        float64   `json:"drain_per_step"`
	LowThreshold        float64   `json:"low_threshold"`
	MaxSteps            int       `json:"max_steps"`
	EpisodesPerStrategy int       `json:"episodes_per_strategy"`
	Strategies          []string  `json:"strategies"`
	Epsilons            []float64 `json:"epsilons"`
	Seed                int64     `json:"seed"`
	Workers             int       `json:"workers"`
}

// RunArtifacts is everything a comparison run leaves on disk: its config,
// the raw per-episode results, and the aggregate summary per variant.
type RunArtifacts struct {
	Config     RunConfig                 `json:"config"`
	Episodes   []model.EpisodeResult     `json:"episodes"`
	Aggregates []model.StrategyAggregate `json:"aggregates"`
}

type RunIndexEntry struct {
	RunID               string  `json:"run_id"`
	GridSize            int     `json:"grid_size"`
	DirtCells           int     `json:"dirt_cells"`
	EpisodesPerStrategy int     `json:"episodes_per_strategy"`
	Seed                int64   `json:"seed"`
	Workers             int     `json:"workers"`
	BestSuccessRate     float64 `json:"best_success_rate"`
	CreatedAtUTC        string  `json:"created_at_utc"`
}

var runArtifactFiles = []string{"config.json", "episodes.json", "summary.json"}

// WriteRunArtifacts writes one run directory under baseDir and returns its
// path.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "episodes.json"), artifacts.Episodes); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "summary.json"), artifacts.Aggregates); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRunArtifacts loads a run directory written by WriteRunArtifacts.
func ReadRunArtifacts(baseDir, runID string) (RunArtifacts, error) {
	if runID == "" {
		return RunArtifacts{}, fmt.Errorf("run id is required")
	}
	runDir := filepath.Join(baseDir, runID)

	var artifacts RunArtifacts
	if err := readJSON(filepath.Join(runDir, "config.json"), &artifacts.Config); err != nil {
		return RunArtifacts{}, err
	}
	if err := readJSON(filepath.Join(runDir, "episodes.json"), &artifacts.Episodes); err != nil {
		return RunArtifacts{}, err
	}
	if err := readJSON(filepath.Join(runDir, "summary.json"), &artifacts.Aggregates); err != nil {
		return RunArtifacts{}, err
	}
	return artifacts, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns index entries newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range runArtifactFiles {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, value)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
