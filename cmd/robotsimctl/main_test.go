package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
	"github.com/RamadhanAdam/pathfinding-robot-sim/pkg/robotsim"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"random,astar", []string{"random", "astar"}},
		{" random , astar ,", []string{"random", "astar"}},
		{"", nil},
		{",,", nil},
	}
	for _, tc := range cases {
		got := splitList(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("splitList(%q): expected %v, got %v", tc.in, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitList(%q): expected %v, got %v", tc.in, tc.want, got)
			}
		}
	}
}

func TestParseEpsilonList(t *testing.T) {
	values, err := parseEpsilonList("1.0, 1.5,2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []float64{1, 1.5, 2}
	if len(values) != len(want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
	for i := range values {
		if values[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, values)
		}
	}

	if _, err := parseEpsilonList(""); err == nil {
		t.Fatal("expected error for empty list")
	}
	if _, err := parseEpsilonList("1.0,abc"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestApplyCompareProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := `{
  "grid_size": 7,
  "episodes_per_strategy": 10,
  "strategies": ["astar", "battery_aware"],
  "epsilons": [1, 2],
  "seed": 99
}`
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	req := robotsim.CompareRequest{GridSize: 5, EpisodesPerStrategy: 5, Seed: 42}
	// The seed flag was passed explicitly, so the profile must not override it.
	got, err := applyCompareProfile(path, req, map[string]bool{"seed": true})
	if err != nil {
		t.Fatalf("apply profile: %v", err)
	}

	if got.GridSize != 7 {
		t.Fatalf("grid size: expected profile value 7, got %d", got.GridSize)
	}
	if got.EpisodesPerStrategy != 10 {
		t.Fatalf("episodes: expected profile value 10, got %d", got.EpisodesPerStrategy)
	}
	if len(got.Strategies) != 2 || got.Strategies[0] != "astar" {
		t.Fatalf("strategies: expected profile values, got %v", got.Strategies)
	}
	if len(got.Epsilons) != 2 || got.Epsilons[1] != 2 {
		t.Fatalf("epsilons: expected profile values, got %v", got.Epsilons)
	}
	if got.Seed != 42 {
		t.Fatalf("seed: explicit flag must win, got %d", got.Seed)
	}
}

func TestApplyCompareProfileErrors(t *testing.T) {
	if _, err := applyCompareProfile(filepath.Join(t.TempDir(), "missing.json"), robotsim.CompareRequest{}, nil); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := applyCompareProfile(path, robotsim.CompareRequest{}, nil); err == nil {
		t.Fatal("expected error for malformed profile")
	}
}

func TestRenderTableMarkdownWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, [][]string{
		{"Strategy", "Mean steps"},
		{"astar(eps=1)", "22.00"},
	}, false)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator, and one row, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "| Strategy |") {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "|--") {
		t.Fatalf("expected markdown separator, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "astar(eps=1)") {
		t.Fatalf("row missing from output: %q", lines[2])
	}
}

func TestRenderTablePaddedOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, [][]string{
		{"Strategy", "Steps"},
		{"random", "140"},
	}, true)

	out := buf.String()
	if strings.Contains(out, "|") {
		t.Fatalf("terminal output should not be markdown:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "random") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestRenderReportHasBothTables(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, []model.StrategyAggregate{
		{Strategy: model.StrategyAStarEpsilon, Epsilon: 1, Episodes: 5, MeanSteps: 22, StdSteps: 1.6, MeanEfficiency: 0.45, MeanCoveragePct: 100, SuccessRate: 1},
		{Strategy: model.StrategyRandom, Epsilon: 1, Episodes: 5, MeanSteps: 151.4, StdSteps: 30.2, MeanEfficiency: 0.07, MeanCoveragePct: 86, SuccessRate: 0.4},
	}, false)

	out := buf.String()
	for _, want := range []string{"Path cost", "Mission outcome", "astar(eps=1)", "random", "0.45", "0.4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCreatedAt(t *testing.T) {
	if got := formatCreatedAt("not-a-timestamp"); got != "not-a-timestamp" {
		t.Fatalf("unparseable input should pass through, got %q", got)
	}
	if got := formatCreatedAt("2026-08-25T10:00:00Z"); got == "2026-08-25T10:00:00Z" || got == "" {
		t.Fatalf("expected a relative rendering, got %q", got)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"frobnicate"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing command")
	}
}
