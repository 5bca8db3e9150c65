package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"encoding/json"

	"github.com/RamadhanAdam/pathfinding-robot-sim/pkg/robotsim"
)

// compareProfile is the on-disk shape of a comparison configuration.
// Explicit command-line flags win over profile values.
type compareProfile struct {
	GridSize            *int      `json:"grid_size,omitempty"`
	DirtCells           *int      `json:"dirt_cells,omitempty"`
	DirtDensity         *float64  `json:"dirt_density,omitempty"`
	BatteryCapacity     *float64  `json:"battery_capacity,omitempty"`
	DrainPerStep        *float64  `json:"drain_per_step,omitempty"`
	LowThreshold        *float64  `json:"low_threshold,omitempty"`
	MaxSteps            *int      `json:"max_steps,omitempty"`
	EpisodesPerStrategy *int      `json:"episodes_per_strategy,omitempty"`
	Strategies          []string  `json:"strategies,omitempty"`
	Epsilons            []float64 `json:"epsilons,omitempty"`
	Seed                *int64    `json:"seed,omitempty"`
	Workers             *int      `json:"workers,omitempty"`
}

func applyCompareProfile(path string, req robotsim.CompareRequest, explicit map[string]bool) (robotsim.CompareRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return robotsim.CompareRequest{}, err
	}
	var profile compareProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return robotsim.CompareRequest{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if profile.GridSize != nil && !explicit["grid-size"] {
		req.GridSize = *profile.GridSize
	}
	if profile.DirtCells != nil && !explicit["dirt-cells"] {
		req.DirtCells = *profile.DirtCells
	}
	if profile.DirtDensity != nil && !explicit["dirt-density"] {
		req.DirtDensity = *profile.DirtDensity
	}
	if profile.BatteryCapacity != nil && !explicit["battery-capacity"] {
		req.BatteryCapacity = *profile.BatteryCapacity
	}
	if profile.DrainPerStep != nil && !explicit["drain-per-step"] {
		req.DrainPerStep = *profile.DrainPerStep
	}
	if profile.LowThreshold != nil && !explicit["low-threshold"] {
		req.LowThreshold = *profile.LowThreshold
	}
	if profile.MaxSteps != nil && !explicit["max-steps"] {
		req.MaxSteps = *profile.MaxSteps
	}
	if profile.EpisodesPerStrategy != nil && !explicit["episodes"] {
		req.EpisodesPerStrategy = *profile.EpisodesPerStrategy
	}
	if len(profile.Strategies) > 0 && !explicit["strategies"] {
		req.Strategies = profile.Strategies
	}
	if len(profile.Epsilons) > 0 && !explicit["epsilons"] {
		req.Epsilons = profile.Epsilons
	}
	if profile.Seed != nil && !explicit["seed"] {
		req.Seed = *profile.Seed
	}
	if profile.Workers != nil && !explicit["workers"] {
		req.Workers = *profile.Workers
	}
	return req, nil
}

func parseEpsilonList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		value, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid epsilon %q: %w", p, err)
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one epsilon is required")
	}
	return out, nil
}
