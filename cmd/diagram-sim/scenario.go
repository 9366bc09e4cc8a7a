package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rmax-ai/diagrammer/pkg/simulation"
)

// loadScenario reads a scenario from JSON, or from TOML when the file
// has a .toml extension.
func loadScenario(path string) (simulation.Scenario, error) {
	var s simulation.Scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read scenario file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &s); err != nil {
			return s, fmt.Errorf("failed to parse scenario file: %w", err)
		}
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	return s, nil
}

func defaultScenario() simulation.Scenario {
	return simulation.Scenario{
		Name:        "Default Demo",
		Description: "Random gestures across every mode",
		Seed:        1,
		Random:      &simulation.RandomConfig{Gestures: 200},
		Invariants: []simulation.Invariant{
			{Metric: "mode", Condition: "==", Value: "select"},
		},
	}
}
