package simulation

import (
	"time"

	"github.com/rmax-ai/diagrammer/pkg/editor"
)

// Scenario is a scripted editing session followed by checks on the
// resulting diagram.
type Scenario struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Seed        int64          `json:"seed"` // Deterministic seed for Random
	Steps       []editor.Event `json:"steps,omitempty"`
	Random      *RandomConfig  `json:"random,omitempty"`
	Invariants  []Invariant    `json:"invariants,omitempty"`
}

// RandomConfig appends generated gestures after the scripted steps. Each
// gesture holds one key (or none, for Select), presses, drags and releases.
type RandomConfig struct {
	Gestures int      `json:"gestures"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Moves    int      `json:"moves"` // pointer moves per gesture
	Keys     []string `json:"keys"`  // candidate mode keys; "" is Select
}

const defaultMoves = 3

// MaxEvents is the most events the configured gestures can generate: an
// optional key press and release around press, moves and release.
func (c RandomConfig) MaxEvents() int {
	moves := c.Moves
	if moves <= 0 {
		moves = defaultMoves
	}
	return c.Gestures * (moves + 4)
}

// Invariant compares a metric of the final diagram against Value.
type Invariant struct {
	Metric    string `json:"metric"`    // node_count, edge_count, set_count, mode
	Condition string `json:"condition"` // ==, !=, >, <, >=, <=
	Value     string `json:"value"`
}

type InvariantResult struct {
	Metric   string `json:"metric"`
	Expected string `json:"expected"` // e.g. "> 3"
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

// Result captures the outcome of a run for reporting
type Result struct {
	ScenarioName string            `json:"scenario_name"`
	Seed         int64             `json:"seed"`
	Duration     time.Duration     `json:"duration"`
	Events       int               `json:"events"`
	Rejected     int               `json:"rejected"`
	Final        Counts            `json:"final"`
	Violations   []string          `json:"violations,omitempty"`
	Invariants   []InvariantResult `json:"invariants"`
	Success      bool              `json:"success"`
}

type Counts struct {
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
	Sets  int    `json:"sets"`
	Mode  string `json:"mode"`
}
