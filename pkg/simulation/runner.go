package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/rmax-ai/diagrammer/pkg/editor"
)

var ErrTransport = errors.New("driver failed")

// Run plays s through d and evaluates its invariants. Events the editor
// rejects are counted, not fatal; a driver that cannot reach the editor
// aborts the run with ErrTransport.
func Run(ctx context.Context, s Scenario, d Driver, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if s.Seed == 0 {
		s.Seed = time.Now().UnixNano()
	}
	start := time.Now()
	res := Result{ScenarioName: s.Name, Seed: s.Seed}
	logger.Info("simulation_started", "scenario", s.Name, "seed", s.Seed)

	apply := func(ev editor.Event) error {
		res.Events++
		if err := d.Apply(ctx, ev); err != nil {
			var invalid interface{ Temporary() bool }
			if errors.Is(err, editor.ErrUnknownEvent) || errors.Is(err, editor.ErrMissingKey) ||
				(errors.As(err, &invalid) && !invalid.Temporary()) {
				res.Rejected++
				return nil
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil
	}

	for _, ev := range s.Steps {
		if err := apply(ev); err != nil {
			return res, err
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
	}

	if s.Random != nil {
		rng := rand.New(rand.NewSource(s.Seed))
		for i := 0; i < s.Random.Gestures; i++ {
			for _, ev := range gesture(rng, *s.Random) {
				if err := apply(ev); err != nil {
					return res, err
				}
			}
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			snap, err := d.Snapshot(ctx)
			if err != nil {
				return res, fmt.Errorf("%w: %v", ErrTransport, err)
			}
			for _, v := range Check(snap) {
				res.Violations = append(res.Violations, fmt.Sprintf("gesture %d: %s", i, v))
			}
		}
	}

	snap, err := d.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	res.Final = Counts{
		Nodes: len(snap.Nodes),
		Edges: len(snap.Edges),
		Sets:  len(snap.Sets),
		Mode:  string(snap.Mode),
	}
	res.Invariants = evaluateInvariants(res.Final, s.Invariants)
	res.Duration = time.Since(start)

	res.Success = len(res.Violations) == 0
	for _, inv := range res.Invariants {
		if !inv.Passed {
			res.Success = false
		}
	}
	logger.Info("simulation_finished",
		"scenario", s.Name,
		"events", res.Events,
		"rejected", res.Rejected,
		"violations", len(res.Violations),
		"success", res.Success,
	)
	return res, nil
}

// gesture builds one random key-held drag.
func gesture(rng *rand.Rand, cfg RandomConfig) []editor.Event {
	if cfg.Width <= 0 {
		cfg.Width = 400
	}
	if cfg.Height <= 0 {
		cfg.Height = 300
	}
	if cfg.Moves <= 0 {
		cfg.Moves = defaultMoves
	}
	keys := cfg.Keys
	if len(keys) == 0 {
		keys = []string{"", "d", "e", "s", "n"}
	}
	point := func() (float64, float64) {
		return math.Round(rng.Float64() * cfg.Width), math.Round(rng.Float64() * cfg.Height)
	}

	key := keys[rng.Intn(len(keys))]
	var evs []editor.Event
	if key != "" {
		evs = append(evs, editor.Event{Type: editor.KeyDown, Key: key})
	}
	x, y := point()
	evs = append(evs, editor.Event{Type: editor.PointerDown, X: x, Y: y})
	for i := 0; i < cfg.Moves; i++ {
		x, y = point()
		evs = append(evs, editor.Event{Type: editor.PointerMove, X: x, Y: y})
	}
	// occasionally let go of the key before the pointer
	early := key != "" && rng.Intn(4) == 0
	if early {
		evs = append(evs, editor.Event{Type: editor.KeyUp, Key: key})
	}
	evs = append(evs, editor.Event{Type: editor.PointerUp, X: x, Y: y})
	if key != "" && !early {
		evs = append(evs, editor.Event{Type: editor.KeyUp, Key: key})
	}
	return evs
}

// Check reports structural problems in a resting diagram: dangling edge
// endpoints, empty or dangling sets, and leftover phantoms or selections.
func Check(snap editor.Snapshot) []string {
	var out []string
	nodes := make(map[string]bool, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes[n.ID] = true
		if n.Phantom {
			out = append(out, fmt.Sprintf("node %s is still a phantom", n.ID))
		}
		if n.Selected {
			out = append(out, fmt.Sprintf("node %s is still selected", n.ID))
		}
	}
	for _, e := range snap.Edges {
		if !nodes[e.From] || !nodes[e.To] {
			out = append(out, fmt.Sprintf("edge %s dangles (%s -> %s)", e.ID, e.From, e.To))
		}
		if e.Phantom {
			out = append(out, fmt.Sprintf("edge %s is still a phantom", e.ID))
		}
	}
	for _, s := range snap.Sets {
		if len(s.Members) == 0 {
			out = append(out, fmt.Sprintf("set %s is empty", s.ID))
		}
		for _, id := range s.Members {
			if !nodes[id] {
				out = append(out, fmt.Sprintf("set %s lists missing node %s", s.ID, id))
			}
		}
	}
	return out
}

func evaluateInvariants(final Counts, invariants []Invariant) []InvariantResult {
	results := make([]InvariantResult, 0, len(invariants))
	for _, inv := range invariants {
		r := InvariantResult{
			Metric:   inv.Metric,
			Expected: fmt.Sprintf("%s %s", inv.Condition, inv.Value),
		}

		if inv.Metric == "mode" {
			r.Actual = final.Mode
			switch inv.Condition {
			case "==":
				r.Passed = final.Mode == inv.Value
			case "!=":
				r.Passed = final.Mode != inv.Value
			}
			results = append(results, r)
			continue
		}

		var actual int
		switch inv.Metric {
		case "node_count":
			actual = final.Nodes
		case "edge_count":
			actual = final.Edges
		case "set_count":
			actual = final.Sets
		default:
			r.Actual = "N/A"
			results = append(results, r)
			continue
		}
		r.Actual = strconv.Itoa(actual)

		want, err := strconv.ParseFloat(inv.Value, 64)
		if err != nil {
			results = append(results, r)
			continue
		}
		got := float64(actual)
		switch inv.Condition {
		case "==":
			r.Passed = got == want
		case "!=":
			r.Passed = got != want
		case ">":
			r.Passed = got > want
		case ">=":
			r.Passed = got >= want
		case "<":
			r.Passed = got < want
		case "<=":
			r.Passed = got <= want
		}
		results = append(results, r)
	}
	return results
}
