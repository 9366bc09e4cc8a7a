package simulation

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/rmax-ai/diagrammer/pkg/editor"
)

func newLocal() *Local {
	return NewLocal(editor.New(editor.WithIDSource(editor.NewSequenceSource("sim"))))
}

func TestRun_ScriptedEdge(t *testing.T) {
	s := Scenario{
		Name: "edge",
		Seed: 1,
		Steps: []editor.Event{
			{Type: editor.KeyDown, Key: "n"},
			{Type: editor.PointerDown, X: 60, Y: 10},
			{Type: editor.PointerUp, X: 60, Y: 10},
			{Type: editor.KeyUp, Key: "n"},
			{Type: editor.KeyDown, Key: "e"},
			{Type: editor.PointerDown, X: 10, Y: 10},
			{Type: editor.PointerMove, X: 60, Y: 10},
			{Type: editor.PointerUp, X: 60, Y: 10},
			{Type: editor.KeyUp, Key: "e"},
			{Type: "scroll"},
		},
		Invariants: []Invariant{
			{Metric: "node_count", Condition: "==", Value: "2"},
			{Metric: "edge_count", Condition: ">=", Value: "1"},
			{Metric: "set_count", Condition: "<", Value: "1"},
			{Metric: "mode", Condition: "==", Value: "select"},
		},
	}

	res, err := Run(context.Background(), s, newLocal(), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Success {
		t.Errorf("Run() failed: %+v", res.Invariants)
	}
	if res.Events != 10 || res.Rejected != 1 {
		t.Errorf("events=%d rejected=%d, want 10 and 1", res.Events, res.Rejected)
	}
	if res.Final != (Counts{Nodes: 2, Edges: 1, Sets: 0, Mode: "select"}) {
		t.Errorf("final = %+v", res.Final)
	}
}

func TestRun_RandomGesturesKeepGraphConsistent(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		s := Scenario{
			Name:   "fuzz",
			Seed:   seed,
			Random: &RandomConfig{Gestures: 300, Width: 200, Height: 150, Moves: 4},
			Invariants: []Invariant{
				{Metric: "mode", Condition: "==", Value: "select"},
			},
		}
		res, err := Run(context.Background(), s, newLocal(), nil)
		if err != nil {
			t.Fatalf("seed %d: Run() error: %v", seed, err)
		}
		if len(res.Violations) > 0 {
			t.Fatalf("seed %d: violations:\n%s", seed, strings.Join(res.Violations, "\n"))
		}
		if !res.Success {
			t.Errorf("seed %d: invariants = %+v", seed, res.Invariants)
		}
		if res.Rejected != 0 {
			t.Errorf("seed %d: %d generated events rejected", seed, res.Rejected)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := Scenario{Seed: 99, Random: &RandomConfig{Gestures: 50}}
	a, err := Run(context.Background(), s, newLocal(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), s, newLocal(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Final != b.Final || a.Events != b.Events {
		t.Errorf("runs differ: %+v vs %+v", a.Final, b.Final)
	}
}

type brokenDriver struct{}

func (brokenDriver) Apply(context.Context, editor.Event) error {
	return errors.New("connection refused")
}

func (brokenDriver) Snapshot(context.Context) (editor.Snapshot, error) {
	return editor.Snapshot{}, errors.New("connection refused")
}

func TestRun_TransportFailure(t *testing.T) {
	s := Scenario{Seed: 1, Steps: []editor.Event{{Type: editor.PointerDown}}}
	_, err := Run(context.Background(), s, brokenDriver{}, nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Run() error = %v, want ErrTransport", err)
	}
}

func TestCheck(t *testing.T) {
	snap := editor.Snapshot{
		Nodes: []editor.NodeView{{ID: "a"}, {ID: "p", Phantom: true}, {ID: "s", Selected: true}},
		Edges: []editor.EdgeView{{ID: "e1", From: "a", To: "gone"}},
		Sets:  []editor.SetView{{ID: "empty"}, {ID: "s1", Members: []string{"a", "ghost"}}},
	}
	got := Check(snap)
	want := []string{
		"node p is still a phantom",
		"node s is still selected",
		"edge e1 dangles (a -> gone)",
		"set empty is empty",
		"set s1 lists missing node ghost",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Check() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestEvaluateInvariants(t *testing.T) {
	final := Counts{Nodes: 3, Edges: 1, Sets: 0, Mode: "select"}
	tests := []struct {
		inv    Invariant
		passed bool
		actual string
	}{
		{Invariant{"node_count", "==", "3"}, true, "3"},
		{Invariant{"node_count", "!=", "3"}, false, "3"},
		{Invariant{"edge_count", ">", "0"}, true, "1"},
		{Invariant{"edge_count", "<=", "0"}, false, "1"},
		{Invariant{"set_count", "<", "1"}, true, "0"},
		{Invariant{"set_count", ">=", "abc"}, false, "0"},
		{Invariant{"mode", "!=", "edge"}, true, "select"},
		{Invariant{"mode", ">", "edge"}, false, "select"},
		{Invariant{"latency", "<", "1"}, false, "N/A"},
	}
	for _, tt := range tests {
		r := evaluateInvariants(final, []Invariant{tt.inv})[0]
		if r.Passed != tt.passed || r.Actual != tt.actual {
			t.Errorf("%+v: passed=%v actual=%s, want %v %s", tt.inv, r.Passed, r.Actual, tt.passed, tt.actual)
		}
	}
}

func TestRandomConfig_MaxEvents(t *testing.T) {
	cases := []struct {
		cfg  RandomConfig
		want int
	}{
		{RandomConfig{Gestures: 0}, 0},
		{RandomConfig{Gestures: 10}, 70},
		{RandomConfig{Gestures: 10, Moves: -1}, 70},
		{RandomConfig{Gestures: 3, Moves: 10}, 42},
	}
	for _, c := range cases {
		if got := c.cfg.MaxEvents(); got != c.want {
			t.Errorf("%+v: MaxEvents() = %d, want %d", c.cfg, got, c.want)
		}
	}

	rng := rand.New(rand.NewSource(5))
	cfg := RandomConfig{Gestures: 1, Moves: 6, Keys: []string{"n"}}
	for i := 0; i < 50; i++ {
		if n := len(gesture(rng, cfg)); n > cfg.MaxEvents() {
			t.Fatalf("gesture produced %d events, bound is %d", n, cfg.MaxEvents())
		}
	}
}
