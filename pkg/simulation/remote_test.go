package simulation_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rmax-ai/diagrammer/pkg/api"
	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/simulation"
)

func TestRun_Remote(t *testing.T) {
	ed := editor.New(editor.WithIDSource(editor.NewSequenceSource("r")))
	ts := httptest.NewServer(api.NewServer(ed, "").Handler())
	defer ts.Close()

	s := simulation.Scenario{
		Name: "remote",
		Seed: 5,
		Steps: []editor.Event{
			{Type: editor.KeyDown, Key: "n"},
			{Type: editor.PointerDown, X: 10, Y: 10},
			{Type: editor.PointerUp, X: 10, Y: 10},
			{Type: editor.KeyUp, Key: "n"},
			{Type: editor.KeyDown},
		},
		Random:     &simulation.RandomConfig{Gestures: 20},
		Invariants: []simulation.Invariant{{Metric: "node_count", Condition: ">=", Value: "0"}},
	}
	res, err := simulation.Run(context.Background(), s, simulation.NewRemote(client.NewClient(ts.URL)), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Success || res.Rejected != 1 {
		t.Errorf("result = %+v", res)
	}

	local := ed.Snapshot()
	if len(local.Nodes) != res.Final.Nodes || len(local.Edges) != res.Final.Edges {
		t.Errorf("remote final %+v does not match editor state", res.Final)
	}
}
