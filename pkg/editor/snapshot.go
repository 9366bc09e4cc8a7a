package editor

import (
	"github.com/rmax-ai/diagrammer/pkg/geometry"
	"github.com/rmax-ai/diagrammer/pkg/graph"
	"github.com/rmax-ai/diagrammer/pkg/mode"
)

// Snapshot is a JSON view of the editor state.
type Snapshot struct {
	Mode  mode.Kind  `json:"mode"`
	Held  string     `json:"held,omitempty"`
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
	Sets  []SetView  `json:"sets"`
}

type NodeView struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Phantom  bool    `json:"phantom,omitempty"`
	Selected bool    `json:"selected,omitempty"`
}

type EdgeView struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Phantom bool   `json:"phantom,omitempty"`
}

type SetView struct {
	ID      string           `json:"id"`
	Members []string         `json:"members"`
	Hull    []geometry.Point `json:"hull"`
}

func snapshot(g *graph.Graph, m *mode.Machine) Snapshot {
	snap := Snapshot{
		Mode:  m.Active(),
		Held:  m.Held(),
		Nodes: []NodeView{},
		Edges: []EdgeView{},
		Sets:  []SetView{},
	}
	for n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeView{
			ID: n.ID, X: n.X, Y: n.Y, Phantom: n.Phantom, Selected: n.Selected,
		})
	}
	for e := range g.Edges() {
		snap.Edges = append(snap.Edges, EdgeView{
			ID: e.ID, From: e.From().ID, To: e.To().ID, Phantom: e.Phantom,
		})
	}
	for s := range g.Sets() {
		members := s.Members()
		view := SetView{ID: s.ID, Members: make([]string, len(members))}
		for i, n := range members {
			view.Members[i] = n.ID
		}
		view.Hull = s.Boundary().Hull
		snap.Sets = append(snap.Sets, view)
	}
	return snap
}

// Counts reports how many entities the snapshot holds.
func (s Snapshot) Counts() (nodes, edges, sets int) {
	return len(s.Nodes), len(s.Edges), len(s.Sets)
}

// Graph rebuilds a detached diagram from the snapshot, for drawing state
// fetched from a remote daemon. Edges and set members that refer to
// unknown nodes are dropped.
func (s Snapshot) Graph() *graph.Graph {
	g := graph.New()
	for _, v := range s.Nodes {
		n := graph.NewNode(v.ID, v.X, v.Y)
		n.Phantom, n.Selected = v.Phantom, v.Selected
		g.AddNode(n)
	}
	for _, v := range s.Edges {
		from, okFrom := g.Node(v.From)
		to, okTo := g.Node(v.To)
		if !okFrom || !okTo {
			continue
		}
		g.CreateEdge(v.ID, from, to).Phantom = v.Phantom
	}
	for _, v := range s.Sets {
		set := graph.NewSet(v.ID)
		for _, id := range v.Members {
			if n, ok := g.Node(id); ok {
				set.AddNode(n)
			}
		}
		if set.Len() > 0 {
			g.AddSet(set)
		}
	}
	return g
}
