package mode

import "github.com/rmax-ai/diagrammer/pkg/graph"

// Delete removes the first entity under the pointer, preferring nodes, then
// edges, then sets. Node deletion cascades through the graph.
type Delete struct {
	graph Registry
}

func NewDelete(g Registry) *Delete {
	return &Delete{graph: g}
}

func (m *Delete) Kind() Kind { return KindDelete }

func (m *Delete) OnPointerDown(x, y float64) {
	hits := m.graph.Clicked(x, y)
	if n, ok := graph.First(hits.Nodes); ok {
		n.Delete()
		return
	}
	if e, ok := graph.First(hits.Edges); ok {
		e.Delete()
		return
	}
	if s, ok := graph.First(hits.Sets); ok {
		s.Delete()
	}
}

func (m *Delete) OnPointerMove(x, y float64) {}

func (m *Delete) OnPointerUp(x, y float64) {}

func (m *Delete) Cleanup() {}
