package mode

import (
	"github.com/rmax-ai/diagrammer/pkg/geometry"
	"github.com/rmax-ai/diagrammer/pkg/graph"
)

// Select drags whatever is under the pointer: a node, both endpoints of an
// edge, or every member of a set. Nodes are translated rigidly by the
// pointer delta from the press position.
type Select struct {
	graph    Registry
	origin   geometry.Point
	selected []*graph.Node
	start    []geometry.Point
}

func NewSelect(g Registry) *Select {
	return &Select{graph: g}
}

func (m *Select) Kind() Kind { return KindSelect }

func (m *Select) OnPointerDown(x, y float64) {
	m.Cleanup()
	hits := m.graph.Clicked(x, y)
	var nodes []*graph.Node
	if n, ok := graph.First(hits.Nodes); ok {
		nodes = []*graph.Node{n}
	} else if e, ok := graph.First(hits.Edges); ok {
		nodes = []*graph.Node{e.From()}
		if e.To() != e.From() {
			nodes = append(nodes, e.To())
		}
	} else if s, ok := graph.First(hits.Sets); ok {
		nodes = s.Members()
	}
	if len(nodes) == 0 {
		return
	}
	m.origin = geometry.Pt(x, y)
	m.selected = nodes
	m.start = make([]geometry.Point, len(nodes))
	for i, n := range nodes {
		m.start[i] = n.Pos()
		n.Selected = true
	}
}

func (m *Select) OnPointerMove(x, y float64) {
	delta := geometry.Pt(x, y).Sub(m.origin)
	for i, n := range m.selected {
		p := m.start[i].Add(delta)
		n.MoveTo(p.X, p.Y)
	}
}

func (m *Select) OnPointerUp(x, y float64) {
	m.Cleanup()
}

func (m *Select) Cleanup() {
	for _, n := range m.selected {
		n.Selected = false
	}
	m.selected = nil
	m.start = nil
}
