package mode

import "github.com/rmax-ai/diagrammer/pkg/graph"

// SetDraw sweeps a phantom cursor node across the canvas and collects every
// node it touches into a new set. The cursor is deleted on release; a set
// that collected nothing disappears with it.
type SetDraw struct {
	graph  Registry
	ids    IDSource
	cursor *graph.Node
	set    *graph.Set
}

func NewSetDraw(g Registry, ids IDSource) *SetDraw {
	return &SetDraw{graph: g, ids: ids}
}

func (m *SetDraw) Kind() Kind { return KindSet }

func (m *SetDraw) OnPointerDown(x, y float64) {
	m.Cleanup()
	cursor := graph.NewNode(m.ids.NewID(), x, y)
	cursor.Phantom = true
	m.graph.AddNode(cursor)

	set := graph.NewSet(m.ids.NewID())
	set.AddNode(cursor)
	m.graph.AddSet(set)

	m.cursor, m.set = cursor, set
	m.collect(x, y)
}

func (m *SetDraw) OnPointerMove(x, y float64) {
	if m.cursor == nil {
		return
	}
	m.collect(x, y)
	m.cursor.MoveTo(x, y)
}

func (m *SetDraw) collect(x, y float64) {
	for n := range m.graph.Clicked(x, y).Nodes {
		m.set.AddNode(n)
	}
}

func (m *SetDraw) OnPointerUp(x, y float64) {
	m.Cleanup()
}

func (m *SetDraw) Cleanup() {
	if m.cursor != nil {
		m.cursor.Delete()
	}
	m.cursor, m.set = nil, nil
}
