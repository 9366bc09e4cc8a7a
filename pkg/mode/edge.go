package mode

import "github.com/rmax-ai/diagrammer/pkg/graph"

// EdgeDraw drags a new edge out of the node under the pointer, or out of a
// fresh node when the press lands on empty canvas. The far end is a phantom
// node that follows the pointer; on release it either merges into the node
// under the pointer or becomes a real node of its own.
type EdgeDraw struct {
	graph Registry
	ids   IDSource

	start        *graph.Node
	startCreated bool
	end          *graph.Node
	edge         *graph.Edge
}

func NewEdgeDraw(g Registry, ids IDSource) *EdgeDraw {
	return &EdgeDraw{graph: g, ids: ids}
}

func (m *EdgeDraw) Kind() Kind { return KindEdge }

func (m *EdgeDraw) OnPointerDown(x, y float64) {
	m.Cleanup()
	start, ok := touchedNode(m.graph, x, y)
	if !ok {
		start = graph.NewNode(m.ids.NewID(), x, y)
		m.graph.AddNode(start)
		m.startCreated = true
	}
	end := graph.NewNode(m.ids.NewID(), x, y)
	end.Phantom = true
	end.Selected = true
	m.graph.AddNode(end)

	edge := m.graph.CreateEdge(m.ids.NewID(), start, end)
	edge.Phantom = true

	m.start, m.end, m.edge = start, end, edge
}

func (m *EdgeDraw) OnPointerMove(x, y float64) {
	if m.end != nil {
		m.end.MoveTo(x, y)
	}
}

func (m *EdgeDraw) OnPointerUp(x, y float64) {
	if m.edge == nil {
		return
	}
	target, ok := touchedNode(m.graph, x, y)
	switch {
	case ok && target == m.start:
		// released on its own start: nothing to connect
		m.Cleanup()
		return
	case ok:
		m.edge.SetTo(target)
		m.edge.Phantom = false
		m.end.Delete()
	default:
		m.end.Phantom = false
		m.end.Selected = false
		m.edge.Phantom = false
	}
	m.reset()
}

// Cleanup discards an unfinished edge together with its phantom end and a
// start node that the gesture created.
func (m *EdgeDraw) Cleanup() {
	if m.end != nil {
		m.end.Delete()
	}
	if m.startCreated && m.start != nil {
		m.start.Delete()
	}
	m.reset()
}

func (m *EdgeDraw) reset() {
	m.start, m.end, m.edge = nil, nil, nil
	m.startCreated = false
}
