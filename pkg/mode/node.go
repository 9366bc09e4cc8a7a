package mode

import "github.com/rmax-ai/diagrammer/pkg/graph"

// NodeCreate places a node on press and drags it until release.
type NodeCreate struct {
	graph Registry
	ids   IDSource
	node  *graph.Node
}

func NewNodeCreate(g Registry, ids IDSource) *NodeCreate {
	return &NodeCreate{graph: g, ids: ids}
}

func (m *NodeCreate) Kind() Kind { return KindNode }

func (m *NodeCreate) OnPointerDown(x, y float64) {
	m.Cleanup()
	n := graph.NewNode(m.ids.NewID(), x, y)
	n.Selected = true
	m.graph.AddNode(n)
	m.node = n
}

func (m *NodeCreate) OnPointerMove(x, y float64) {
	if m.node != nil {
		m.node.MoveTo(x, y)
	}
}

func (m *NodeCreate) OnPointerUp(x, y float64) {
	m.Cleanup()
}

func (m *NodeCreate) Cleanup() {
	if m.node != nil {
		m.node.Selected = false
		m.node = nil
	}
}
