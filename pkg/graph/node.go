package graph

import (
	"math"

	"github.com/rmax-ai/diagrammer/pkg/geometry"
)

// Node is a point entity. Phantom nodes are gesture previews: they are drawn
// gray and never returned by hit tests or ClosestNode.
type Node struct {
	ID       string
	X, Y     float64
	Phantom  bool
	Selected bool

	deletion notifier
}

// NewNode returns a node at (x, y). The id must be unique across the registry.
func NewNode(id string, x, y float64) *Node {
	return &Node{ID: id, X: x, Y: y}
}

// Pos returns the node position.
func (n *Node) Pos() geometry.Point {
	return geometry.Pt(n.X, n.Y)
}

// MoveTo sets the node position.
func (n *Node) MoveTo(x, y float64) {
	n.X = x
	n.Y = y
}

// Touching reports whether (x, y) is within TouchFactor node radii.
func (n *Node) Touching(x, y float64) bool {
	r := TouchFactor * NodeRadius
	return n.Pos().Dist2(geometry.Pt(x, y)) <= r*r
}

// OnDelete registers fn to run with the node id when the node is deleted.
func (n *Node) OnDelete(fn func(id string)) Subscription {
	return n.deletion.subscribe(fn)
}

// Unsubscribe removes a listener registered with OnDelete.
func (n *Node) Unsubscribe(sub Subscription) {
	n.deletion.unsubscribe(sub)
}

// Delete notifies every listener and leaves the node dead. Deleting a dead
// node does nothing.
func (n *Node) Delete() {
	n.deletion.fire(n.ID)
}

// Deleted reports whether Delete has run.
func (n *Node) Deleted() bool {
	return n.deletion.dead
}

// Draw fills the node disc and strokes a ring around selected nodes.
func (n *Node) Draw(s Surface) {
	s.BeginPath()
	s.SetFillStyle(paintFor(n.Phantom))
	s.Arc(n.X, n.Y, NodeRadius, 0, 2*math.Pi)
	s.Fill()
	if n.Selected {
		s.BeginPath()
		s.SetStrokeStyle(Black)
		s.Arc(n.X, n.Y, NodeRadius+SelectedRing, 0, 2*math.Pi)
		s.Stroke()
	}
}
