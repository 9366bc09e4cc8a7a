package graph

import "github.com/rmax-ai/diagrammer/pkg/geometry"

// Edge is a directed connector between two nodes. It does not keep its
// endpoints alive: deleting either endpoint deletes the edge.
type Edge struct {
	ID      string
	Phantom bool

	from, to       *Node
	fromSub, toSub Subscription
	deletion       notifier
}

// NewEdge connects from and to. Both nodes must already be registered in
// the same Graph as the edge will be.
func NewEdge(id string, from, to *Node) *Edge {
	e := &Edge{ID: id}
	e.from, e.fromSub = from, e.watch(from)
	e.to, e.toSub = to, e.watch(to)
	return e
}

func (e *Edge) watch(n *Node) Subscription {
	return n.OnDelete(func(string) { e.Delete() })
}

func (e *Edge) From() *Node { return e.from }

func (e *Edge) To() *Node { return e.to }

// SetFrom replaces the source endpoint, moving the deletion subscription
// from the old node to the new one.
func (e *Edge) SetFrom(n *Node) {
	if e.Deleted() || n == e.from {
		return
	}
	e.from.Unsubscribe(e.fromSub)
	e.from, e.fromSub = n, e.watch(n)
}

// SetTo replaces the target endpoint, moving the deletion subscription from
// the old node to the new one.
func (e *Edge) SetTo(n *Node) {
	if e.Deleted() || n == e.to {
		return
	}
	e.to.Unsubscribe(e.toSub)
	e.to, e.toSub = n, e.watch(n)
}

// Touching reports whether (x, y) falls on the edge body.
func (e *Edge) Touching(x, y float64) bool {
	quad, ok := geometry.EdgeQuad(e.from.Pos(), e.to.Pos(), NodeRadius)
	if !ok {
		return e.from.Touching(x, y)
	}
	return geometry.PointInConvexPolygon(quad, geometry.Pt(x, y))
}

func (e *Edge) OnDelete(fn func(id string)) Subscription {
	return e.deletion.subscribe(fn)
}

func (e *Edge) Unsubscribe(sub Subscription) {
	e.deletion.unsubscribe(sub)
}

// Delete drops the endpoint subscriptions and notifies listeners.
// Deleting a dead edge does nothing.
func (e *Edge) Delete() {
	if e.deletion.dead {
		return
	}
	e.from.Unsubscribe(e.fromSub)
	e.to.Unsubscribe(e.toSub)
	e.deletion.fire(e.ID)
}

func (e *Edge) Deleted() bool {
	return e.deletion.dead
}

// Draw strokes the shaft and fills the arrow head. Edges whose endpoints
// overlap are not drawn.
func (e *Edge) Draw(s Surface) {
	arrow, ok := geometry.Arrow(e.from.Pos(), e.to.Pos(), NodeRadius)
	if !ok {
		return
	}
	paint := paintFor(e.Phantom)
	s.SetStrokeStyle(paint)
	s.SetFillStyle(paint)

	s.BeginPath()
	s.MoveTo(arrow.ShaftStart.X, arrow.ShaftStart.Y)
	s.LineTo(arrow.ShaftEnd.X, arrow.ShaftEnd.Y)
	s.Stroke()

	s.BeginPath()
	s.MoveTo(arrow.ShaftEnd.X, arrow.ShaftEnd.Y)
	s.LineTo(arrow.Left.X, arrow.Left.Y)
	s.LineTo(arrow.Right.X, arrow.Right.Y)
	s.ClosePath()
	s.Fill()
}
