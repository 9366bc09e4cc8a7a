package graph

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rmax-ai/diagrammer/pkg/geometry"
)

type member struct {
	node *Node
	sub  Subscription
}

// Set groups nodes under one rounded convex boundary. Membership only
// shrinks through member deletion; the set deletes itself when that leaves
// it empty.
type Set struct {
	ID string

	members  *orderedmap.OrderedMap[string, member]
	deletion notifier
}

// NewSet returns an empty set.
func NewSet(id string) *Set {
	return &Set{
		ID:      id,
		members: orderedmap.New[string, member](),
	}
}

// AddNode adds n to the set. Adding a member twice is a no-op that reports false.
func (s *Set) AddNode(n *Node) bool {
	if s.Deleted() || n.Deleted() {
		return false
	}
	if _, ok := s.members.Get(n.ID); ok {
		return false
	}
	sub := n.OnDelete(s.forget)
	s.members.Set(n.ID, member{node: n, sub: sub})
	return true
}

func (s *Set) forget(id string) {
	if _, ok := s.members.Delete(id); !ok {
		return
	}
	if s.members.Len() == 0 {
		s.Delete()
	}
}

// Has reports whether the node id is a member.
func (s *Set) Has(id string) bool {
	_, ok := s.members.Get(id)
	return ok
}

// Len is the number of members.
func (s *Set) Len() int {
	return s.members.Len()
}

// Members returns the member nodes in insertion order.
func (s *Set) Members() []*Node {
	out := make([]*Node, 0, s.members.Len())
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.node)
	}
	return out
}

func (s *Set) points() []geometry.Point {
	pts := make([]geometry.Point, 0, s.members.Len())
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		pts = append(pts, pair.Value.node.Pos())
	}
	return pts
}

// Boundary is the rounded hull around the members, padded by SetPadding
// node radii. A single distinct position yields a circle.
func (s *Set) Boundary() geometry.RoundedHull {
	return geometry.NewRoundedHull(s.points(), SetPadding*NodeRadius)
}

// Touching reports whether (x, y) is inside the set boundary.
func (s *Set) Touching(x, y float64) bool {
	if s.members.Len() == 0 {
		return false
	}
	return s.Boundary().Contains(geometry.Pt(x, y))
}

func (s *Set) OnDelete(fn func(id string)) Subscription {
	return s.deletion.subscribe(fn)
}

func (s *Set) Unsubscribe(sub Subscription) {
	s.deletion.unsubscribe(sub)
}

// Delete drops the subscriptions on the remaining members and notifies
// listeners. The members themselves are untouched.
func (s *Set) Delete() {
	if s.deletion.dead {
		return
	}
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.node.Unsubscribe(pair.Value.sub)
	}
	s.deletion.fire(s.ID)
}

func (s *Set) Deleted() bool {
	return s.deletion.dead
}

// Draw strokes the boundary: a circle around a lone member, otherwise
// tangent lines joined by arcs around the hull vertices.
func (s *Set) Draw(surface Surface) {
	if s.members.Len() == 0 {
		return
	}
	b := s.Boundary()
	surface.SetStrokeStyle(Black)
	surface.BeginPath()
	if b.Circle() {
		c := b.Hull[0]
		surface.Arc(c.X, c.Y, b.Radius, 0, 2*math.Pi)
		surface.Stroke()
		return
	}
	segs := b.Segments()
	if len(segs) == 0 {
		return
	}
	surface.MoveTo(segs[0].From.X, segs[0].From.Y)
	for _, seg := range segs {
		switch seg.Kind {
		case geometry.SegmentLine:
			surface.LineTo(seg.To.X, seg.To.Y)
		case geometry.SegmentArc:
			surface.Arc(seg.Center.X, seg.Center.Y, seg.Radius, seg.Start, seg.End)
		}
	}
	surface.Stroke()
}
