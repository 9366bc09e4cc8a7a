package graph

import (
	"iter"
	"log/slog"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Graph is the registry of live entities. Each mapping preserves insertion
// order, which is the order of hit-test results and of drawing.
//
// A Graph is not safe for concurrent use; hosts serialize access.
type Graph struct {
	nodes *orderedmap.OrderedMap[string, *Node]
	edges *orderedmap.OrderedMap[string, *Edge]
	sets  *orderedmap.OrderedMap[string, *Set]

	logger  *slog.Logger
	metrics bool
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for registry events.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMetrics makes the registry report to the process-wide entity
// metrics. Only the graph a host actually serves should enable it; scratch
// and rebuilt graphs would otherwise inflate the live gauge.
func WithMetrics() Option {
	return func(g *Graph) {
		g.metrics = true
	}
}

// New creates an empty registry.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:  orderedmap.New[string, *Node](),
		edges:  orderedmap.New[string, *Edge](),
		sets:   orderedmap.New[string, *Set](),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode registers n. An id that is already present, or a deleted node,
// is ignored and false is returned.
func (g *Graph) AddNode(n *Node) bool {
	if n.Deleted() {
		return false
	}
	if _, ok := g.nodes.Get(n.ID); ok {
		return false
	}
	g.nodes.Set(n.ID, n)
	n.OnDelete(func(id string) {
		g.remove(KindNode, id, func() bool { _, ok := g.nodes.Delete(id); return ok })
	})
	g.created(KindNode)
	return true
}

// CreateEdge builds an edge with the caller supplied id between two
// registered nodes and registers it.
func (g *Graph) CreateEdge(id string, from, to *Node) *Edge {
	e := NewEdge(id, from, to)
	g.AddEdge(e)
	return e
}

// AddEdge registers e. Duplicate ids are ignored and false is returned.
func (g *Graph) AddEdge(e *Edge) bool {
	if e.Deleted() {
		return false
	}
	if _, ok := g.edges.Get(e.ID); ok {
		return false
	}
	g.edges.Set(e.ID, e)
	e.OnDelete(func(id string) {
		g.remove(KindEdge, id, func() bool { _, ok := g.edges.Delete(id); return ok })
	})
	g.created(KindEdge)
	return true
}

// AddSet registers s. Duplicate ids are ignored and false is returned.
func (g *Graph) AddSet(s *Set) bool {
	if s.Deleted() {
		return false
	}
	if _, ok := g.sets.Get(s.ID); ok {
		return false
	}
	g.sets.Set(s.ID, s)
	s.OnDelete(func(id string) {
		g.remove(KindSet, id, func() bool { _, ok := g.sets.Delete(id); return ok })
	})
	g.created(KindSet)
	return true
}

func (g *Graph) created(kind Kind) {
	if !g.metrics {
		return
	}
	entitiesCreated.WithLabelValues(string(kind)).Inc()
	entitiesLive.WithLabelValues(string(kind)).Inc()
}

func (g *Graph) remove(kind Kind, id string, del func() bool) {
	if !del() {
		return
	}
	if g.metrics {
		entitiesDeleted.WithLabelValues(string(kind)).Inc()
		entitiesLive.WithLabelValues(string(kind)).Dec()
	}
	g.logger.Debug("entity removed from graph", "kind", kind, "id", id)
}

func (g *Graph) Node(id string) (*Node, bool) { return g.nodes.Get(id) }

func (g *Graph) Edge(id string) (*Edge, bool) { return g.edges.Get(id) }

func (g *Graph) Set(id string) (*Set, bool) { return g.sets.Get(id) }

// Counts returns the number of live nodes, edges and sets.
func (g *Graph) Counts() (nodes, edges, sets int) {
	return g.nodes.Len(), g.edges.Len(), g.sets.Len()
}

// Nodes yields live nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[*Node] { return values(g.nodes) }

// Edges yields live edges in insertion order.
func (g *Graph) Edges() iter.Seq[*Edge] { return values(g.edges) }

// Sets yields live sets in insertion order.
func (g *Graph) Sets() iter.Seq[*Set] { return values(g.sets) }

func values[V any](m *orderedmap.OrderedMap[string, V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		for pair := m.Oldest(); pair != nil; {
			next := pair.Next()
			if !yield(pair.Value) {
				return
			}
			pair = next
		}
	}
}

// ClosestNode returns the non-phantom node nearest to (x, y). ok is false
// when the registry holds no eligible node.
func (g *Graph) ClosestNode(x, y float64) (closest *Node, ok bool) {
	best := math.Inf(1)
	for n := range g.Nodes() {
		if n.Phantom {
			continue
		}
		d := (n.X-x)*(n.X-x) + (n.Y-y)*(n.Y-y)
		if d < best {
			closest, best = n, d
		}
	}
	return closest, closest != nil
}

// Hits holds the lazily evaluated hit-test results of Clicked. Each
// sequence tests entities only as it is consumed, in insertion order.
type Hits struct {
	Nodes iter.Seq[*Node]
	Edges iter.Seq[*Edge]
	Sets  iter.Seq[*Set]
}

// Clicked returns the entities under (x, y). Phantom nodes and edges are
// never hit.
func (g *Graph) Clicked(x, y float64) Hits {
	return Hits{
		Nodes: filter(g.Nodes(), func(n *Node) bool { return !n.Phantom && n.Touching(x, y) }),
		Edges: filter(g.Edges(), func(e *Edge) bool { return !e.Phantom && e.Touching(x, y) }),
		Sets:  filter(g.Sets(), func(s *Set) bool { return s.Touching(x, y) }),
	}
}

func filter[V any](seq iter.Seq[V], keep func(V) bool) iter.Seq[V] {
	return func(yield func(V) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

// First returns the first element of seq.
func First[V any](seq iter.Seq[V]) (v V, ok bool) {
	for v := range seq {
		return v, true
	}
	return v, false
}

// Draw renders every live entity: nodes, then edges, then sets.
func (g *Graph) Draw(s Surface) {
	for n := range g.Nodes() {
		n.Draw(s)
	}
	for e := range g.Edges() {
		e.Draw(s)
	}
	for set := range g.Sets() {
		set.Draw(s)
	}
}
