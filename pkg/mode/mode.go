// Package mode turns pointer and key events into graph mutations.
//
// Exactly one Mode is active at a time. Select is the resting mode; every
// other mode is entered from Select while its key is held and left when that
// key is released, after Cleanup discards whatever the gesture half built.
package mode

import (
	"github.com/rmax-ai/diagrammer/pkg/graph"
)

// Kind identifies a mode.
type Kind string

const (
	KindSelect Kind = "select"
	KindDelete Kind = "delete"
	KindEdge   Kind = "edge"
	KindSet    Kind = "set"
	KindNode   Kind = "node"
)

// Kinds lists every mode in a stable order.
var Kinds = []Kind{KindSelect, KindDelete, KindEdge, KindSet, KindNode}

// ParseKind validates a mode name.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Mode handles the pointer events of one gesture type. Cleanup must be safe
// to call at any time, including when no gesture is in progress.
type Mode interface {
	Kind() Kind
	OnPointerDown(x, y float64)
	OnPointerMove(x, y float64)
	OnPointerUp(x, y float64)
	Cleanup()
}

// Registry is the part of the graph registry that modes rely on.
type Registry interface {
	AddNode(n *graph.Node) bool
	CreateEdge(id string, from, to *graph.Node) *graph.Edge
	AddSet(s *graph.Set) bool
	ClosestNode(x, y float64) (*graph.Node, bool)
	Clicked(x, y float64) graph.Hits
}

// IDSource supplies unique identifiers for new entities.
type IDSource interface {
	NewID() string
}

// IDFunc adapts a function to IDSource.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// touchedNode returns the closest real node if the pointer is on it.
func touchedNode(g Registry, x, y float64) (*graph.Node, bool) {
	n, ok := g.ClosestNode(x, y)
	if !ok || !n.Touching(x, y) {
		return nil, false
	}
	return n, true
}
