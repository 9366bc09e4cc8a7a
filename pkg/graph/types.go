// Package graph is the diagram model: nodes, directed edges and sets of
// nodes, plus the registry that owns them.
//
// Edges and sets never own their nodes. They subscribe to each node's
// deletion and react synchronously: an edge deletes itself when either
// endpoint goes away, a set forgets the member and deletes itself once the
// last member is gone. The registry is just one more subscriber on every
// entity it holds, so deleting a node is the single entry point that ripples
// through the whole model before Delete returns.
package graph

import "image/color"

// Kind names an entity type. It is used as a metrics label and in snapshots.
type Kind string

const (
	KindNode Kind = "node"
	KindEdge Kind = "edge"
	KindSet  Kind = "set"
)

const (
	// NodeRadius is the drawn radius of a node in world units.
	NodeRadius = 5.0

	// TouchFactor scales NodeRadius for pointer hit tests on nodes.
	TouchFactor = 2.0

	// SetPadding scales NodeRadius for the distance between members and
	// the drawn set boundary.
	SetPadding = 3.0

	// SelectedRing is the gap between a selected node and its ring.
	SelectedRing = 2.0
)

var (
	// Black is used for live entities.
	Black color.Color = color.Gray{Y: 0x00}

	// Gray is used for phantom entities.
	Gray color.Color = color.Gray{Y: 0x80}
)

func paintFor(phantom bool) color.Color {
	if phantom {
		return Gray
	}
	return Black
}
