// Package geometry holds the pure 2D math used by the diagram model: convex
// hulls, convex point containment and the rounded boundary drawn around sets.
//
// Coordinates follow the screen convention of the hosts (y grows downwards),
// but orientation words (counter-clockwise, outward) are used in the math
// sense: CCW(a, b, c) > 0 means c lies to the left of a->b with y pointing up.
package geometry

import "math"

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Len is the Euclidean length of p seen as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist2 is the squared distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// CCW returns the cross product of (b-a) and (c-b). It is positive when the
// turn a->b->c is strictly counter-clockwise and zero when collinear.
func CCW(a, b, c Point) float64 {
	return -(b.Y-a.Y)*(c.X-b.X) + (b.X-a.X)*(c.Y-b.Y)
}

// Centroid is the arithmetic mean of points. ok is false for an empty slice.
func Centroid(points []Point) (c Point, ok bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	return Point{X: c.X / n, Y: c.Y / n}, true
}

// PointInConvexPolygon reports whether p lies inside or on the boundary of
// the convex polygon poly. Vertices must be in counter-clockwise order as
// returned by ConvexHull: the outward normal of edge (a, b) is (dy, -dx) and
// p is outside as soon as it sits strictly on the outward side of any edge.
func PointInConvexPolygon(poly []Point, p Point) bool {
	if len(poly) < 3 {
		return false
	}
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		normal := Point{X: b.Y - a.Y, Y: -(b.X - a.X)}
		if normal.Dot(p.Sub(a)) > 0 {
			return false
		}
	}
	return true
}

// DistToSegment2 is the squared distance from p to the segment [a, b].
func DistToSegment2(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist2(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist2(a.Add(ab.Scale(t)))
}
