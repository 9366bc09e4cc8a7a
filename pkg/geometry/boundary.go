package geometry

import "math"

// SegmentKind tells a boundary walker how to join two consecutive tangent points.
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentArc
)

// Segment is one piece of a rounded hull outline. For arcs, Center, Radius
// and the Start/End angles describe a sweep of increasing angle from Start
// to End (End may be smaller than Start, in which case the sweep wraps).
type Segment struct {
	Kind   SegmentKind
	From   Point
	To     Point
	Center Point
	Radius float64
	Start  float64
	End    float64
}

// RoundedHull is the convex hull of a point set grown outwards by Radius:
// straight tangent segments parallel to each hull edge joined by arcs
// centred on the hull vertices.
type RoundedHull struct {
	Hull     []Point
	Tangents []Point
	Radius   float64
}

// NewRoundedHull computes the hull of points and its tangent points.
func NewRoundedHull(points []Point, radius float64) RoundedHull {
	hull := ConvexHull(points)
	return RoundedHull{
		Hull:     hull,
		Tangents: TangentPoints(hull, radius),
		Radius:   radius,
	}
}

// TangentPoints offsets every hull edge (p_i, p_i+1) outwards by r along its
// normal and returns both endpoints of each offset segment, 2·len(hull)
// points in hull order. Zero-length edges contribute no points.
func TangentPoints(hull []Point, r float64) []Point {
	if len(hull) < 2 {
		return nil
	}
	out := make([]Point, 0, 2*len(hull))
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		d := b.Sub(a)
		length := d.Len()
		if length == 0 {
			continue
		}
		m := r / length
		offset := Point{X: d.Y * m, Y: -d.X * m}
		out = append(out, a.Add(offset), b.Add(offset))
	}
	return out
}

// Circle reports whether the outline degenerates to a circle around Hull[0].
func (h RoundedHull) Circle() bool {
	return len(h.Hull) == 1
}

// Contains reports whether p lies in the rounded region: inside the polygon
// of tangent points or within Radius of any hull vertex. Together the two
// tests cover the straight strips and the rounded corners exactly.
func (h RoundedHull) Contains(p Point) bool {
	r2 := h.Radius * h.Radius
	for _, v := range h.Hull {
		if p.Dist2(v) <= r2 {
			return true
		}
	}
	return PointInConvexPolygon(h.Tangents, p)
}

// Segments walks the outline: segment i joins tangent point i to i+1 with a
// line when i is even and with an arc around hull vertex ceil(i/2) when odd.
func (h RoundedHull) Segments() []Segment {
	n := len(h.Tangents)
	if n == 0 || n != 2*len(h.Hull) {
		return nil
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		from := h.Tangents[i]
		to := h.Tangents[(i+1)%n]
		if i%2 == 0 {
			segs = append(segs, Segment{Kind: SegmentLine, From: from, To: to})
			continue
		}
		c := h.Hull[((i+1)/2)%len(h.Hull)]
		segs = append(segs, Segment{
			Kind:   SegmentArc,
			From:   from,
			To:     to,
			Center: c,
			Radius: h.Radius,
			Start:  math.Atan2(from.Y-c.Y, from.X-c.X),
			End:    math.Atan2(to.Y-c.Y, to.X-c.X),
		})
	}
	return segs
}
