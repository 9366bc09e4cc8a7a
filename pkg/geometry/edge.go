package geometry

import "math"

// EdgeQuad is the body of an edge: the rectangle of half-width r spanning
// from and to, each end pushed r further out along the edge, in
// counter-clockwise order. ok is false when the endpoints coincide.
func EdgeQuad(from, to Point, r float64) (quad []Point, ok bool) {
	d := to.Sub(from)
	length := d.Len()
	if length == 0 {
		return nil, false
	}
	m := r / length
	along := d.Scale(m)
	from, to = from.Sub(along), to.Add(along)
	off := Point{X: d.Y * m, Y: -d.X * m}
	return []Point{
		to.Add(off),
		to.Sub(off),
		from.Sub(off),
		from.Add(off),
	}, true
}

// ArrowShape is a drawable arrow: a shaft and a triangular head whose tip
// sits at ShaftEnd.
type ArrowShape struct {
	ShaftStart Point
	ShaftEnd   Point
	Left       Point
	Right      Point
}

// Arrow shortens the segment from->to by 2r on both sides so it clears the
// node discs and computes a head of length 2r and half-width r. ok is false
// when the nodes are too close for a shaft to remain.
func Arrow(from, to Point, r float64) (a ArrowShape, ok bool) {
	length := to.Sub(from).Len()
	if length <= 4*r {
		return ArrowShape{}, false
	}
	m := 2 * r / length
	start := to.Scale(m).Add(from.Scale(1 - m))
	end := from.Scale(m).Add(to.Scale(1 - m))

	shaft := end.Sub(start)
	n := r / shaft.Len()
	u := shaft.Scale(n)
	center := end.Sub(u.Scale(2))
	return ArrowShape{
		ShaftStart: start,
		ShaftEnd:   end,
		Left:       Point{X: center.X - u.Y, Y: center.Y + u.X},
		Right:      Point{X: center.X + u.Y, Y: center.Y - u.X},
	}, true
}

// NormalizeSweep returns end adjusted so that sweeping with increasing
// angle from start reaches it in at most one full turn.
func NormalizeSweep(start, end float64) float64 {
	for end < start {
		end += 2 * math.Pi
	}
	for end-start > 2*math.Pi {
		end -= 2 * math.Pi
	}
	return end
}
