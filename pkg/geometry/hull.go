package geometry

import (
	"math"
	"sort"
)

// ConvexHull returns the vertices of the convex hull of points in
// counter-clockwise order using a Graham scan.
//
// The pivot is the point with the smallest Y (smallest X on ties), so every
// other point has a polar angle in [0, π] around it and atan2 orders them
// without wraparound. Duplicates are dropped before the scan. Collinear
// boundary points are not part of the result: every cyclic triple of the
// returned hull satisfies CCW > 0. All-collinear input yields its two extreme
// points and a single distinct point yields itself.
func ConvexHull(points []Point) []Point {
	pts := dedupe(points)
	if len(pts) < 2 {
		return pts
	}

	pivot := 0
	for i, p := range pts {
		q := pts[pivot]
		if p.Y < q.Y || (p.Y == q.Y && p.X < q.X) {
			pivot = i
		}
	}
	p0 := pts[pivot]
	pts[0], pts[pivot] = pts[pivot], pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		a := rest[i].Sub(p0)
		b := rest[j].Sub(p0)
		angA := math.Atan2(a.Y, a.X)
		angB := math.Atan2(b.Y, b.X)
		if angA != angB {
			return angA < angB
		}
		return a.Dot(a) < b.Dot(b)
	})

	stack := make([]Point, 0, len(pts))
	for _, p := range pts {
		for len(stack) > 1 && CCW(stack[len(stack)-2], stack[len(stack)-1], p) <= 0 {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}

	// points collinear with the pivot on the last ray survive the sweep
	for len(stack) > 2 && CCW(stack[len(stack)-2], stack[len(stack)-1], stack[0]) <= 0 {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func dedupe(points []Point) []Point {
	seen := make(map[Point]struct{}, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
