package graph

import "image/color"

// Surface is the drawing backend. It follows the HTML canvas path model:
// BeginPath clears the current path, Fill and Stroke paint it without
// clearing, and Arc sweeps with increasing angle from start to end (wrapping
// when end < start), joining the current point to the arc start with a line.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, start, end float64)
	ClosePath()
	Fill()
	Stroke()
	SetFillStyle(c color.Color)
	SetStrokeStyle(c color.Color)
}
