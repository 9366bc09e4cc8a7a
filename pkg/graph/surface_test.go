package graph

import (
	"fmt"
	"image/color"
)

// recorder is a Surface that logs every call.
type recorder struct {
	calls  []string
	fill   color.Color
	stroke color.Color
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) BeginPath()                          { r.log("begin") }
func (r *recorder) MoveTo(x, y float64)                 { r.log("move %.1f %.1f", x, y) }
func (r *recorder) LineTo(x, y float64)                 { r.log("line %.1f %.1f", x, y) }
func (r *recorder) Arc(cx, cy, rad, start, end float64) { r.log("arc %.1f %.1f %.1f", cx, cy, rad) }
func (r *recorder) ClosePath()                          { r.log("close") }
func (r *recorder) Fill()                               { r.log("fill %v", r.fill) }
func (r *recorder) Stroke()                             { r.log("stroke %v", r.stroke) }
func (r *recorder) SetFillStyle(c color.Color)          { r.fill = c }
func (r *recorder) SetStrokeStyle(c color.Color)        { r.stroke = c }

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
