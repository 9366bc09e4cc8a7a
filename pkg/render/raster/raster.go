// Package raster renders the diagram to images with fogleman/gg.
package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/rmax-ai/diagrammer/pkg/geometry"
)

// Surface adapts a gg context to the canvas path model: Fill and Stroke
// keep the path, BeginPath drops it.
type Surface struct {
	dc     *gg.Context
	fill   color.Color
	stroke color.Color
}

// New creates a white width×height image. World coordinates are multiplied
// by scale.
func New(width, height int, scale float64) *Surface {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	if scale > 0 && scale != 1 {
		dc.Scale(scale, scale)
	}
	dc.SetLineWidth(1)
	return &Surface{dc: dc, fill: color.Black, stroke: color.Black}
}

func (s *Surface) BeginPath() {
	s.dc.ClearPath()
}

func (s *Surface) MoveTo(x, y float64) {
	s.dc.MoveTo(x, y)
}

func (s *Surface) LineTo(x, y float64) {
	s.dc.LineTo(x, y)
}

func (s *Surface) Arc(cx, cy, r, start, end float64) {
	s.dc.DrawArc(cx, cy, r, start, geometry.NormalizeSweep(start, end))
}

func (s *Surface) ClosePath() {
	s.dc.ClosePath()
}

func (s *Surface) Fill() {
	s.dc.SetColor(s.fill)
	s.dc.FillPreserve()
}

func (s *Surface) Stroke() {
	s.dc.SetColor(s.stroke)
	s.dc.StrokePreserve()
}

func (s *Surface) SetFillStyle(c color.Color)   { s.fill = c }
func (s *Surface) SetStrokeStyle(c color.Color) { s.stroke = c }

// Image returns the rendered image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
