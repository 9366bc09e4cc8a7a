// Package termcanvas rasterizes the diagram into a grid of terminal cells.
package termcanvas

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/diagrammer/pkg/geometry"
)

const (
	FillRune   = '█'
	StrokeRune = '•'
	arcSteps   = 24
)

var (
	inkStyle   = lipgloss.NewStyle()
	ghostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type cell struct {
	r     rune
	ghost bool
}

type subpath struct {
	points []geometry.Point
	closed bool
}

// Canvas is a cols×rows cell grid covering a world rectangle of
// cols·ScaleX by rows·ScaleY units, origin at the top-left cell.
type Canvas struct {
	cols, rows     int
	scaleX, scaleY float64
	cells          []cell

	paths  []subpath
	fill   color.Color
	stroke color.Color
}

// New creates a blank canvas. Terminal cells are roughly twice as tall as
// they are wide, so callers usually pass scaleY = 2·scaleX.
func New(cols, rows int, scaleX, scaleY float64) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{
		cols:   cols,
		rows:   rows,
		scaleX: scaleX,
		scaleY: scaleY,
		cells:  make([]cell, cols*rows),
		fill:   color.Black,
		stroke: color.Black,
	}
}

func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// CellToWorld maps the centre of cell (col, row) to world coordinates.
func (c *Canvas) CellToWorld(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.scaleX, (float64(row) + 0.5) * c.scaleY
}

// Clear erases the grid and the current path.
func (c *Canvas) Clear() {
	clear(c.cells)
	c.paths = nil
}

func (c *Canvas) BeginPath() {
	c.paths = nil
}

func (c *Canvas) MoveTo(x, y float64) {
	c.paths = append(c.paths, subpath{points: []geometry.Point{geometry.Pt(x, y)}})
}

func (c *Canvas) LineTo(x, y float64) {
	if len(c.paths) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := &c.paths[len(c.paths)-1]
	last.points = append(last.points, geometry.Pt(x, y))
}

func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	end = geometry.NormalizeSweep(start, end)
	steps := int(math.Ceil(arcSteps * (end - start) / (2 * math.Pi)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		c.LineTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

func (c *Canvas) ClosePath() {
	if len(c.paths) == 0 {
		return
	}
	last := &c.paths[len(c.paths)-1]
	last.closed = true
	// subsequent segments start where the closed subpath began
	c.paths = append(c.paths, subpath{points: []geometry.Point{last.points[0]}})
}

func (c *Canvas) SetFillStyle(col color.Color)   { c.fill = col }
func (c *Canvas) SetStrokeStyle(col color.Color) { c.stroke = col }

// Stroke draws every segment of the current path.
func (c *Canvas) Stroke() {
	ghost := isGhost(c.stroke)
	for _, p := range c.paths {
		pts := p.points
		for i := 1; i < len(pts); i++ {
			c.line(pts[i-1], pts[i], ghost)
		}
		if p.closed && len(pts) > 2 {
			c.line(pts[len(pts)-1], pts[0], ghost)
		}
	}
}

// Fill paints every cell whose centre lies inside the current path under
// the even-odd rule. A shape smaller than one cell still marks the cell
// holding its centre.
func (c *Canvas) Fill() {
	ghost := isGhost(c.fill)
	var edges [][2]geometry.Point
	var lo, hi geometry.Point
	first := true
	for _, p := range c.paths {
		n := len(p.points)
		for i := 0; i < n; i++ {
			a, b := p.points[i], p.points[(i+1)%n]
			edges = append(edges, [2]geometry.Point{a, b})
			if first {
				lo, hi, first = a, a, false
			}
			lo = geometry.Pt(math.Min(lo.X, a.X), math.Min(lo.Y, a.Y))
			hi = geometry.Pt(math.Max(hi.X, a.X), math.Max(hi.Y, a.Y))
		}
	}
	if first {
		return
	}

	painted := false
	for row := 0; row < c.rows; row++ {
		_, y := c.CellToWorld(0, row)
		if y < lo.Y || y > hi.Y {
			continue
		}
		var xs []float64
		for _, e := range edges {
			a, b := e[0], e[1]
			if (a.Y <= y) == (b.Y <= y) {
				continue
			}
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for col := 0; col < c.cols; col++ {
				x, _ := c.CellToWorld(col, row)
				if x >= xs[i] && x <= xs[i+1] {
					c.set(col, row, FillRune, ghost)
					painted = true
				}
			}
		}
	}
	if !painted {
		c.plotWorld(lo.Add(hi).Scale(0.5), FillRune, ghost)
	}
}

func (c *Canvas) toCell(p geometry.Point) (int, int) {
	return int(math.Floor(p.X / c.scaleX)), int(math.Floor(p.Y / c.scaleY))
}

func (c *Canvas) plotWorld(p geometry.Point, r rune, ghost bool) {
	col, row := c.toCell(p)
	c.set(col, row, r, ghost)
}

// line plots a Bresenham line between two world points.
func (c *Canvas) line(a, b geometry.Point, ghost bool) {
	x0, y0 := c.toCell(a)
	x1, y1 := c.toCell(b)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, StrokeRune, ghost)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// set writes a cell; fills win over strokes and ink wins over ghosts.
func (c *Canvas) set(col, row int, r rune, ghost bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	cur := &c.cells[row*c.cols+col]
	if cur.r != 0 && !cur.ghost && ghost {
		return
	}
	if cur.r == FillRune && r == StrokeRune && cur.ghost == ghost {
		return
	}
	*cur = cell{r: r, ghost: ghost}
}

// Cell returns the rune at (col, row), or ' ' when empty.
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ' '
	}
	if r := c.cells[row*c.cols+col].r; r != 0 {
		return r
	}
	return ' '
}

// Plain renders the grid without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.Cell(col, row))
		}
	}
	return b.String()
}

// String renders the grid with phantom cells dimmed.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runGhost := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runGhost {
				b.WriteString(ghostStyle.Render(run.String()))
			} else {
				b.WriteString(inkStyle.Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			if cl.ghost != runGhost {
				flush()
				runGhost = cl.ghost
			}
			run.WriteRune(c.Cell(col, row))
		}
		flush()
	}
	return b.String()
}

// isGhost treats any light colour as the phantom paint.
func isGhost(col color.Color) bool {
	if col == nil {
		return false
	}
	y := color.GrayModel.Convert(col).(color.Gray).Y
	return y >= 0x40
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
