// Package term renders display lists onto a character canvas for
// terminal display. It is the rendering backend behind the interactive
// TUI: placemats draw as bordered regions, collapsed placemats as compact
// filled blocks, nodes as labeled boxes, and edges as dotted connectors.
package term

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
	"github.com/okislab/placemat/pkg/render"
)

var (
	stylePlacemat  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleCollapsed = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleNode      = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
)

// Option configures a terminal backend.
type Option func(*Backend)

// WithSize sets the canvas size in character cells.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		b.width = width
		b.height = height
	}
}

// WithColor toggles ANSI color output. Disable it when capturing canvas
// text for assertions or piping to a file.
func WithColor(on bool) Option {
	return func(b *Backend) { b.color = on }
}

// Backend is a [render.Backend] that draws to a fixed-size character
// canvas. The board's coordinate space is scaled to fit the canvas.
type Backend struct {
	width  int
	height int
	color  bool
}

// New creates a terminal backend with an 80x24 canvas and color enabled.
func New(opts ...Option) *Backend {
	b := &Backend{width: 80, height: 24, color: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name identifies the backend in logs and errors.
func (b *Backend) Name() string { return "term" }

// Flush draws the display list and returns the canvas as UTF-8 text, one
// line per canvas row.
func (b *Backend) Flush(_ context.Context, list *render.DisplayList) ([]byte, error) {
	c := newCanvas(b.width, b.height)
	c.color = b.color

	bounds, ok := listBounds(list)
	if ok {
		c.fit(bounds)
	}

	cells := make(map[board.ElementID]cellRect)
	for _, pass := range []render.Pass{render.PassBackground, render.PassContent} {
		for _, op := range list.PassOps(pass) {
			if op.Kind != render.OpRect {
				continue
			}
			cells[op.ID] = c.toCells(op.Bounds)
		}
	}

	for _, op := range list.PassOps(render.PassBackground) {
		if op.Kind == render.OpRect {
			c.drawRect(cells[op.ID], op.Label, op.Style.Role)
		}
	}
	for _, op := range list.PassOps(render.PassContent) {
		if op.Kind == render.OpEdge {
			c.drawEdge(cells[op.From], cells[op.To])
		}
	}
	for _, op := range list.PassOps(render.PassContent) {
		if op.Kind == render.OpRect {
			c.drawRect(cells[op.ID], op.Label, op.Style.Role)
		}
	}
	for _, op := range list.PassOps(render.PassOverlay) {
		if op.Kind == render.OpText {
			c.drawText(op.At, op.Label)
		}
	}

	return []byte(c.String()), nil
}

func listBounds(list *render.DisplayList) (geom.Rect, bool) {
	var bounds geom.Rect
	found := false
	for _, op := range list.Ops {
		if op.Kind != render.OpRect {
			continue
		}
		if !found {
			bounds = op.Bounds
			found = true
			continue
		}
		bounds = bounds.Union(op.Bounds)
	}
	return bounds, found
}

// =============================================================================
// Canvas
// =============================================================================

type cellRect struct {
	x0, y0, x1, y1 int
}

type cellStyle int

const (
	cellBlank cellStyle = iota
	cellPlacemat
	cellCollapsed
	cellNode
	cellTitle
)

type canvas struct {
	width  int
	height int
	runes  []rune
	styles []cellStyle
	color  bool

	origin geom.Point
	scaleX float64
	scaleY float64
}

func newCanvas(width, height int) *canvas {
	c := &canvas{
		width:  width,
		height: height,
		runes:  make([]rune, width*height),
		styles: make([]cellStyle, width*height),
		scaleX: 1,
		scaleY: 1,
	}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

// fit maps the board-space rectangle onto the full canvas.
func (c *canvas) fit(bounds geom.Rect) {
	c.origin = geom.Point{X: bounds.X, Y: bounds.Y}
	if bounds.W > 0 {
		c.scaleX = float64(c.width-1) / bounds.W
	}
	if bounds.H > 0 {
		c.scaleY = float64(c.height-1) / bounds.H
	}
}

func (c *canvas) toCells(r geom.Rect) cellRect {
	x0 := int((r.X - c.origin.X) * c.scaleX)
	y0 := int((r.Y - c.origin.Y) * c.scaleY)
	x1 := int((r.Right() - c.origin.X) * c.scaleX)
	y1 := int((r.Bottom() - c.origin.Y) * c.scaleY)
	// Every rect occupies at least a 2x2 cell block so its border survives
	// aggressive downscaling.
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return cellRect{x0: x0, y0: y0, x1: x1, y1: y1}
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := y*c.width + x
	c.runes[i] = r
	c.styles[i] = s
}

func (c *canvas) drawRect(r cellRect, label string, role render.RectRole) {
	style := cellNode
	switch role {
	case render.RolePlacemat:
		style = cellPlacemat
	case render.RoleCollapsed:
		style = cellCollapsed
	}

	for x := r.x0 + 1; x < r.x1; x++ {
		c.set(x, r.y0, '─', style)
		c.set(x, r.y1, '─', style)
	}
	for y := r.y0 + 1; y < r.y1; y++ {
		c.set(r.x0, y, '│', style)
		c.set(r.x1, y, '│', style)
	}
	c.set(r.x0, r.y0, '╭', style)
	c.set(r.x1, r.y0, '╮', style)
	c.set(r.x0, r.y1, '╰', style)
	c.set(r.x1, r.y1, '╯', style)

	if role == render.RoleCollapsed {
		for y := r.y0 + 1; y < r.y1; y++ {
			for x := r.x0 + 1; x < r.x1; x++ {
				c.set(x, y, '░', style)
			}
		}
	}

	if label == "" {
		return
	}
	inner := r.x1 - r.x0 - 1
	if inner < 1 {
		return
	}
	text := label
	if len(text) > inner {
		text = text[:inner]
	}
	y := r.y0
	if role == render.RoleNode || role == render.RoleCollapsed {
		y = (r.y0 + r.y1) / 2
	}
	x := r.x0 + 1 + (inner-len(text))/2
	for i, ch := range text {
		c.set(x+i, y, ch, style)
	}
}

// drawEdge connects two rect centers with a dotted line. Existing border
// and label cells are never overwritten.
func (c *canvas) drawEdge(from, to cellRect) {
	x0, y0 := (from.x0+from.x1)/2, (from.y0+from.y1)/2
	x1, y1 := (to.x0+to.x1)/2, (to.y0+to.y1)/2

	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		if x >= 0 && x < c.width && y >= 0 && y < c.height && c.runes[y*c.width+x] == ' ' {
			c.set(x, y, '·', cellBlank)
		}
	}
}

func (c *canvas) drawText(at geom.Point, text string) {
	x := int((at.X - c.origin.X) * c.scaleX)
	y := int((at.Y - c.origin.Y) * c.scaleY)
	for i, ch := range text {
		c.set(x+1+i, y, ch, cellTitle)
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		row := c.runes[y*c.width : (y+1)*c.width]
		line := strings.TrimRight(string(row), " ")
		if c.color {
			line = c.colorRow(y, line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// colorRow styles contiguous runs of same-styled cells so ANSI escape
// sequences stay proportional to content rather than per-cell.
func (c *canvas) colorRow(y int, line string) string {
	runes := []rune(line)
	var sb strings.Builder
	i := 0
	for i < len(runes) {
		style := c.styles[y*c.width+i]
		j := i
		for j < len(runes) && c.styles[y*c.width+j] == style {
			j++
		}
		run := string(runes[i:j])
		switch style {
		case cellPlacemat:
			run = stylePlacemat.Render(run)
		case cellCollapsed:
			run = styleCollapsed.Render(run)
		case cellNode:
			run = styleNode.Render(run)
		case cellTitle:
			run = styleTitle.Render(run)
		}
		sb.WriteString(run)
		i = j
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
