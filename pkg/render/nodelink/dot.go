package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/render"
)

// ToDOT converts a display list to Graphviz DOT format. Placemat rects
// become subgraph clusters nested by region, collapsed placemats become
// single blocks, and edge ops become arrows. The resulting DOT string can
// be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(list *render.DisplayList) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rects := rectOps(list)
	children := make(map[board.ElementID][]render.Op)
	for _, op := range rects {
		children[op.Style.Group] = append(children[op.Style.Group], op)
	}

	for _, op := range children[""] {
		writeRect(&buf, op, children, 1)
	}

	buf.WriteString("\n")
	for _, op := range list.Ops {
		if op.Kind == render.OpEdge {
			fmt.Fprintf(&buf, "  %q -> %q;\n", op.From, op.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rectOps(list *render.DisplayList) []render.Op {
	var ops []render.Op
	for _, op := range list.Ops {
		if op.Kind == render.OpRect {
			ops = append(ops, op)
		}
	}
	return ops
}

func writeRect(buf *bytes.Buffer, op render.Op, children map[board.ElementID][]render.Op, depth int) {
	pad := strings.Repeat("  ", depth)

	switch op.Style.Role {
	case render.RolePlacemat:
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", pad, op.ID)
		fmt.Fprintf(buf, "%s  label=%q;\n", pad, clusterLabel(op))
		fmt.Fprintf(buf, "%s  style=\"rounded,filled\";\n", pad)
		fmt.Fprintf(buf, "%s  fillcolor=\"#f5f5f5\";\n", pad)
		fmt.Fprintf(buf, "%s  color=\"#999999\";\n", pad)
		for _, child := range children[op.ID] {
			writeRect(buf, child, children, depth+1)
		}
		fmt.Fprintf(buf, "%s}\n", pad)
	case render.RoleCollapsed:
		fmt.Fprintf(buf, "%s%q [label=%q, shape=box3d, style=\"filled\", fillcolor=\"#e0e0e0\"];\n",
			pad, op.ID, clusterLabel(op))
	default:
		fmt.Fprintf(buf, "%s%q [label=%q];\n", pad, op.ID, op.Label)
	}
}

func clusterLabel(op render.Op) string {
	if op.Label != "" {
		return op.Label
	}
	return string(op.ID)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
