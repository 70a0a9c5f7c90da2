// Package nodelink renders boards as directed node-link diagrams.
//
// # Overview
//
// This package turns a recorded display list into Graphviz output: nodes
// appear as boxes connected by arrows, and placemat regions become nested
// subgraph clusters. Collapsed placemats render as a single compact block
// with no interior.
//
// # Usage
//
// The package plugs into the frame machinery as a [render.Backend]:
//
//	be, err := nodelink.New(target.SVG)
//	eng := render.NewEngine(be)
//	f, _ := eng.Begin()
//	render.BuildScene(f, b, board.NewResolver(b))
//	svg, err := f.End(ctx)
//
// The lower-level pieces are exported for direct use:
//
//	dot := nodelink.ToDOT(list)
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # DOT Format
//
// [ToDOT] produces Graphviz DOT source that can be rendered via
// [RenderSVG], saved and processed with external Graphviz tools, or
// customized before rendering. Region nesting maps to cluster nesting, so
// Graphviz keeps members inside their placemat's border.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
