// Package render provides the frame-scoped drawing context for boards.
//
// # Overview
//
// Rendering a board is a strictly sequential, per-frame affair. An [Engine]
// owns one backend and hands out one [Frame] at a time; the frame records
// draw operations into a [DisplayList] which the backend consumes when the
// frame ends:
//
//	eng := render.NewEngine(backend)
//	f, err := eng.Begin()
//	f.BeginPass(render.PassBackground)
//	f.DrawRects(ids, bounds, labels, styles)
//	f.EndPass()
//	out, err := f.End(ctx)
//
// # Frame Discipline
//
// A frame handle is valid for exactly one begin/end cycle. Any call on a
// frame after [Frame.End] fails fast with [ErrStaleFrame] rather than
// silently recording into the wrong frame. Passes are ordered: background,
// then content, then overlay. Opening a pass inside an open pass, skipping
// backwards, or ending with no pass open are all sequencing errors.
//
// Bulk draw calls take parallel slices. Lengths are validated up front and
// a mismatch fails with [ErrLengthMismatch] before any operation reaches
// the backend.
//
// # Backends
//
// A [Backend] turns a completed display list into output bytes. The
// [nodelink] subpackage renders DOT and SVG through Graphviz; the [term]
// subpackage draws to a terminal canvas for the TUI. [BuildScene] walks a
// board and records the standard three-pass scene into a frame.
//
// [nodelink]: github.com/okislab/placemat/pkg/render/nodelink
// [term]: github.com/okislab/placemat/pkg/render/term
package render
