// Package target defines the render targets a board can be exported to and
// the properties each target carries.
//
// A [Target] is a small property set (file extension, MIME type, raster
// density, text-only flag) keyed by name. The render pipeline and CLI use
// the registry to validate a requested format before any rendering work
// starts, and to pick the right encoder once a display list is flushed.
//
// # Usage
//
//	t, err := target.Lookup("png")
//	if err != nil { ... }          // structured INVALID_TARGET error
//	path := "board" + t.Extension  // "board.png"
//
// The built-in targets are [DOT], [SVG], [PNG], [PDF], [JSON], and [Term].
// Lookup is case-insensitive.
package target

import (
	"sort"
	"strings"

	"github.com/okislab/placemat/pkg/errors"
)

// =============================================================================
// Target Properties
// =============================================================================

// Target describes one render destination and its export properties.
type Target struct {
	// Name is the canonical lowercase identifier ("svg", "png", ...).
	Name string

	// Extension is the file extension including the leading dot.
	// Empty for targets that never produce files (terminal output).
	Extension string

	// MIME is the content type served over HTTP for this target.
	MIME string

	// Density is the raster scale factor for pixel targets.
	// 1.0 for vector and text targets.
	Density float64

	// TextOnly marks targets whose output is plain text rather than
	// binary or markup data.
	TextOnly bool
}

// IsRaster reports whether the target produces pixel data.
func (t Target) IsRaster() bool {
	return t.Density > 1.0
}

// Built-in render targets.
var (
	// DOT is the Graphviz source form of a board.
	DOT = Target{Name: "dot", Extension: ".dot", MIME: "text/vnd.graphviz", Density: 1.0, TextOnly: true}

	// SVG is the vector form rendered through Graphviz.
	SVG = Target{Name: "svg", Extension: ".svg", MIME: "image/svg+xml", Density: 1.0}

	// PNG is the raster form, produced from SVG at 2x density for
	// high-DPI displays.
	PNG = Target{Name: "png", Extension: ".png", MIME: "image/png", Density: 2.0}

	// PDF is the print form, produced from SVG.
	PDF = Target{Name: "pdf", Extension: ".pdf", MIME: "application/pdf", Density: 1.0}

	// JSON is the board document itself, for piping into other tools.
	JSON = Target{Name: "json", Extension: ".json", MIME: "application/json", Density: 1.0, TextOnly: true}

	// Term is the in-terminal rendering used by the TUI. It has no file
	// extension: terminal output is never written to disk.
	Term = Target{Name: "term", Extension: "", MIME: "text/plain; charset=utf-8", Density: 1.0, TextOnly: true}
)

// =============================================================================
// Registry
// =============================================================================

var registry = map[string]Target{
	DOT.Name:  DOT,
	SVG.Name:  SVG,
	PNG.Name:  PNG,
	PDF.Name:  PDF,
	JSON.Name: JSON,
	Term.Name: Term,
}

// Lookup resolves a target by name. Matching is case-insensitive and
// tolerates a leading dot, so "PNG" and ".png" both resolve to [PNG].
// Unknown names return an INVALID_TARGET error listing the valid choices.
func Lookup(name string) (Target, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	t, ok := registry[key]
	if !ok {
		return Target{}, errors.New(errors.ErrCodeInvalidTarget,
			"unknown render target %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// ForPath resolves a target from a file path's extension.
// "diagram.svg" resolves to [SVG]. Paths without a recognized extension
// return an INVALID_TARGET error.
func ForPath(path string) (Target, error) {
	ext := strings.ToLower(strings.TrimPrefix(extOf(path), "."))
	if ext == "" {
		return Target{}, errors.New(errors.ErrCodeInvalidTarget,
			"cannot infer render target from path %q: no file extension", path)
	}
	return Lookup(ext)
}

// Names returns the registered target names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[i:]
		case '/', '\\':
			return ""
		}
	}
	return ""
}
