package nodelink

import (
	"context"

	"github.com/okislab/placemat/pkg/errors"
	"github.com/okislab/placemat/pkg/render"
	"github.com/okislab/placemat/pkg/target"
)

// Backend is a [render.Backend] that produces Graphviz-based output for
// one render target. DOT output is pure text; SVG renders in-process
// through Graphviz; PNG and PDF additionally require librsvg.
type Backend struct {
	target target.Target
}

// New creates a backend for the given target. Only the Graphviz-backed
// targets (dot, svg, png, pdf) are supported; others return an
// INVALID_TARGET error.
func New(t target.Target) (*Backend, error) {
	switch t.Name {
	case target.DOT.Name, target.SVG.Name, target.PNG.Name, target.PDF.Name:
		return &Backend{target: t}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidTarget,
			"nodelink backend does not support target %q", t.Name)
	}
}

// Name identifies the backend in logs and errors.
func (b *Backend) Name() string { return "nodelink/" + b.target.Name }

// Flush renders the display list to the backend's target format.
func (b *Backend) Flush(_ context.Context, list *render.DisplayList) ([]byte, error) {
	dot := ToDOT(list)
	switch b.target.Name {
	case target.DOT.Name:
		return []byte(dot), nil
	case target.SVG.Name:
		return RenderSVG(dot)
	case target.PDF.Name:
		return RenderPDF(dot)
	default:
		return RenderPNG(dot, b.target.Density)
	}
}
