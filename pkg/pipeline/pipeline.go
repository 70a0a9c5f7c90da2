// Package pipeline provides the core board pipeline for Placemat.
//
// This package implements the complete load → resolve → render pipeline
// that is shared by the CLI and the HTTP server. Centralizing it keeps
// behavior consistent across entry points and puts the caching logic in
// one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode and validate a board document
//  2. Resolve: Build the region nesting tree from the board's geometry
//  3. Render: Generate output artifacts for the requested targets
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Targets: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/errors"
	"github.com/okislab/placemat/pkg/target"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTarget is the render target used when none is requested.
	DefaultTarget = "svg"

	// DefaultTermWidth is the default terminal canvas width in cells.
	DefaultTermWidth = 80

	// DefaultTermHeight is the default terminal canvas height in cells.
	DefaultTermHeight = 24
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the board pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options
	Margin float64 `json:"margin,omitempty"` // Containment margin; board.DefaultMargin when zero

	// Render options
	Targets    []string `json:"targets,omitempty"`
	TermWidth  int      `json:"term_width,omitempty"`
	TermHeight int      `json:"term_height,omitempty"`

	// Refresh bypasses the artifact cache and re-renders.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Targets) == 0 {
		o.Targets = []string{DefaultTarget}
	}
	for _, name := range o.Targets {
		if _, err := target.Lookup(name); err != nil {
			return err
		}
	}
	if o.Margin == 0 {
		o.Margin = board.DefaultMargin
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative: %v", o.Margin)
	}
	if o.TermWidth == 0 {
		o.TermWidth = DefaultTermWidth
	}
	if o.TermHeight == 0 {
		o.TermHeight = DefaultTermHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Board is the decoded, validated board.
	Board *board.Board

	// Tree is the region nesting tree built during the resolve stage.
	Tree *board.RegionTree

	// BoardHash is the content hash of the serialized board.
	BoardHash string

	// Artifacts contains rendered outputs keyed by target name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	PlacematCount int
	EdgeCount     int
	LoadTime      time.Duration
	ResolveTime   time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	// RenderHit is true when every requested artifact came from cache.
	RenderHit bool
}
