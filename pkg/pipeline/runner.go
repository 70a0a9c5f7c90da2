package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/cache"
	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/observability"
	"github.com/okislab/placemat/pkg/render"
	"github.com/okislab/placemat/pkg/render/nodelink"
	"github.com/okislab/placemat/pkg/render/term"
	"github.com/okislab/placemat/pkg/target"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc graph.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	b, err := r.Load(doc)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Board = b
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = b.NodeCount()
	result.Stats.PlacematCount = b.PlacematCount()
	result.Stats.EdgeCount = b.EdgeCount()

	// Compute board hash for cache keys and API responses
	if data, err := graph.MarshalBoard(b); err == nil {
		result.BoardHash = cache.Hash(data)
	}

	r.Logger.Info("loaded board",
		"nodes", b.NodeCount(),
		"placemats", b.PlacematCount(),
		"edges", b.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	resolver := board.NewResolver(b).WithMargin(opts.Margin)
	result.Tree = resolver.Tree()
	result.Stats.ResolveTime = time.Since(resolveStart)

	r.Logger.Info("resolved regions",
		"roots", len(result.Tree.Roots),
		"free", len(result.Tree.Free),
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, b, resolver, result.BoardHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"targets", opts.Targets,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes and validates a board document.
func (r *Runner) Load(doc graph.Document) (*board.Board, error) {
	return graph.ToBoard(doc)
}

// RenderWithCacheInfo renders all requested targets with caching and
// returns whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *board.Board, resolver *board.Resolver, boardHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Targets)

	artifacts := make(map[string][]byte)
	allCached := true

	var renderErr error
	for _, name := range opts.Targets {
		tgt, err := target.Lookup(name)
		if err != nil {
			renderErr = err
			break
		}

		key := r.Keyer.RenderKey(boardHash, tgt.Name, r.renderKeyOpts(opts))
		if !opts.Refresh && boardHash != "" {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[tgt.Name] = data
				continue
			}
		}
		allCached = false

		data, err := r.renderTarget(ctx, b, resolver, tgt, opts)
		if err != nil {
			renderErr = fmt.Errorf("render %s: %w", tgt.Name, err)
			break
		}
		artifacts[tgt.Name] = data

		if boardHash != "" {
			_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		}
	}

	observability.Render().OnRenderComplete(ctx, opts.Targets, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, false, renderErr
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, b *board.Board, resolver *board.Resolver, boardHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, b, resolver, boardHash, opts)
	return artifacts, err
}

// renderTarget renders one target through the frame machinery.
func (r *Runner) renderTarget(ctx context.Context, b *board.Board, resolver *board.Resolver, tgt target.Target, opts Options) ([]byte, error) {
	// JSON is the document itself; no frame needed.
	if tgt.Name == target.JSON.Name {
		return graph.MarshalBoard(b)
	}

	backend, err := r.backendFor(tgt, opts)
	if err != nil {
		return nil, err
	}

	eng := render.NewEngine(backend)
	f, err := eng.Begin()
	if err != nil {
		return nil, err
	}
	if err := render.BuildScene(f, b, resolver); err != nil {
		return nil, err
	}
	return f.End(ctx)
}

func (r *Runner) backendFor(tgt target.Target, opts Options) (render.Backend, error) {
	if tgt.Name == target.Term.Name {
		return term.New(term.WithSize(opts.TermWidth, opts.TermHeight)), nil
	}
	return nodelink.New(tgt)
}

func (r *Runner) renderKeyOpts(opts Options) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Margin: opts.Margin,
		Width:  opts.TermWidth,
		Height: opts.TermHeight,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
