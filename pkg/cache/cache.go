// Package cache provides render-artifact caching for boards.
//
// Rendering a board through Graphviz is the slow path of the pipeline, so
// rendered artifacts (SVG, PNG, PDF bytes) are cached keyed by the board's
// content hash and the render target. A board edit changes the content
// hash and naturally invalidates every artifact derived from it.
//
// Three backends are provided: [FileCache] for CLI usage, [RedisCache]
// for the server, and [NullCache] to disable caching. All implement the
// [Cache] interface. Wrap any backend with [Instrumented] to publish
// hit/miss/set events to the observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/okislab/placemat/pkg/observability"
)

// Cache TTLs per artifact kind.
const (
	// TTLArtifact is the lifetime of rendered artifacts. Artifacts are
	// keyed by board content hash, so a long TTL is safe.
	TTLArtifact = 24 * time.Hour

	// TTLDocument is the lifetime of cached board documents.
	TTLDocument = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional
// expiration. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts captures the render parameters that affect artifact
// bytes. Two renders with equal board hash, target, and opts produce
// identical output and may share a cache entry.
type RenderKeyOpts struct {
	Margin float64
	Width  int
	Height int
}

// Keyer generates cache keys for the placemat cacheable artifacts.
type Keyer interface {
	// RenderKey generates a key for a rendered artifact.
	RenderKey(boardHash, targetName string, opts RenderKeyOpts) string

	// DocumentKey generates a key for a serialized board document.
	DocumentKey(boardID string) string
}

// DefaultKeyer is the standard key scheme: a type prefix followed by a
// SHA-256 hash of the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(boardHash, targetName string, opts RenderKeyOpts) string {
	return hashKey("render:"+targetName, boardHash, opts)
}

// DocumentKey generates a key for a serialized board document.
func (k *DefaultKeyer) DocumentKey(boardID string) string {
	return "doc:" + boardID
}

// Instrumented wraps a cache so every Get and Set publishes to the
// registered [observability.CacheHooks]. keyType labels the events
// ("render", "doc").
func Instrumented(c Cache, keyType string) Cache {
	return &instrumented{inner: c, keyType: keyType}
}

type instrumented struct {
	inner   Cache
	keyType string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }
