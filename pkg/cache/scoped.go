package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to give each workspace a separate cache namespace
// over a shared Redis instance.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(boardHash, targetName string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(boardHash, targetName, opts)
}

// DocumentKey generates a prefixed key for a serialized board document.
func (k *ScopedKeyer) DocumentKey(boardID string) string {
	return k.prefix + k.inner.DocumentKey(boardID)
}
