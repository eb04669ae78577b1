// Package cache provides a render artifact cache.
//
// Rasterizing a diagram through Graphviz is the slowest step of a batch.
// Since DOT emission is deterministic, an unchanged topology always produces
// identical DOT text, so cached artifacts keyed by hash(DOT + format) can be
// reused across runs. Two backends are provided:
//   - FileCache: file-based storage under the XDG cache directory
//   - NullCache: no-op backend for --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey derives the cache key for a rendered diagram artifact.
// The key covers the DOT text and the output format, so any topology or
// format change produces a different key.
func ArtifactKey(dot string, format string) string {
	return "artifact:" + format + ":" + Hash([]byte(dot))
}
