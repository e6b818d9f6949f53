// Package cache provides pluggable byte caching for pipeline stages:
// a file-backed cache for CLI runs, a redis-backed cache for server
// deployments, and a null cache for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ModelKey identifies a processed pedigree model by the hash of its
	// source data and the options that shape processing.
	ModelKey(sourceHash string, opts ModelKeyOpts) string

	// KinshipKey identifies a kinship matrix by its model hash.
	KinshipKey(modelHash string) string

	// ArtifactKey identifies a rendered artifact by model hash and
	// render options.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// Default TTLs per stage. Models are derived purely from input data and
// options, so entries stay valid until the input changes; the generous TTLs
// just bound disk growth.
const (
	ModelTTL    = 30 * 24 * time.Hour
	KinshipTTL  = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)
