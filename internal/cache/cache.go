// Package cache stores finished reports keyed by content hash and declared
// flags. Analysis is deterministic per policy version, so a cached report for
// the same bytes and flags is exactly the report a fresh run would produce.
package cache

import (
	"context"
	"fmt"
)

// ResultCache caches serialized forensic reports.
type ResultCache interface {
	// Get returns the cached payload and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Key builds the cache key for one (content, flags, policy) combination.
func Key(contentHash, flagsKey, policyVersion string) string {
	return fmt.Sprintf("claimlens:report:%s:%s:%s", policyVersion, contentHash, flagsKey)
}
