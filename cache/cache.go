// Package cache implements the fingerprint cache of spec.md §4.2: a
// process-wide, single-generation memoization bucket keyed by the active
// script's content fingerprint. Context collection and sandbox
// evaluation are pure functions of source content, so two structurally
// identical subtrees (even across passes and iterations) can share one
// cached result as long as the active fingerprint hasn't changed.
package cache

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint is the 128-bit content digest spec.md §4.2 calls for,
// built from two 64-bit xxHash values (one over src, one over src with a
// fixed suffix appended) rather than
// pulling in a dedicated 128-bit hash library the rest of the corpus
// never references (see DESIGN.md).
type Fingerprint [2]uint64

var zeroFingerprint Fingerprint

// Fingerprint64 hashes src into a Fingerprint. An empty src always maps
// to zeroFingerprint, which Cache.Get treats as the distinguished
// "no-hash" slot.
func Fingerprint64(src string) Fingerprint {
	if src == "" {
		return zeroFingerprint
	}
	h1 := xxhash.Sum64String(src)
	h2 := xxhash.Sum64String(src + "\x00salt")
	return Fingerprint{h1, h2}
}

// Bucket is a single generation's memoization store. It is an untyped
// map because it backs two independent cache domains (context-collector
// results keyed by node-id+content-hash, and sandbox-evaluation results
// keyed by fragment source) that don't share a value type.
type Bucket struct {
	values map[string]any
}

func newBucket() *Bucket { return &Bucket{values: map[string]any{}} }

func (b *Bucket) Get(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

func (b *Bucket) Set(key string, v any) {
	b.values[key] = v
}

// Cache is the process-wide singleton spec.md §4.2 describes: one active
// fingerprint, one bucket for it, plus the never-invalidated no-hash
// slot. The orchestrator resets it at the start of every job.
type Cache struct {
	active Fingerprint
	bucket *Bucket

	noHash *Bucket
}

func New() *Cache {
	return &Cache{noHash: newBucket()}
}

// Get returns the bucket for f. If f differs from the previously active
// fingerprint, the prior bucket is dropped and a fresh one is installed
// for f. The zero fingerprint (missing/empty content) always resolves to
// the distinguished no-hash slot, which is never invalidated by other
// keys passing through Get.
func (c *Cache) Get(f Fingerprint) *Bucket {
	if f == zeroFingerprint {
		return c.noHash
	}
	if c.bucket == nil || f != c.active {
		c.active = f
		c.bucket = newBucket()
	}
	return c.bucket
}

// Flush empties the currently active bucket but keeps the active
// fingerprint (a no-op on the invalidation rule in Get).
func (c *Cache) Flush() {
	if c.bucket != nil {
		c.bucket = newBucket()
	}
}

// Reset drops both the active fingerprint and bucket, returning the
// cache to its just-constructed state. The orchestrator calls this once
// per job per spec.md §5 ("reset by the orchestrator at the start of
// each job").
func (c *Cache) Reset() {
	c.active = zeroFingerprint
	c.bucket = nil
	c.noHash = newBucket()
}
