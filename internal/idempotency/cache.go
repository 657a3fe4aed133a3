package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

// DefaultSize bounds the number of retained idempotency entries. Entries are
// retained for the process lifetime of the core; eviction only kicks in under
// memory pressure from the LRU bound.
const DefaultSize = 16384

type entry[V any] struct {
	fingerprint string
	response    V
}

// Cache deduplicates repeated requests bearing the same idempotency key.
// The check-then-execute-then-store sequence for one key is a single atomic
// unit: concurrent identical requests execute the operation exactly once.
type Cache[V any] struct {
	mu      sync.Mutex
	keyLock map[string]*sync.Mutex
	entries *lru.Cache[string, entry[V]]
}

// New creates a cache retaining up to size entries.
func New[V any](size int) (*Cache[V], error) {
	entries, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{
		keyLock: make(map[string]*sync.Mutex),
		entries: entries,
	}, nil
}

// Execute runs op exactly once for key. A repeat call with the same
// fingerprint returns the stored response without re-execution or side
// effects; a repeat call with a different fingerprint fails with
// domain.ErrIdempotencyConflict. A failed op leaves no entry behind, so the
// key stays retryable.
func (c *Cache[V]) Execute(ctx context.Context, key, fingerprint string, op func(ctx context.Context) (V, error)) (V, error) {
	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if cached, ok := c.entries.Get(key); ok {
		var zero V
		if cached.fingerprint != fingerprint {
			return zero, domain.ErrIdempotencyConflict
		}
		return cached.response, nil
	}

	response, err := op(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.entries.Add(key, entry[V]{fingerprint: fingerprint, response: response})
	return response, nil
}

// lockFor returns the mutex serializing all calls for one key.
func (c *Cache[V]) lockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.keyLock[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.keyLock[key] = l
	return l
}

// Fingerprint canonically encodes the semantically relevant request fields.
// Field order is fixed by the caller; the digest makes stored entries cheap
// to compare.
func Fingerprint(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x00")))
	return hex.EncodeToString(sum[:])
}
