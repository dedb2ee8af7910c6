// store.go: sharded concurrent key -> Entry map.
//
// Grounded in agilira-metis's WTinyLFUShard sharding (a shard count rounded
// up to a power of two, a per-key hash picking the shard) and in
// agilira-balios's per-cache (never global) singleflight map. Hashing over
// an arbitrary comparable key type is delegated to dolthub/maphash, which
// the pack already pulls in transitively (agilira-metis/go.mod, via
// maypok86/otter) — used here directly instead of left dangling unwired.
package corecache

import (
	"sync"

	"github.com/dolthub/maphash"
)

// shard is one partition of the entry store: an independent map guarded by
// its own lock, so unrelated keys never contend.
type shard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*Entry[K, V]
	seq     uint64 // per-shard version counter; see entryStore.put
}

// entryStore is the concurrent key -> Entry map backing a cache. It knows
// nothing about eviction policy; policies observe it through onAccess/
// onInsert/onRemove hooks wired by the facade.
type entryStore[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	hasher    maphash.Hasher[K]
}

// newEntryStore creates a store with shardCount shards (rounded up to a
// power of two), with initialCapacity spread evenly across the shards as a
// pre-sizing hint.
func newEntryStore[K comparable, V any](shardCount, initialCapacity int) *entryStore[K, V] {
	if shardCount < 1 {
		shardCount = 1
	}
	shardCount = nextPowerOf2(shardCount)
	perShardCap := initialCapacity / shardCount
	shards := make([]*shard[K, V], shardCount)
	for i := range shards {
		shards[i] = &shard[K, V]{entries: make(map[K]*Entry[K, V], perShardCap)}
	}
	return &entryStore[K, V]{
		shards:    shards,
		shardMask: uint64(shardCount - 1),
		hasher:    maphash.NewHasher[K](),
	}
}

func (s *entryStore[K, V]) hash(key K) uint64 {
	return s.hasher.Hash(key)
}

// shardFor returns the shard owning keyHash. The mix step decorrelates
// shard selection from the low bits callers may have used for their own
// purposes as a shard index.
func (s *entryStore[K, V]) shardFor(keyHash uint64) *shard[K, V] {
	mixed := keyHash ^ (keyHash >> 33)
	mixed *= 0xff51afd7ed558ccd
	mixed ^= mixed >> 33
	return s.shards[mixed&s.shardMask]
}

// get returns the current entry for key, if any.
func (s *entryStore[K, V]) get(key K, keyHash uint64) (*Entry[K, V], bool) {
	sh := s.shardFor(keyHash)
	sh.mu.RLock()
	e, ok := sh.entries[key]
	sh.mu.RUnlock()
	return e, ok
}

// put installs entry, replacing any current entry for the same key.
// Returns the replaced entry (if any) and whether a replacement occurred.
// The new entry's Version is always strictly greater than the shard's
// highest version so far, giving a per-shard ordering without a global
// counter.
func (s *entryStore[K, V]) put(key K, keyHash uint64, e *Entry[K, V]) (*Entry[K, V], bool) {
	sh := s.shardFor(keyHash)
	sh.mu.Lock()
	old, existed := sh.entries[key]
	sh.seq++
	e.Version = sh.seq
	sh.entries[key] = e
	sh.mu.Unlock()
	return old, existed
}

// remove deletes key if present, returning the removed entry.
func (s *entryStore[K, V]) remove(key K, keyHash uint64) (*Entry[K, V], bool) {
	sh := s.shardFor(keyHash)
	sh.mu.Lock()
	e, ok := sh.entries[key]
	if ok {
		delete(sh.entries, key)
	}
	sh.mu.Unlock()
	return e, ok
}

// removeIfVersion deletes key only if the current entry's Version still
// matches expected, so a racing update to the same key aborts the
// eviction or expiration instead of deleting the newer value.
func (s *entryStore[K, V]) removeIfVersion(key K, keyHash uint64, expected uint64) (*Entry[K, V], bool) {
	sh := s.shardFor(keyHash)
	sh.mu.Lock()
	e, ok := sh.entries[key]
	if !ok || e.Version != expected {
		sh.mu.Unlock()
		return nil, false
	}
	delete(sh.entries, key)
	sh.mu.Unlock()
	return e, true
}

// size returns the total number of entries across all shards.
func (s *entryStore[K, V]) size() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

// clear empties every shard, locking them in ascending index order so
// concurrent callers never deadlock against each other.
func (s *entryStore[K, V]) clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.entries = make(map[K]*Entry[K, V])
		sh.mu.Unlock()
	}
}

// snapshot returns a weakly-consistent copy of every entry currently in
// the store: it reflects no single instant, since shards are copied one
// at a time without a global lock.
func (s *entryStore[K, V]) snapshot() []*Entry[K, V] {
	out := make([]*Entry[K, V], 0, s.size())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.entries {
			out = append(out, e)
		}
		sh.mu.RUnlock()
	}
	return out
}

// withShardLock runs fn with the shard for keyHash locked for writing, so a
// read-modify-write against a single key is atomic without exposing shard
// internals. No code in this package calls it.
func (s *entryStore[K, V]) withShardLock(keyHash uint64, fn func(entries map[K]*Entry[K, V])) {
	sh := s.shardFor(keyHash)
	sh.mu.Lock()
	fn(sh.entries)
	sh.mu.Unlock()
}
