// cache.go: the public Cache[K,V] facade wiring the entry store,
// eviction policy, frequency sketch, expiration, loader, write buffer,
// event bus and stats together.
//
// Grounded in agilira-metis's api.go (a thin facade delegating to an
// internal engine) and StrategicCache's construction sequencing in
// metis.go. Put/Get/Remove are synchronous against the entry store;
// writes optionally go through the coalescing write buffer instead when
// WriteBufferSize > 0.
package corecache

import (
	"context"
	"sync"
)

// Cache is a generic, concurrent, in-process cache over keys K and
// values V, evicting by the configured Policy once it grows past its
// bound.
type Cache[K comparable, V any] struct {
	store   *entryStore[K, V]
	policy  Policy[K, V]
	weight  *weightPolicy[K, V]
	sketch  *frequencySketch
	expire  *expirationPolicy
	janitor *janitor
	loader  Loader[K, V]
	flight  *singleflightGroup[K, V]
	buffer  *writeBuffer[K, V]
	events  *eventBus[K, V]
	stats   *statsRecorder
	metrics MetricsCollector
	logger  Logger
	clock   Clock

	readOnly bool

	cancel context.CancelFunc

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// New constructs a Cache from cfg. Validation errors (not the advisory
// ConfigValidationResult) are returned; call ValidateConfig separately to
// inspect warnings before construction.
func New[K comparable, V any](cfg Config, listeners ...Listener[K, V]) (*Cache[K, V], error) {
	if _, err := validateRequired(cfg); err != nil {
		return nil, err
	}
	return newCache[K, V](cfg, listeners, false)
}

// NewReadOnly constructs a Cache that rejects Put/Remove/Clear with
// ErrOperationUnavailable. It still serves Get, GetOrLoad, and iteration,
// and still expires/evicts entries in the background — only external
// mutation is disallowed. Kept as a distinct constructor rather than a
// mutable flag on Cache, so a read-only cache can never accidentally
// start accepting writes.
func NewReadOnly[K comparable, V any](cfg Config, listeners ...Listener[K, V]) (*Cache[K, V], error) {
	if _, err := validateRequired(cfg); err != nil {
		return nil, err
	}
	return newCache[K, V](cfg, listeners, true)
}

func validateRequired(cfg Config) (ConfigValidationResult, error) {
	return ValidateConfig(cfg)
}

func newCache[K comparable, V any](cfg Config, listeners []Listener[K, V], readOnly bool) (*Cache[K, V], error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NoOpLogger{}
	}
	metrics := cfg.MetricsCollector
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = DefaultClock
	}

	shardCount := cfg.ShardCount
	if shardCount < 1 {
		shardCount = 1
	}
	maxEntries := cfg.MaxEntries
	if maxEntries < 1 {
		maxEntries = 1 << 20
	}

	store := newEntryStore[K, V](shardCount, maxEntries)
	sketch := newFrequencySketch(maxEntries, cfg.FrequencySketch)

	c := &Cache[K, V]{
		store:    store,
		sketch:   sketch,
		expire:   newExpirationPolicy(cfg.ExpireAfterWrite, cfg.ExpireAfterAccess, cfg.RefreshAfterWrite),
		flight:   newSingleflightGroup[K, V](),
		events:   newEventBus[K, V](listeners, logger),
		stats:    &statsRecorder{},
		metrics:  metrics,
		logger:   logger,
		clock:    clock,
		readOnly: readOnly,
	}

	c.policy = c.buildPolicy(cfg, maxEntries, store.hash)

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	if cfg.CleanupInterval > 0 && c.expire.enabled() {
		c.janitor = newJanitor(cfg.CleanupInterval, len(store.shards), c.reapShard)
		c.janitor.start(ctx)
	}

	if cfg.WriteBufferSize > 0 {
		c.buffer = newWriteBuffer[K, V](cfg.WriteBufferSize, c.applyWriteOp)
	}

	return c, nil
}

func (c *Cache[K, V]) buildPolicy(cfg Config, maxEntries int, hashOf func(K) uint64) Policy[K, V] {
	switch cfg.EvictionPolicy {
	case StrategyLRU:
		return newLRUPolicy[K, V](maxEntries)
	case StrategyLFU:
		return newLFUPolicy[K, V](maxEntries)
	case StrategyFIFO:
		return newFIFOPolicy[K, V](maxEntries, false)
	case StrategyFILO:
		return newFIFOPolicy[K, V](maxEntries, true)
	case StrategyIdle:
		return newIdlePolicy[K, V](maxEntries, cfg.IdleLimit, c.clock)
	case StrategyWeight:
		weigher := defaultWeigher[K, V]
		if cfg.Weigher != nil {
			if typed, ok := cfg.Weigher.(Weigher[K, V]); ok {
				weigher = typed
			} else {
				c.logger.Warn("corecache: Config.Weigher does not match the Cache's type parameters, falling back to a uniform weight of 1")
			}
		}
		inner := newLRUPolicy[K, V](0)
		w := newWeightPolicy[K, V](inner, weigher, cfg.MaxWeight)
		c.weight = w
		return w
	default:
		return newTinyLFUPolicy[K, V](maxEntries, c.sketch, hashOf)
	}
}

// SetLoader installs the loader used by GetOrLoad.
func (c *Cache[K, V]) SetLoader(loader Loader[K, V]) {
	c.loader = loader
}

// Get returns the value for key, and whether it was found and not
// expired. A lazily-discovered expired entry is removed as a side effect.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := c.clock.NowNanos()

	if c.buffer != nil {
		if op, ok := c.buffer.peek(key); ok {
			c.metrics.RecordGet(c.clock.NowNanos()-start, op.kind == writeOpPut)
			if op.kind == writeOpPut {
				c.stats.recordHit()
				return op.value, true
			}
			c.stats.recordMiss()
			var zero V
			return zero, false
		}
	}

	keyHash := c.store.hash(key)
	e, ok := c.store.get(key, keyHash)
	if !ok {
		c.stats.recordMiss()
		c.metrics.RecordGet(c.clock.NowNanos()-start, false)
		var zero V
		return zero, false
	}

	now := c.clock.NowNanos()
	if c.expire.enabled() && c.expire.expiredAt(&entryTimes{writeNanos: e.WriteNanos, accessNanos: e.AccessNanos}, now) {
		c.removeExpired(key, keyHash, e)
		c.stats.recordMiss()
		c.metrics.RecordGet(c.clock.NowNanos()-start, false)
		var zero V
		return zero, false
	}

	e.touch(now)
	c.policy.OnAccess(e)
	c.stats.recordHit()
	c.metrics.RecordGet(c.clock.NowNanos()-start, true)

	if c.loader != nil && !c.isClosed() && c.expire.needsRefresh(&entryTimes{writeNanos: e.WriteNanos, accessNanos: e.AccessNanos}, now) {
		c.triggerRefresh(key)
	}

	return e.Value, true
}

// triggerRefresh starts an asynchronous reload for key via the configured
// Loader once an entry has crossed RefreshAfterWrite: the stale value
// already returned to the caller stays visible until the reload lands.
// Concurrent accessors past the refresh window share the single in-flight
// reload via the same singleflight group GetOrLoad uses.
func (c *Cache[K, V]) triggerRefresh(key K) {
	loader := c.loader
	c.flight.triggerRefresh(context.Background(), key, func(ctx context.Context) (V, error) {
		v, err := loader(ctx, key)
		if err != nil {
			return v, err
		}
		c.applyPut(key, v)
		c.events.dispatch(Event[K, V]{Kind: EventLoad, Key: key, Value: v})
		return v, nil
	})
}

// GetOrLoad returns the cached value for key, loading and caching it via
// the installed Loader on a miss. Concurrent misses for the same key
// share one loader invocation.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	if c.isClosed() {
		var zero V
		return zero, ErrShutdown
	}
	if c.loader == nil {
		var zero V
		return zero, NewErrOperationUnavailable("GetOrLoad: no loader configured")
	}

	loader := c.loader
	value, err := c.flight.do(ctx, key, func(ctx context.Context) (V, error) {
		start := c.clock.NowNanos()
		v, err := loader(ctx, key)
		if err != nil {
			return v, err
		}
		c.stats.recordLoad(c.clock.NowNanos() - start)
		c.Put(key, v)
		c.events.dispatch(Event[K, V]{Kind: EventLoad, Key: key, Value: v})
		return v, nil
	})
	if err != nil {
		c.stats.recordLoadFailure()
		c.events.dispatch(Event[K, V]{Kind: EventLoadError, Key: key, Err: err})
		var zero V
		return zero, err
	}
	return value, nil
}

// Put inserts or replaces the value for key.
func (c *Cache[K, V]) Put(key K, value V) error {
	if c.readOnly {
		return NewErrOperationUnavailable("Put")
	}
	if c.isClosed() {
		return ErrShutdown
	}
	if c.buffer != nil {
		c.buffer.submit(writeOp[K, V]{kind: writeOpPut, key: key, value: value})
		return nil
	}
	c.applyPut(key, value)
	return nil
}

func (c *Cache[K, V]) applyPut(key K, value V) {
	start := c.clock.NowNanos()
	keyHash := c.store.hash(key)
	now := c.clock.NowNanos()

	e := newEntry[K, V](key, value, 1, now, keyHash)
	old, existed := c.store.put(key, keyHash, e)
	if existed {
		c.policy.OnRemove(old)
		c.events.dispatch(Event[K, V]{Kind: EventEvict, Key: key, Value: old.Value, Reason: ReasonReplaced})
	}

	victim, hasVictim := c.policy.OnInsert(e)
	if hasVictim {
		c.evictKey(victim, ReasonSize)
	}
	if c.weight != nil {
		for c.weight.OverWeight() {
			vk, ok := c.weight.EvictForWeight()
			if !ok {
				break
			}
			c.evictKey(vk, ReasonWeight)
		}
	}

	c.events.dispatch(Event[K, V]{Kind: EventPut, Key: key, Value: value})
	c.metrics.RecordSet(c.clock.NowNanos() - start)
}

func (c *Cache[K, V]) evictKey(key K, reason EvictReason) {
	keyHash := c.store.hash(key)
	victim, ok := c.store.remove(key, keyHash)
	if !ok {
		return
	}
	c.policy.OnRemove(victim)
	c.stats.recordEviction()
	c.metrics.RecordEviction()
	c.events.dispatch(Event[K, V]{Kind: EventEvict, Key: key, Value: victim.Value, Reason: reason})
}

func (c *Cache[K, V]) removeExpired(key K, keyHash uint64, e *Entry[K, V]) {
	removed, ok := c.store.removeIfVersion(key, keyHash, e.Version)
	if !ok {
		return
	}
	c.policy.OnRemove(removed)
	c.metrics.RecordExpiration()
	c.events.dispatch(Event[K, V]{Kind: EventExpire, Key: key, Value: removed.Value, Reason: ReasonExpired})
}

func (c *Cache[K, V]) applyWriteOp(op writeOp[K, V]) {
	switch op.kind {
	case writeOpPut:
		c.applyPut(op.key, op.value)
	case writeOpRemove:
		c.applyRemove(op.key)
	}
}

// Remove deletes key, returning whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	if c.readOnly || c.isClosed() {
		return false
	}
	if c.buffer != nil {
		_, present := c.store.get(key, c.store.hash(key))
		if op, pending := c.buffer.peek(key); pending {
			present = op.kind == writeOpPut
		}
		var zero V
		c.buffer.submit(writeOp[K, V]{kind: writeOpRemove, key: key, value: zero})
		return present
	}
	return c.applyRemove(key)
}

func (c *Cache[K, V]) applyRemove(key K) bool {
	start := c.clock.NowNanos()
	keyHash := c.store.hash(key)
	e, ok := c.store.remove(key, keyHash)
	if !ok {
		return false
	}
	c.policy.OnRemove(e)
	c.events.dispatch(Event[K, V]{Kind: EventRemove, Key: key, Value: e.Value, Reason: ReasonExplicit})
	c.metrics.RecordDelete(c.clock.NowNanos() - start)
	return true
}

// Contains reports whether key is present, without affecting recency or
// frequency bookkeeping.
func (c *Cache[K, V]) Contains(key K) bool {
	keyHash := c.store.hash(key)
	_, ok := c.store.get(key, keyHash)
	return ok
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() error {
	if c.readOnly {
		return NewErrOperationUnavailable("Clear")
	}
	if c.isClosed() {
		return ErrShutdown
	}
	c.store.clear()
	c.events.dispatch(Event[K, V]{Kind: EventClear})
	return nil
}

// Size returns the current number of entries.
func (c *Cache[K, V]) Size() int {
	return c.store.size()
}

// Keys returns a weakly-consistent snapshot of every key currently stored.
func (c *Cache[K, V]) Keys() []K {
	entries := c.store.snapshot()
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a weakly-consistent snapshot of every entry.
func (c *Cache[K, V]) Entries() []*Entry[K, V] {
	return c.store.snapshot()
}

// Stats returns a point-in-time snapshot of cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats.snapshot(uint64(c.store.size()))
}

func (c *Cache[K, V]) reapShard(shardIndex int) {
	if shardIndex < 0 || shardIndex >= len(c.store.shards) {
		return
	}
	sh := c.store.shards[shardIndex]
	now := c.clock.NowNanos()

	sh.mu.Lock()
	var expired []*Entry[K, V]
	for key, e := range sh.entries {
		if c.expire.expiredAt(&entryTimes{writeNanos: e.WriteNanos, accessNanos: e.AccessNanos}, now) {
			delete(sh.entries, key)
			expired = append(expired, e)
		}
	}
	sh.mu.Unlock()

	for _, e := range expired {
		c.policy.OnRemove(e)
		c.metrics.RecordExpiration()
		c.events.dispatch(Event[K, V]{Kind: EventExpire, Key: e.Key, Value: e.Value, Reason: ReasonExpired})
	}
}

func (c *Cache[K, V]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close stops all background goroutines. A closed Cache continues to
// serve Get/Contains/Size; Put and Clear return ErrShutdown, GetOrLoad
// returns ErrShutdown on a miss, and Remove reports false.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		if c.janitor != nil {
			c.janitor.stop()
		}
		if c.buffer != nil {
			c.buffer.stop()
		}
		c.cancel()
	})
}
