// entry.go: the unit of storage held by the entry store.
package corecache

// Entry is the unit of storage. One current Entry exists per key; a
// replacement is an atomic (remove-old, insert-new) with old.version <
// new.version, enforced by the store under its shard lock.
type Entry[K comparable, V any] struct {
	Key   K
	Value V

	// Weight is this entry's cost in abstract units, either 1 (default)
	// or the result of the configured Weigher.
	Weight uint32

	// WriteNanos is the monotonic time of the last write (insert or
	// overwrite); WriteNanos <= AccessNanos always holds.
	WriteNanos int64

	// AccessNanos is the monotonic time of the last read or write.
	AccessNanos int64

	// AccessCount is a saturating counter incremented on every access.
	AccessCount uint32

	// Hot becomes true once AccessCount exceeds hotPromotionThreshold. No
	// eviction policy reads it.
	Hot bool

	// Version is a monotonically increasing per-entry sequence number.
	// Policy actions recorded against a stale version must be abandoned:
	// the entry has since been replaced or removed.
	Version uint64

	// InWindowSegment is meaningful only under the W-TinyLFU policy: it is
	// set when the entry is inserted into the window and cleared when a hit
	// promotes it from probation to protected. Admission from the window
	// into probation does not clear it, so an entry in probation still
	// reports true.
	InWindowSegment bool

	// keyHash caches the entry's hash so eviction candidate selection and
	// sketch lookups never recompute it.
	keyHash uint64
}

const hotPromotionThreshold = 2

func newEntry[K comparable, V any](key K, value V, weight uint32, nowNanos int64, keyHash uint64) *Entry[K, V] {
	return &Entry[K, V]{
		Key:         key,
		Value:       value,
		Weight:      weight,
		WriteNanos:  nowNanos,
		AccessNanos: nowNanos,
		AccessCount: 1,
		Version:     1,
		keyHash:     keyHash,
	}
}

// touch records an access: bumps AccessNanos/AccessCount and sets Hot once
// the promotion threshold is crossed. Saturates AccessCount at MaxUint32.
func (e *Entry[K, V]) touch(nowNanos int64) {
	e.AccessNanos = nowNanos
	if e.AccessCount < ^uint32(0) {
		e.AccessCount++
	}
	if e.AccessCount > hotPromotionThreshold {
		e.Hot = true
	}
}
