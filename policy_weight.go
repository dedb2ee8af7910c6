// policy_weight.go: weight-bounded eviction wrapping a secondary ordering
// policy: a put that would push total weight over the configured bound
// evicts from the wrapped policy until it fits, rather than bounding
// purely by entry count.
package corecache

type weightPolicy[K comparable, V any] struct {
	inner       Policy[K, V]
	weigher     Weigher[K, V]
	maxWeight   uint64
	totalWeight uint64
	weights     map[K]uint32
}

func newWeightPolicy[K comparable, V any](inner Policy[K, V], weigher Weigher[K, V], maxWeight uint64) *weightPolicy[K, V] {
	if weigher == nil {
		weigher = defaultWeigher[K, V]
	}
	return &weightPolicy[K, V]{
		inner:     inner,
		weigher:   weigher,
		maxWeight: maxWeight,
		weights:   make(map[K]uint32),
	}
}

func (p *weightPolicy[K, V]) OnAccess(e *Entry[K, V]) {
	p.inner.OnAccess(e)
}

// OnInsert never evicts for count alone; the caller (the facade) is
// expected to call EvictForWeight in a loop after every insert instead,
// since a single oversized entry may require evicting more than one
// victim to make room.
func (p *weightPolicy[K, V]) OnInsert(e *Entry[K, V]) (K, bool) {
	w := p.weigher(e.Key, e.Value)
	e.Weight = w
	if old, existed := p.weights[e.Key]; existed {
		p.totalWeight -= uint64(old)
	}
	p.weights[e.Key] = w
	p.totalWeight += uint64(w)
	p.inner.OnInsert(e)
	return zero[K](), false
}

func (p *weightPolicy[K, V]) OnRemove(e *Entry[K, V]) {
	if w, ok := p.weights[e.Key]; ok {
		p.totalWeight -= uint64(w)
		delete(p.weights, e.Key)
	}
	p.inner.OnRemove(e)
}

func (p *weightPolicy[K, V]) Candidate() (K, bool) {
	return p.inner.Candidate()
}

// OverWeight reports whether the tracked total exceeds maxWeight.
func (p *weightPolicy[K, V]) OverWeight() bool {
	return p.maxWeight > 0 && p.totalWeight > p.maxWeight
}

// EvictForWeight pops the inner policy's next victim and accounts for its
// removal, for the facade to call in a loop until OverWeight is false.
func (p *weightPolicy[K, V]) EvictForWeight() (K, bool) {
	key, ok := p.inner.Candidate()
	if !ok {
		return zero[K](), false
	}
	if w, ok2 := p.weights[key]; ok2 {
		p.totalWeight -= uint64(w)
		delete(p.weights, key)
	}
	p.inner.OnRemove(&Entry[K, V]{Key: key})
	return key, true
}
