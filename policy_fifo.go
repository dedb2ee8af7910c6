// policy_fifo.go: insertion-order eviction. filo reverses which end is
// sacrificed; both share one doubly-linked queue.
package corecache

import "container/list"

type fifoPolicy[K comparable, V any] struct {
	maxEntries int
	order      *list.List
	index      map[K]*list.Element
	last       bool // true selects FILO (most recently inserted is victim)
}

func newFIFOPolicy[K comparable, V any](maxEntries int, last bool) *fifoPolicy[K, V] {
	return &fifoPolicy[K, V]{
		maxEntries: maxEntries,
		order:      list.New(),
		index:      make(map[K]*list.Element, maxEntries),
		last:       last,
	}
}

// OnAccess is a no-op: FIFO/FILO order reflects insertion time only.
func (p *fifoPolicy[K, V]) OnAccess(*Entry[K, V]) {}

func (p *fifoPolicy[K, V]) OnInsert(e *Entry[K, V]) (K, bool) {
	if _, ok := p.index[e.Key]; ok {
		return zero[K](), false
	}
	elem := p.order.PushFront(e.Key)
	p.index[e.Key] = elem

	if p.maxEntries > 0 && len(p.index) > p.maxEntries {
		return p.evict()
	}
	return zero[K](), false
}

func (p *fifoPolicy[K, V]) OnRemove(e *Entry[K, V]) {
	if elem, ok := p.index[e.Key]; ok {
		p.order.Remove(elem)
		delete(p.index, e.Key)
	}
}

func (p *fifoPolicy[K, V]) Candidate() (K, bool) {
	elem := p.victimElement()
	if elem == nil {
		return zero[K](), false
	}
	return elem.Value.(K), true
}

func (p *fifoPolicy[K, V]) victimElement() *list.Element {
	if p.last {
		return p.order.Front()
	}
	return p.order.Back()
}

func (p *fifoPolicy[K, V]) evict() (K, bool) {
	elem := p.victimElement()
	if elem == nil {
		return zero[K](), false
	}
	key := elem.Value.(K)
	p.order.Remove(elem)
	delete(p.index, key)
	return key, true
}
