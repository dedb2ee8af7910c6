// policy_lru.go: Least Recently Used eviction, generalized from
// agilira-metis's lru.go (a string-keyed container/list LRU) to an
// arbitrary comparable key type.
package corecache

import "container/list"

type lruPolicy[K comparable, V any] struct {
	maxEntries int
	order      *list.List
	index      map[K]*list.Element
}

func newLRUPolicy[K comparable, V any](maxEntries int) *lruPolicy[K, V] {
	return &lruPolicy[K, V]{
		maxEntries: maxEntries,
		order:      list.New(),
		index:      make(map[K]*list.Element, maxEntries),
	}
}

func (p *lruPolicy[K, V]) OnAccess(e *Entry[K, V]) {
	if elem, ok := p.index[e.Key]; ok {
		p.order.MoveToFront(elem)
	}
}

func (p *lruPolicy[K, V]) OnInsert(e *Entry[K, V]) (K, bool) {
	if elem, ok := p.index[e.Key]; ok {
		p.order.MoveToFront(elem)
		return zero[K](), false
	}
	elem := p.order.PushFront(e.Key)
	p.index[e.Key] = elem

	if p.maxEntries > 0 && len(p.index) > p.maxEntries {
		return p.evictOldest()
	}
	return zero[K](), false
}

func (p *lruPolicy[K, V]) OnRemove(e *Entry[K, V]) {
	if elem, ok := p.index[e.Key]; ok {
		p.order.Remove(elem)
		delete(p.index, e.Key)
	}
}

func (p *lruPolicy[K, V]) Candidate() (K, bool) {
	back := p.order.Back()
	if back == nil {
		return zero[K](), false
	}
	return back.Value.(K), true
}

func (p *lruPolicy[K, V]) evictOldest() (K, bool) {
	back := p.order.Back()
	if back == nil {
		return zero[K](), false
	}
	key := back.Value.(K)
	p.order.Remove(back)
	delete(p.index, key)
	return key, true
}

func zero[K any]() K {
	var z K
	return z
}
