// policy_idle.go: evict entries that have sat untouched past a
// configured idle limit, and otherwise fall back to evicting whichever
// tracked entry has been idle longest once over capacity.
package corecache

import (
	"container/list"
	"time"
)

// idleNode tracks, per key, the time of its last access as seen by this
// policy's own clock — not Entry.AccessNanos, since OnAccess/OnInsert are
// the only hooks the store gives a policy and their timestamp is what the
// idle-limit comparison must use.
type idleNode[K comparable] struct {
	key         K
	accessNanos int64
}

type idlePolicy[K comparable, V any] struct {
	maxEntries int
	idleLimit  time.Duration
	clock      Clock
	order      *list.List
	index      map[K]*list.Element
}

func newIdlePolicy[K comparable, V any](maxEntries int, idleLimit time.Duration, clock Clock) *idlePolicy[K, V] {
	return &idlePolicy[K, V]{
		maxEntries: maxEntries,
		idleLimit:  idleLimit,
		clock:      clock,
		order:      list.New(),
		index:      make(map[K]*list.Element, maxEntries),
	}
}

// OnAccess refreshes e's last-access time and moves it to the front, so
// the back of the list is always the least-recently-touched (most idle)
// entry.
func (p *idlePolicy[K, V]) OnAccess(e *Entry[K, V]) {
	if elem, ok := p.index[e.Key]; ok {
		elem.Value.(*idleNode[K]).accessNanos = p.clock.NowNanos()
		p.order.MoveToFront(elem)
	}
}

func (p *idlePolicy[K, V]) OnInsert(e *Entry[K, V]) (K, bool) {
	now := p.clock.NowNanos()
	if elem, ok := p.index[e.Key]; ok {
		elem.Value.(*idleNode[K]).accessNanos = now
		p.order.MoveToFront(elem)
		return zero[K](), false
	}
	elem := p.order.PushFront(&idleNode[K]{key: e.Key, accessNanos: now})
	p.index[e.Key] = elem

	if victim, ok := p.evictPastIdleLimit(); ok {
		return victim, true
	}
	if p.maxEntries > 0 && len(p.index) > p.maxEntries {
		return p.evictOldest()
	}
	return zero[K](), false
}

func (p *idlePolicy[K, V]) OnRemove(e *Entry[K, V]) {
	if elem, ok := p.index[e.Key]; ok {
		p.order.Remove(elem)
		delete(p.index, e.Key)
	}
}

// Candidate reports the least-recently-touched entry, but only once it has
// actually crossed idleLimit; with no limit configured, any tracked entry
// is a capacity-eviction candidate.
func (p *idlePolicy[K, V]) Candidate() (K, bool) {
	back := p.order.Back()
	if back == nil {
		return zero[K](), false
	}
	node := back.Value.(*idleNode[K])
	if p.idleLimit > 0 && !p.pastLimit(node.accessNanos) {
		return zero[K](), false
	}
	return node.key, true
}

func (p *idlePolicy[K, V]) pastLimit(accessNanos int64) bool {
	return p.clock.NowNanos()-accessNanos > int64(p.idleLimit)
}

// evictPastIdleLimit evicts the most idle entry if it has crossed
// idleLimit, regardless of capacity. With idleLimit unset, this never
// fires: idle-time eviction is then simply off, per no bound configured
// meaning no eviction on that axis.
func (p *idlePolicy[K, V]) evictPastIdleLimit() (K, bool) {
	if p.idleLimit <= 0 {
		return zero[K](), false
	}
	back := p.order.Back()
	if back == nil {
		return zero[K](), false
	}
	node := back.Value.(*idleNode[K])
	if !p.pastLimit(node.accessNanos) {
		return zero[K](), false
	}
	p.order.Remove(back)
	delete(p.index, node.key)
	return node.key, true
}

func (p *idlePolicy[K, V]) evictOldest() (K, bool) {
	back := p.order.Back()
	if back == nil {
		return zero[K](), false
	}
	node := back.Value.(*idleNode[K])
	p.order.Remove(back)
	delete(p.index, node.key)
	return node.key, true
}
