// policy_tinylfu.go: W-TinyLFU (window + Segmented LRU main cache, admission
// via a shared Count-Min frequency sketch).
//
// Grounded in agilira-metis's wtinylfu.go (WTinyLFUShard's windowCache/
// mainCache/admissionFilter split, FastSLRU's probation/protected
// promotion), generalized in two ways: the admission sketch is a single
// frequencySketch shared by the whole cache rather than one private
// sketch per shard, and once the main cache is full the window's
// evictee competes against probation's LRU victim (while the main cache
// has room, the evictee is admitted into probation directly).
package corecache

import "container/list"

type tinyLFUSegment int

const (
	segWindow tinyLFUSegment = iota
	segProbation
	segProtected
)

type tinyLFUNode[K comparable] struct {
	key     K
	segment tinyLFUSegment
}

type tinyLFUPolicy[K comparable, V any] struct {
	sketch *frequencySketch
	hashOf func(K) uint64

	windowMax    int
	probationMax int
	protectedMax int

	window    *list.List
	probation *list.List
	protected *list.List

	location map[K]*list.Element
}

func newTinyLFUPolicy[K comparable, V any](maxEntries int, sketch *frequencySketch, hashOf func(K) uint64) *tinyLFUPolicy[K, V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	windowMax := maxEntries / 100
	if windowMax < 1 {
		windowMax = 1
	}
	mainMax := maxEntries - windowMax
	if mainMax < 1 {
		mainMax = 1
	}
	protectedMax := int(float64(mainMax) * 0.8)
	probationMax := mainMax - protectedMax

	return &tinyLFUPolicy[K, V]{
		sketch:       sketch,
		hashOf:       hashOf,
		windowMax:    windowMax,
		probationMax: probationMax,
		protectedMax: protectedMax,
		window:       list.New(),
		probation:    list.New(),
		protected:    list.New(),
		location:     make(map[K]*list.Element, maxEntries),
	}
}

func (p *tinyLFUPolicy[K, V]) listFor(seg tinyLFUSegment) *list.List {
	switch seg {
	case segWindow:
		return p.window
	case segProtected:
		return p.protected
	default:
		return p.probation
	}
}

func (p *tinyLFUPolicy[K, V]) OnAccess(e *Entry[K, V]) {
	p.sketch.record(p.hashOf(e.Key))

	elem, ok := p.location[e.Key]
	if !ok {
		return
	}
	node := elem.Value.(*tinyLFUNode[K])

	switch node.segment {
	case segWindow:
		p.window.MoveToFront(elem)
	case segProbation:
		p.probation.Remove(elem)
		node.segment = segProtected
		p.location[e.Key] = p.protected.PushFront(node)
		e.InWindowSegment = false
		p.demoteProtectedOverflow()
	case segProtected:
		p.protected.MoveToFront(elem)
	}
}

// demoteProtectedOverflow moves the protected segment's LRU entry back to
// probation when promotion pushed protected over its share. This is an
// internal reshuffle, not an eviction: nothing leaves the cache.
func (p *tinyLFUPolicy[K, V]) demoteProtectedOverflow() {
	if p.protectedMax <= 0 || p.protected.Len() <= p.protectedMax {
		return
	}
	back := p.protected.Back()
	node := back.Value.(*tinyLFUNode[K])
	p.protected.Remove(back)
	node.segment = segProbation
	p.location[node.key] = p.probation.PushFront(node)
}

func (p *tinyLFUPolicy[K, V]) OnInsert(e *Entry[K, V]) (K, bool) {
	p.sketch.record(p.hashOf(e.Key))

	if elem, ok := p.location[e.Key]; ok {
		node := elem.Value.(*tinyLFUNode[K])
		p.listFor(node.segment).MoveToFront(elem)
		return zero[K](), false
	}

	node := &tinyLFUNode[K]{key: e.Key, segment: segWindow}
	p.location[e.Key] = p.window.PushFront(node)
	e.InWindowSegment = true

	if p.window.Len() <= p.windowMax {
		return zero[K](), false
	}
	return p.admitFromWindow()
}

// admitFromWindow pops the window's LRU candidate and either slots it into
// probation directly (main cache has room) or runs the admission contest
// against probation's own LRU victim, evicting whichever the sketch favors.
func (p *tinyLFUPolicy[K, V]) admitFromWindow() (K, bool) {
	back := p.window.Back()
	if back == nil {
		return zero[K](), false
	}
	candidate := back.Value.(*tinyLFUNode[K])
	p.window.Remove(back)
	delete(p.location, candidate.key)

	if p.probation.Len()+p.protected.Len() < p.probationMax+p.protectedMax {
		candidate.segment = segProbation
		p.location[candidate.key] = p.probation.PushFront(candidate)
		return zero[K](), false
	}

	probationBack := p.probation.Back()
	if probationBack == nil {
		// No probation victim to contest; admit unconditionally.
		candidate.segment = segProbation
		p.location[candidate.key] = p.probation.PushFront(candidate)
		return zero[K](), false
	}
	victim := probationBack.Value.(*tinyLFUNode[K])

	candidateFreq := p.sketch.frequency(p.hashOf(candidate.key))
	victimFreq := p.sketch.frequency(p.hashOf(victim.key))

	if candidateFreq >= victimFreq {
		p.probation.Remove(probationBack)
		delete(p.location, victim.key)
		candidate.segment = segProbation
		p.location[candidate.key] = p.probation.PushFront(candidate)
		return victim.key, true
	}

	// Candidate strictly loses the admission contest (ties were already
	// resolved above in the candidate's favor), so it is evicted and the
	// incumbent stays.
	return candidate.key, true
}

func (p *tinyLFUPolicy[K, V]) OnRemove(e *Entry[K, V]) {
	elem, ok := p.location[e.Key]
	if !ok {
		return
	}
	node := elem.Value.(*tinyLFUNode[K])
	p.listFor(node.segment).Remove(elem)
	delete(p.location, e.Key)
}

// Candidate reports the window's LRU entry as the next eviction candidate
// without mutating state; actual admission decisions happen in OnInsert,
// where the sketch comparison is available.
func (p *tinyLFUPolicy[K, V]) Candidate() (K, bool) {
	if back := p.window.Back(); back != nil {
		return back.Value.(*tinyLFUNode[K]).key, true
	}
	if back := p.probation.Back(); back != nil {
		return back.Value.(*tinyLFUNode[K]).key, true
	}
	if back := p.protected.Back(); back != nil {
		return back.Value.(*tinyLFUNode[K]).key, true
	}
	return zero[K](), false
}
