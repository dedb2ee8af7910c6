// sketch.go: 4-bit Count-Min frequency sketch with periodic aging, used by
// the TinyLFU policy, which records every access and insert into it and
// reads it for admission decisions.
//
// Grounded in agilira-balios's sketch.go (lock-free packed 4-bit counters,
// CAS-based increments, golden-ratio hash seeds) and generalized so width
// is always a power of two with depth 4 and reset_threshold = 10*width,
// sized directly from the configured entry count rather than a fixed
// default.
package corecache

import "sync/atomic"

// frequencySketch is a lock-free, allocation-free Count-Min sketch with
// 4-bit saturating counters packed 16-to-a-word.
type frequencySketch struct {
	table          []uint64
	tableMask      uint64
	seed1, seed2, seed3, seed4 uint64
	sampleCount    atomic.Int64
	resetThreshold int64
}

// SketchSize selects the CM-sketch width for a given admission policy
// level, per Config.FrequencySketch ("none" / "basic" / "optimized").
type SketchSize int

const (
	SketchNone SketchSize = iota
	SketchBasic
	SketchOptimized
)

// newFrequencySketch builds a sketch sized for roughly expectedEntries
// distinct keys. "basic" uses width == nextPow2(expectedEntries); the
// "optimized" level uses 4x the width for a lower false-positive rate at
// the cost of more memory; see Config.FrequencySketch.
func newFrequencySketch(expectedEntries int, level SketchSize) *frequencySketch {
	if expectedEntries < 1 {
		expectedEntries = 1
	}
	width := nextPowerOf2(expectedEntries)
	if level == SketchOptimized {
		width = nextPowerOf2(expectedEntries * 4)
	}
	// Each uint64 word packs 16 four-bit counters.
	words := width / 16
	if words < 4 {
		words = 4
	}

	return &frequencySketch{
		table:          make([]uint64, words),
		tableMask:      uint64(words - 1),
		seed1:          0x9e3779b97f4a7c15,
		seed2:          0xbf58476d1ce4e5b9,
		seed3:          0x94d049bb133111eb,
		seed4:          0xff51afd7ed558ccd,
		resetThreshold: int64(words*16) * 10,
	}
}

// record increments the four counters associated with keyHash, saturating
// each at 15, and triggers an aging pass once resetThreshold samples have
// accumulated.
func (s *frequencySketch) record(keyHash uint64) {
	if s == nil {
		return
	}
	if s.sampleCount.Add(1) >= s.resetThreshold {
		s.age()
	}

	s.incrementAt(s.index(keyHash, s.seed1), s.subIndex(keyHash, 0))
	s.incrementAt(s.index(keyHash, s.seed2), s.subIndex(keyHash, 1))
	s.incrementAt(s.index(keyHash, s.seed3), s.subIndex(keyHash, 2))
	s.incrementAt(s.index(keyHash, s.seed4), s.subIndex(keyHash, 3))
}

// frequency returns the estimated access count for keyHash: the minimum of
// its four counters (the Count-Min Sketch property — collisions only bias
// the estimate up).
func (s *frequencySketch) frequency(keyHash uint64) uint8 {
	if s == nil {
		return 0
	}
	c1 := s.counterAt(s.index(keyHash, s.seed1), s.subIndex(keyHash, 0))
	c2 := s.counterAt(s.index(keyHash, s.seed2), s.subIndex(keyHash, 1))
	c3 := s.counterAt(s.index(keyHash, s.seed3), s.subIndex(keyHash, 2))
	c4 := s.counterAt(s.index(keyHash, s.seed4), s.subIndex(keyHash, 3))

	min := c1
	if c2 < min {
		min = c2
	}
	if c3 < min {
		min = c3
	}
	if c4 < min {
		min = c4
	}
	return min
}

func (s *frequencySketch) index(keyHash, seed uint64) uint64 {
	return ((keyHash ^ seed) * 0x9e3779b97f4a7c15) & s.tableMask
}

// subIndex picks which of the 16 four-bit slots within a word this hash
// function uses, independent from which word (index) it lands in.
func (s *frequencySketch) subIndex(keyHash uint64, which int) uint64 {
	return ((keyHash >> (which * 4)) & 0xF) * 4
}

func (s *frequencySketch) incrementAt(word, shift uint64) {
	for {
		old := atomic.LoadUint64(&s.table[word])
		cur := (old >> shift) & 0xF
		if cur >= 15 {
			return
		}
		updated := (old &^ (uint64(0xF) << shift)) | ((cur + 1) << shift)
		if atomic.CompareAndSwapUint64(&s.table[word], old, updated) {
			return
		}
	}
}

func (s *frequencySketch) counterAt(word, shift uint64) uint8 {
	return uint8((atomic.LoadUint64(&s.table[word]) >> shift) & 0xF)
}

// age halves every counter once the sample count reaches the reset
// threshold, providing exponential decay of historical frequency.
func (s *frequencySketch) age() {
	for i := range s.table {
		for {
			old := atomic.LoadUint64(&s.table[i])
			var next uint64
			for shift := uint64(0); shift < 64; shift += 4 {
				c := (old >> shift) & 0xF
				next |= (c >> 1) << shift
			}
			if atomic.CompareAndSwapUint64(&s.table[i], old, next) {
				break
			}
		}
	}
	s.sampleCount.Store(0)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
