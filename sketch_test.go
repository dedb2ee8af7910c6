package corecache

import "testing"

func TestFrequencySketchRecordsAndEstimates(t *testing.T) {
	s := newFrequencySketch(1024, SketchBasic)

	key := uint64(0xdeadbeef)
	for i := 0; i < 5; i++ {
		s.record(key)
	}

	if got := s.frequency(key); got < 1 {
		t.Fatalf("expected frequency >= 1 after 5 records, got %d", got)
	}
}

func TestFrequencySketchSaturatesAtFifteen(t *testing.T) {
	s := newFrequencySketch(16, SketchBasic)
	key := uint64(42)

	for i := 0; i < 100; i++ {
		s.record(key)
	}

	if got := s.frequency(key); got != 15 {
		t.Fatalf("expected saturation at 15, got %d", got)
	}
}

func TestFrequencySketchAgesOnReset(t *testing.T) {
	s := newFrequencySketch(16, SketchBasic)
	key := uint64(7)

	for i := 0; i < 10; i++ {
		s.record(key)
	}
	before := s.frequency(key)

	for i := int64(0); i < s.resetThreshold+1; i++ {
		s.record(uint64(i))
	}

	after := s.frequency(key)
	if after > before {
		t.Fatalf("expected aging to not increase frequency: before=%d after=%d", before, after)
	}
}

func TestFrequencySketchDistinctKeysDontAlwaysCollide(t *testing.T) {
	s := newFrequencySketch(4096, SketchOptimized)
	for i := uint64(0); i < 1000; i++ {
		s.record(i)
	}

	zero := 0
	for i := uint64(0); i < 1000; i++ {
		if s.frequency(i) == 0 {
			zero++
		}
	}
	if zero > 500 {
		t.Fatalf("expected most of 1000 distinct keys to have recorded a hit, got %d zeros", zero)
	}
}

func TestNextPowerOf2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 16: 16, 17: 32}
	for in, want := range cases {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}
