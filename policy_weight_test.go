package corecache

import "testing"

func TestWeightPolicyTracksTotalAndEvicts(t *testing.T) {
	inner := newLRUPolicy[string, int](0)
	weigher := func(key string, value int) uint32 { return uint32(value) }
	wp := newWeightPolicy[string, int](inner, weigher, 10)

	wp.OnInsert(&Entry[string, int]{Key: "a", Value: 4})
	wp.OnInsert(&Entry[string, int]{Key: "b", Value: 4})
	if wp.OverWeight() {
		t.Fatalf("expected not over weight at total 8/10")
	}

	wp.OnInsert(&Entry[string, int]{Key: "c", Value: 4})
	if !wp.OverWeight() {
		t.Fatalf("expected over weight at total 12/10")
	}

	victim, ok := wp.EvictForWeight()
	if !ok || victim != "a" {
		t.Fatalf("expected a (LRU order) evicted for weight, got victim=%q ok=%v", victim, ok)
	}
	if wp.OverWeight() {
		t.Fatalf("expected weight back under bound after evicting a: total should be 8")
	}
}
