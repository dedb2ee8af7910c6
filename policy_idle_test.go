package corecache

import "testing"

func TestIdlePolicyEvictsMostIdleEntry(t *testing.T) {
	clock := NewManualClock(0)
	p := newIdlePolicy[string, int](2, 0, clock.Clock())

	p.OnInsert(&Entry[string, int]{Key: "a"})
	p.OnInsert(&Entry[string, int]{Key: "b"})

	clock.Advance(1000)
	p.OnAccess(&Entry[string, int]{Key: "b"})

	victim, evicted := p.OnInsert(&Entry[string, int]{Key: "c"})
	if !evicted || victim != "a" {
		t.Fatalf("expected a (never re-touched) evicted as most idle, got victim=%q evicted=%v", victim, evicted)
	}
}

func TestIdlePolicyCandidateRespectsIdleLimit(t *testing.T) {
	clock := NewManualClock(0)
	p := newIdlePolicy[string, int](0, 100, clock.Clock())

	p.OnInsert(&Entry[string, int]{Key: "a"})
	if _, ok := p.Candidate(); ok {
		t.Fatal("expected no candidate before the idle limit elapses")
	}

	clock.Advance(101)
	victim, ok := p.Candidate()
	if !ok || victim != "a" {
		t.Fatalf("expected a past the idle limit, got victim=%q ok=%v", victim, ok)
	}
}

func TestIdlePolicyOnInsertEvictsPastIdleLimitRegardlessOfCapacity(t *testing.T) {
	clock := NewManualClock(0)
	p := newIdlePolicy[string, int](10, 50, clock.Clock())

	p.OnInsert(&Entry[string, int]{Key: "a"})
	clock.Advance(51)

	victim, evicted := p.OnInsert(&Entry[string, int]{Key: "b"})
	if !evicted || victim != "a" {
		t.Fatalf("expected a evicted for exceeding the idle limit, got victim=%q evicted=%v", victim, evicted)
	}
}
