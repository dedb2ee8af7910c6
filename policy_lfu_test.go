package corecache

import "testing"

func TestLFUPolicyEvictsLeastFrequentlyUsed(t *testing.T) {
	p := newLFUPolicy[string, int](2)

	p.OnInsert(&Entry[string, int]{Key: "a"})
	p.OnInsert(&Entry[string, int]{Key: "b"})

	// Access "a" a few times so its frequency overtakes "b".
	p.OnAccess(&Entry[string, int]{Key: "a"})
	p.OnAccess(&Entry[string, int]{Key: "a"})

	victim, evicted := p.OnInsert(&Entry[string, int]{Key: "c"})
	if !evicted || victim != "b" {
		t.Fatalf("expected b (lower frequency) evicted, got victim=%q evicted=%v", victim, evicted)
	}
}

func TestLFUPolicyRemoveClearsBucket(t *testing.T) {
	p := newLFUPolicy[string, int](4)
	e := &Entry[string, int]{Key: "a"}
	p.OnInsert(e)
	p.OnRemove(e)

	if _, ok := p.Candidate(); ok {
		t.Fatal("expected no candidate after the only entry is removed")
	}
}
