package corecache

import "testing"

// testHash is a small deterministic string hash, independent of the real
// maphash-backed store, used only to drive the sketch in these tests.
func testHash(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func TestTinyLFUPolicyAdmitsNewWindowEntries(t *testing.T) {
	sketch := newFrequencySketch(64, SketchBasic)
	p := newTinyLFUPolicy[string, int](3, sketch, testHash)

	if _, evicted := p.OnInsert(&Entry[string, int]{Key: "a"}); evicted {
		t.Fatal("unexpected eviction on first insert")
	}
	if _, evicted := p.OnInsert(&Entry[string, int]{Key: "b"}); evicted {
		t.Fatal("unexpected eviction inserting b while a moves into free main space")
	}
}

func TestTinyLFUPolicyAdmissionFavorsHigherFrequencyCandidate(t *testing.T) {
	sketch := newFrequencySketch(64, SketchBasic)
	p := newTinyLFUPolicy[string, int](3, sketch, testHash)

	p.OnInsert(&Entry[string, int]{Key: "a"})
	p.OnInsert(&Entry[string, int]{Key: "b"})
	p.OnInsert(&Entry[string, int]{Key: "c"})
	// main cache (probation+protected) is now at its 2-slot capacity.

	// Make "d" far more frequent than every incumbent before it leaves
	// the window and runs the admission contest.
	for i := 0; i < 20; i++ {
		sketch.record(testHash("d"))
	}

	// Inserting d pushes c out of the window; inserting f then pushes d
	// out, so d is the candidate in that second contest.
	p.OnInsert(&Entry[string, int]{Key: "d"})
	victim, evicted := p.OnInsert(&Entry[string, int]{Key: "f"})
	if !evicted {
		t.Fatal("expected an eviction once the cache is full")
	}
	if victim == "d" {
		t.Fatal("expected the high-frequency candidate to win admission, not be evicted itself")
	}
}

func TestTinyLFUPolicyAdmissionRejectsLowFrequencyCandidate(t *testing.T) {
	sketch := newFrequencySketch(64, SketchBasic)
	p := newTinyLFUPolicy[string, int](3, sketch, testHash)

	p.OnInsert(&Entry[string, int]{Key: "a"})
	p.OnInsert(&Entry[string, int]{Key: "b"})
	p.OnInsert(&Entry[string, int]{Key: "c"})

	// Boost every incumbent's frequency heavily; "e" stays cold.
	for _, k := range []string{"a", "b", "c"} {
		for i := 0; i < 20; i++ {
			sketch.record(testHash(k))
		}
	}

	// Inserting e pushes c out of the window; inserting f then pushes the
	// cold e out, so e is the candidate in that second contest.
	p.OnInsert(&Entry[string, int]{Key: "e"})
	victim, evicted := p.OnInsert(&Entry[string, int]{Key: "f"})
	if !evicted {
		t.Fatal("expected an eviction once the cache is full")
	}
	if victim != "e" {
		t.Fatalf("expected the cold candidate e to lose admission, got victim=%q", victim)
	}
}

func TestTinyLFUPolicyPromotesOnRepeatedAccess(t *testing.T) {
	sketch := newFrequencySketch(64, SketchBasic)
	p := newTinyLFUPolicy[string, int](10, sketch, testHash)

	p.OnInsert(&Entry[string, int]{Key: "a"})
	// Force "a" out of the window into probation.
	for i := 0; i < 3; i++ {
		p.OnInsert(&Entry[string, int]{Key: "pad"})
	}

	loc, ok := p.location["a"]
	if !ok {
		t.Fatal("expected a to still be tracked")
	}
	if loc.Value.(*tinyLFUNode[string]).segment == segWindow {
		t.Skip("a is still in the window under this sizing; promotion path not reached")
	}

	p.OnAccess(&Entry[string, int]{Key: "a"})
	node := p.location["a"].Value.(*tinyLFUNode[string])
	if node.segment != segProtected {
		t.Fatalf("expected a promoted to protected after probation hit, got segment=%v", node.segment)
	}
}
