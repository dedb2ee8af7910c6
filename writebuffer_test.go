package corecache

import (
	"sync"
	"testing"
	"time"
)

func TestWriteBufferAppliesSubmittedOp(t *testing.T) {
	var mu sync.Mutex
	var applied []writeOp[string, int]
	b := newWriteBuffer[string, int](8, func(op writeOp[string, int]) {
		mu.Lock()
		applied = append(applied, op)
		mu.Unlock()
	})
	defer b.stop()

	b.submit(writeOp[string, int]{kind: writeOpPut, key: "a", value: 1})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1
	})
}

func TestWriteBufferCoalescesSameKeyWrites(t *testing.T) {
	var mu sync.Mutex
	var applied []writeOp[string, int]
	gate := make(chan struct{})
	b := newWriteBuffer[string, int](8, func(op writeOp[string, int]) {
		<-gate
		mu.Lock()
		applied = append(applied, op)
		mu.Unlock()
	})
	defer b.stop()

	b.submit(writeOp[string, int]{kind: writeOpPut, key: "a", value: 1})
	b.submit(writeOp[string, int]{kind: writeOpPut, key: "a", value: 2})
	b.submit(writeOp[string, int]{kind: writeOpPut, key: "a", value: 3})
	close(gate)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if applied[0].value != 3 {
		t.Fatalf("expected coalesced write to keep the last value, got %d", applied[0].value)
	}
}

func TestWriteBufferAppliesSynchronouslyWhenFull(t *testing.T) {
	var mu sync.Mutex
	var applied []string
	b := newWriteBuffer[string, int](1, func(op writeOp[string, int]) {
		mu.Lock()
		applied = append(applied, op.key)
		mu.Unlock()
	})
	defer b.stop()

	// Simulate a saturated buffer directly: one distinct key already
	// queued, at the configured capacity of 1.
	b.mu.Lock()
	b.pending["a"] = writeOp[string, int]{kind: writeOpPut, key: "a", value: 1}
	b.order = append(b.order, "a")
	b.mu.Unlock()

	// A second, distinct key has no room in the queue and must be applied
	// synchronously by submit itself rather than dropped.
	b.submit(writeOp[string, int]{kind: writeOpPut, key: "b", value: 2})

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != "b" {
		t.Fatalf("expected b applied synchronously, got %v", applied)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
