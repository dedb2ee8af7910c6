package corecache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleflightGroupDeduplicatesConcurrentLoads(t *testing.T) {
	g := newSingleflightGroup[string, int]()
	var calls atomic.Int64
	start := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		<-start
		calls.Add(1)
		return 42, nil
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]int, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := g.do(context.Background(), "k", fn)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected loader invoked exactly once, got %d", got)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("result[%d] = %d, want 42", i, v)
		}
	}
}

func TestSingleflightGroupPropagatesLoaderError(t *testing.T) {
	g := newSingleflightGroup[string, int]()
	wantErr := errors.New("boom")

	_, err := g.do(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestSingleflightGroupRecoversLoaderPanic(t *testing.T) {
	g := newSingleflightGroup[string, int]()

	_, err := g.do(context.Background(), "k", func(ctx context.Context) (int, error) {
		panic("loader exploded")
	})
	if err == nil {
		t.Fatal("expected an error recovered from the loader panic")
	}
}

func TestSingleflightGroupAllowsSequentialCallsForSameKey(t *testing.T) {
	g := newSingleflightGroup[string, int]()

	v1, err := g.do(context.Background(), "k", func(ctx context.Context) (int, error) { return 1, nil })
	if err != nil || v1 != 1 {
		t.Fatalf("first call: v=%d err=%v", v1, err)
	}
	v2, err := g.do(context.Background(), "k", func(ctx context.Context) (int, error) { return 2, nil })
	if err != nil || v2 != 2 {
		t.Fatalf("second call: v=%d err=%v", v2, err)
	}
}
