package corecache

import (
	"context"
	"testing"
)

func TestCacheGetAsyncUsesDefaultExecutor(t *testing.T) {
	c := newTestCache(t, nil)
	c.Put("a", 1)

	res := <-c.GetAsync("a", nil)
	if !res.Found || res.Value != 1 {
		t.Fatalf("GetAsync: %+v", res)
	}
}

func TestCachePutAsyncRunsOnSuppliedExecutor(t *testing.T) {
	c := newTestCache(t, nil)
	var ran bool
	executor := func(fn func()) {
		ran = true
		fn()
	}

	if err := <-c.PutAsync("a", 1, executor); err != nil {
		t.Fatalf("PutAsync: %v", err)
	}
	if !ran {
		t.Fatal("expected the supplied executor to run the work")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1 after PutAsync, got v=%d ok=%v", v, ok)
	}
}

func TestCacheGetOrLoadAsyncDeliversLoaderResult(t *testing.T) {
	c := newTestCache(t, nil)
	c.SetLoader(func(ctx context.Context, key string) (int, error) {
		return 7, nil
	})

	res := <-c.GetOrLoadAsync(context.Background(), "k", nil)
	if res.Err != nil || res.Value != 7 {
		t.Fatalf("GetOrLoadAsync: %+v", res)
	}
}

func TestCacheRemoveAsyncReportsPresence(t *testing.T) {
	c := newTestCache(t, nil)
	c.Put("a", 1)

	if ok := <-c.RemoveAsync("a", nil); !ok {
		t.Fatal("expected RemoveAsync to report the key was present")
	}
	if ok := <-c.RemoveAsync("a", nil); ok {
		t.Fatal("expected RemoveAsync to report the key no longer present")
	}
}
