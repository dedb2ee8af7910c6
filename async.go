// async.go: asynchronous variants of the synchronous Cache methods. Each
// runs the synchronous method on a caller-supplied executor and reports
// its result over a channel — no bespoke future type, so callers that
// already have a worker pool or goroutine budget reuse it instead of
// corecache spawning its own goroutines.
package corecache

import "context"

// Executor runs fn, typically on a separate goroutine. The async methods
// treat a nil Executor as DefaultExecutor, which runs fn on a new
// goroutine.
type Executor func(fn func())

// DefaultExecutor runs fn on a freshly spawned goroutine.
func DefaultExecutor(fn func()) { go fn() }

// GetResult is delivered by GetAsync.
type GetResult[V any] struct {
	Value V
	Found bool
}

// GetAsync runs Get on executor (DefaultExecutor if nil) and returns a
// channel that receives exactly one GetResult.
func (c *Cache[K, V]) GetAsync(key K, executor Executor) <-chan GetResult[V] {
	if executor == nil {
		executor = DefaultExecutor
	}
	out := make(chan GetResult[V], 1)
	executor(func() {
		v, ok := c.Get(key)
		out <- GetResult[V]{Value: v, Found: ok}
	})
	return out
}

// PutAsync runs Put on executor and returns a channel that receives
// exactly one error (nil on success).
func (c *Cache[K, V]) PutAsync(key K, value V, executor Executor) <-chan error {
	if executor == nil {
		executor = DefaultExecutor
	}
	out := make(chan error, 1)
	executor(func() {
		out <- c.Put(key, value)
	})
	return out
}

// RemoveAsync runs Remove on executor and returns a channel that
// receives exactly one bool.
func (c *Cache[K, V]) RemoveAsync(key K, executor Executor) <-chan bool {
	if executor == nil {
		executor = DefaultExecutor
	}
	out := make(chan bool, 1)
	executor(func() {
		out <- c.Remove(key)
	})
	return out
}

// LoadResult is delivered by GetOrLoadAsync.
type LoadResult[V any] struct {
	Value V
	Err   error
}

// GetOrLoadAsync runs GetOrLoad on executor and returns a channel that
// receives exactly one LoadResult.
func (c *Cache[K, V]) GetOrLoadAsync(ctx context.Context, key K, executor Executor) <-chan LoadResult[V] {
	if executor == nil {
		executor = DefaultExecutor
	}
	out := make(chan LoadResult[V], 1)
	executor(func() {
		v, err := c.GetOrLoad(ctx, key)
		out <- LoadResult[V]{Value: v, Err: err}
	})
	return out
}
