// clock.go: monotonic time source for recency and expiration bookkeeping.
package corecache

import (
	"sync/atomic"

	timecache "github.com/agilira/go-timecache"
)

// Clock provides the current time in nanoseconds. It is injected so tests
// can control recency/expiration deterministically without sleeping.
type Clock interface {
	NowNanos() int64
}

// cachedClock uses go-timecache's background-refreshed clock, avoiding a
// syscall on every access/write in the hot path.
type cachedClock struct{}

func (cachedClock) NowNanos() int64 { return timecache.CachedTimeNano() }

// DefaultClock is the clock used when a Config does not supply one.
var DefaultClock Clock = cachedClock{}

// manualClock is a test double that only advances when told to.
type manualClock struct {
	nanos atomic.Int64
}

// NewManualClock returns a Clock starting at the given nanosecond value,
// useful for deterministic expiration tests.
func NewManualClock(startNanos int64) *manualClockHandle {
	c := &manualClock{}
	c.nanos.Store(startNanos)
	return &manualClockHandle{c: c}
}

// manualClockHandle exposes both the Clock and the ability to advance it.
type manualClockHandle struct{ c *manualClock }

func (h *manualClockHandle) Clock() Clock { return h.c }

func (h *manualClockHandle) Advance(deltaNanos int64) {
	h.c.nanos.Add(deltaNanos)
}

func (c *manualClock) NowNanos() int64 { return c.nanos.Load() }
