package schedule

import (
	"context"
	"log"
	"sync"
	"time"
)

// Source supplies the schedule entries for a weekday. Implemented by the
// store; read-only from this package's perspective.
type Source interface {
	ListForDay(ctx context.Context, day time.Weekday) ([]Entry, error)
}

// Cache memoizes the resolved attendance window so the per-frame callers
// do not hit the schedule source on every frame. A refresh re-fetches
// entries and re-resolves only after the configured interval has
// elapsed; in between, every caller gets the last published value,
// including nil. Refresh failures keep the last known window.
type Cache struct {
	src      Source
	timing   Timing
	interval time.Duration
	now      func() time.Time // injected in tests

	mu          sync.Mutex
	window      *Window
	refreshedAt time.Time
	refreshing  bool
}

func NewCache(src Source, timing Timing, interval time.Duration) *Cache {
	return &Cache{
		src:      src,
		timing:   timing,
		interval: interval,
		now:      time.Now,
	}
}

// Current returns the active attendance window, or nil when none is
// open. Safe for any number of concurrent callers. The schedule source
// is never called with the cache lock held.
func (c *Cache) Current(ctx context.Context) *Window {
	now := c.now()

	c.mu.Lock()
	if c.refreshing || now.Sub(c.refreshedAt) < c.interval {
		w := c.window
		c.mu.Unlock()
		return w
	}
	c.refreshing = true
	c.mu.Unlock()

	window, ok := c.resolve(ctx, now)

	c.mu.Lock()
	c.refreshing = false
	c.refreshedAt = now
	if ok {
		c.window = window
	}
	w := c.window
	c.mu.Unlock()
	return w
}

// Invalidate forces the next Current call to refresh.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.refreshedAt = time.Time{}
	c.mu.Unlock()
}

// resolve fetches today's entries and runs the resolver. The second
// return value is false when the source failed and the last known
// window should be kept.
func (c *Cache) resolve(ctx context.Context, now time.Time) (*Window, bool) {
	entries, err := c.src.ListForDay(ctx, now.Weekday())
	if err != nil {
		log.Printf("schedule: refresh failed, keeping last window: %v", err)
		return nil, false
	}

	for _, e := range entries {
		if Degenerate(e, c.timing) {
			log.Printf("schedule: section %s has a degenerate window (start %s, end %s), ignoring",
				e.SectionID, FormatMinute(e.StartMinute), FormatMinute(e.EndMinute))
		}
	}

	return Resolve(now, entries, c.timing), true
}
