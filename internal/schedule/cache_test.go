package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	calls   int
}

func (f *fakeSource) ListForDay(_ context.Context, day time.Weekday) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []Entry
	for _, e := range f.entries {
		if e.Weekday == day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestCache(src Source) (*Cache, *time.Time) {
	c := NewCache(src, testTiming, 30*time.Second)
	now := at(9, 0)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheMemoizesWithinInterval(t *testing.T) {
	src := &fakeSource{entries: []Entry{mondayEntry("s1", 9*60, 10*60+30)}}
	cache, clock := newTestCache(src)

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		w := cache.Current(ctx)
		if w == nil || w.SectionID != "s1" {
			t.Fatalf("call %d: expected s1 window, got %+v", i, w)
		}
	}
	if src.callCount() != 1 {
		t.Errorf("source called %d times within interval; want 1", src.callCount())
	}

	*clock = clock.Add(31 * time.Second)
	cache.Current(ctx)
	if src.callCount() != 2 {
		t.Errorf("source called %d times after interval; want 2", src.callCount())
	}
}

func TestCacheCachesAbsentWindow(t *testing.T) {
	src := &fakeSource{} // no schedules at all
	cache, _ := newTestCache(src)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if w := cache.Current(ctx); w != nil {
			t.Fatalf("expected nil window, got %+v", w)
		}
	}
	if src.callCount() != 1 {
		t.Errorf("nil result not cached: %d source calls", src.callCount())
	}
}

func TestCacheKeepsLastWindowOnError(t *testing.T) {
	src := &fakeSource{entries: []Entry{mondayEntry("s1", 9*60, 10*60+30)}}
	cache, clock := newTestCache(src)
	ctx := context.Background()

	if w := cache.Current(ctx); w == nil {
		t.Fatal("expected initial window")
	}

	src.mu.Lock()
	src.err = errors.New("schedule source unreachable")
	src.mu.Unlock()

	*clock = clock.Add(time.Minute)
	w := cache.Current(ctx)
	if w == nil || w.SectionID != "s1" {
		t.Errorf("refresh failure dropped the last window: %+v", w)
	}
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{entries: []Entry{mondayEntry("s1", 9*60, 10*60+30)}}
	cache, _ := newTestCache(src)
	ctx := context.Background()

	cache.Current(ctx)
	cache.Current(ctx)
	if src.callCount() != 1 {
		t.Fatalf("unexpected call count %d", src.callCount())
	}

	cache.Invalidate()
	cache.Current(ctx)
	if src.callCount() != 2 {
		t.Errorf("Invalidate did not force a refresh: %d calls", src.callCount())
	}
}

func TestCacheConcurrentReaders(t *testing.T) {
	src := &fakeSource{entries: []Entry{mondayEntry("s1", 9*60, 10*60+30)}}
	cache, _ := newTestCache(src)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				w := cache.Current(ctx)
				if w != nil && w.SectionID != "s1" {
					t.Errorf("observed torn window: %+v", w)
					return
				}
			}
		}()
	}
	wg.Wait()
}
