package attendance

import (
	"context"
	"sync"

	"github.com/kozaktomas/classwatch/internal/store"
)

const defaultLookupCapacity = 500

// People caches student lookups by person reference so the hot
// recognition path does not hit the database for every frame a known
// face appears in. Unknown references are cached too. The lock is never
// held across store calls.
type People struct {
	src store.PeopleStore
	cap int

	mu      sync.Mutex
	entries map[string]*store.Student // nil value = known-missing
}

// NewPeople creates a lookup cache over the given store.
func NewPeople(src store.PeopleStore) *People {
	return &People{
		src:     src,
		cap:     defaultLookupCapacity,
		entries: make(map[string]*store.Student),
	}
}

// Student resolves a person reference, from cache when possible.
// Returns nil without error for an unknown reference.
func (p *People) Student(ctx context.Context, ref string) (*store.Student, error) {
	p.mu.Lock()
	if s, ok := p.entries[ref]; ok {
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s, err := p.src.GetStudentByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if len(p.entries) >= p.cap {
		// Full reset is fine; the working set is tiny compared to cap.
		p.entries = make(map[string]*store.Student)
	}
	p.entries[ref] = s
	p.mu.Unlock()

	return s, nil
}

// Invalidate drops all cached lookups, picking up roster changes.
func (p *People) Invalidate() {
	p.mu.Lock()
	p.entries = make(map[string]*store.Student)
	p.mu.Unlock()
}
