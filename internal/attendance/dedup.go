// Package attendance turns recognized people into persisted attendance
// records, writing each (person, section, day) fact at most once.
package attendance

import "sync"

// Dedup remembers which people were already handled per section on the
// current day. It resets itself when the day changes, so a long-running
// process starts every day with an empty set.
type Dedup struct {
	mu   sync.Mutex
	day  string // YYYY-MM-DD
	seen map[string]map[string]struct{}
}

// NewDedup creates an empty dedup set.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]map[string]struct{})}
}

// rollover resets the set when day differs from the tracked one.
// Caller must hold mu.
func (d *Dedup) rollover(day string) {
	if d.day != day {
		d.day = day
		d.seen = make(map[string]map[string]struct{})
	}
}

// Seen reports whether the person was already handled for the section
// on the given day.
func (d *Dedup) Seen(day, sectionID, personRef string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollover(day)
	_, ok := d.seen[sectionID][personRef]
	return ok
}

// Mark records that the person was handled for the section on the
// given day.
func (d *Dedup) Mark(day, sectionID, personRef string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollover(day)
	if d.seen[sectionID] == nil {
		d.seen[sectionID] = make(map[string]struct{})
	}
	d.seen[sectionID][personRef] = struct{}{}
}
