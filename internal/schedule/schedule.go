// Package schedule derives the active attendance window from the
// imported section schedules.
package schedule

import (
	"fmt"
	"time"
)

// Entry is one schedule row for a section: a weekday plus start and end
// times expressed as minutes since midnight. Reference data, never
// modified here.
type Entry struct {
	SectionID   string
	CourseID    string
	SectionName string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

// Status tags a window as on-time or late.
type Status int

const (
	StatusPresent Status = iota
	StatusLate
)

func (s Status) String() string {
	if s == StatusLate {
		return "late"
	}
	return "present"
}

// Timing holds the three window boundaries relative to class start/end.
type Timing struct {
	EarlyWindow time.Duration // window opens start - EarlyWindow
	LateGrace   time.Duration // status flips to late after start + LateGrace
	EndBuffer   time.Duration // window closes end - EndBuffer
}

// Window is the currently open attendance window for a section.
// Derived value, recomputed periodically, never persisted.
type Window struct {
	SectionID   string
	CourseID    string
	SectionName string
	Status      Status
	OpensAt     time.Time
	LateCutoff  time.Time
	ClosesAt    time.Time
	StartMinute int // class start, for session bookkeeping
	EndMinute   int
}

// Late reports whether the window is in its late sub-state.
func (w *Window) Late() bool {
	return w.Status == StatusLate
}

// FormatMinute renders minutes since midnight as HH:MM for API responses.
func FormatMinute(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
