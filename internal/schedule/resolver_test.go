package schedule

import (
	"testing"
	"time"
)

var testTiming = Timing{
	EarlyWindow: 15 * time.Minute,
	LateGrace:   15 * time.Minute,
	EndBuffer:   15 * time.Minute,
}

// at builds a Monday timestamp at the given clock time.
func at(hour, minute int) time.Time {
	return time.Date(2024, 9, 2, hour, minute, 0, 0, time.UTC) // a Monday
}

func mondayEntry(section string, startMinute, endMinute int) Entry {
	return Entry{
		SectionID:   section,
		CourseID:    "course-1",
		SectionName: "Section " + section,
		Weekday:     time.Monday,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
}

func TestResolveWindowBoundaries(t *testing.T) {
	// class 09:00-10:30 with 15 minute early/late/buffer margins
	entries := []Entry{mondayEntry("s1", 9*60, 10*60+30)}

	tests := []struct {
		name   string
		now    time.Time
		open   bool
		status Status
	}{
		{"before window", at(8, 44), false, StatusPresent},
		{"window opens", at(8, 45), true, StatusPresent},
		{"last on-time minute", at(9, 15), true, StatusPresent},
		{"first late minute", at(9, 16), true, StatusLate},
		{"last open minute", at(10, 15), true, StatusLate},
		{"window closed", at(10, 16), false, StatusPresent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := Resolve(tc.now, entries, testTiming)
			if tc.open != (w != nil) {
				t.Fatalf("Resolve(%v): open = %v; want %v", tc.now, w != nil, tc.open)
			}
			if w == nil {
				return
			}
			if w.SectionID != "s1" {
				t.Errorf("unexpected section %s", w.SectionID)
			}
			if w.Status != tc.status {
				t.Errorf("status = %s; want %s", w.Status, tc.status)
			}
		})
	}
}

func TestResolveStatusSweep(t *testing.T) {
	// Every minute inside the window must be present up to and including
	// the late cutoff and late after it; every minute outside must miss.
	entries := []Entry{mondayEntry("s1", 9*60, 10*60+30)}

	for minute := 0; minute < 24*60; minute++ {
		now := at(minute/60, minute%60)
		w := Resolve(now, entries, testTiming)

		inWindow := minute >= 8*60+45 && minute <= 10*60+15
		if inWindow != (w != nil) {
			t.Fatalf("minute %d: open = %v; want %v", minute, w != nil, inWindow)
		}
		if w == nil {
			continue
		}
		wantLate := minute > 9*60+15
		if wantLate != w.Late() {
			t.Errorf("minute %d: late = %v; want %v", minute, w.Late(), wantLate)
		}
	}
}

func TestResolveWrongWeekday(t *testing.T) {
	entries := []Entry{mondayEntry("s1", 9*60, 10*60+30)}
	tuesday := time.Date(2024, 9, 3, 9, 0, 0, 0, time.UTC)

	if w := Resolve(tuesday, entries, testTiming); w != nil {
		t.Errorf("expected no window on Tuesday, got section %s", w.SectionID)
	}
}

func TestResolveOverlapTieBreak(t *testing.T) {
	// Overlapping sections: the earliest start wins, then the smallest ID.
	entries := []Entry{
		mondayEntry("s-b", 9*60+30, 11*60),
		mondayEntry("s-z", 9*60, 11*60),
		mondayEntry("s-a", 9*60, 10*60+30),
	}

	w := Resolve(at(9, 40), entries, testTiming)
	if w == nil {
		t.Fatal("expected an open window")
	}
	if w.SectionID != "s-a" {
		t.Errorf("tie-break chose %s; want s-a", w.SectionID)
	}
}

func TestResolveDegenerateEntry(t *testing.T) {
	// 20 minute class: window would close before it opens. Treated as
	// never-open rather than matched.
	short := mondayEntry("s-short", 9*60, 9*60+20)
	if !Degenerate(short, testTiming) {
		t.Fatal("expected entry to be degenerate")
	}
	if w := Resolve(at(9, 0), []Entry{short}, testTiming); w != nil {
		t.Errorf("degenerate entry matched: %+v", w)
	}

	// A healthy sibling must still resolve.
	entries := []Entry{short, mondayEntry("s-ok", 9*60, 11*60)}
	w := Resolve(at(9, 0), entries, testTiming)
	if w == nil || w.SectionID != "s-ok" {
		t.Errorf("expected s-ok to match, got %+v", w)
	}
}

func TestResolveDeterministic(t *testing.T) {
	entries := []Entry{
		mondayEntry("s1", 9*60, 10*60+30),
		mondayEntry("s2", 14*60, 16*60),
	}
	now := at(9, 20)

	first := Resolve(now, entries, testTiming)
	for i := 0; i < 50; i++ {
		again := Resolve(now, entries, testTiming)
		if again == nil || first == nil {
			t.Fatal("expected windows on every call")
		}
		if *again != *first {
			t.Fatalf("call %d differed: %+v vs %+v", i, again, first)
		}
	}
}

func TestFormatMinute(t *testing.T) {
	tests := []struct {
		minute   int
		expected string
	}{
		{0, "00:00"},
		{9*60 + 5, "09:05"},
		{23*60 + 59, "23:59"},
		{-10, "00:00"},
	}
	for _, tc := range tests {
		if got := FormatMinute(tc.minute); got != tc.expected {
			t.Errorf("FormatMinute(%d) = %s; want %s", tc.minute, got, tc.expected)
		}
	}
}
