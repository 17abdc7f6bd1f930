package schedule

import "time"

// Degenerate reports whether an entry's window closes before it opens
// under the given timing, which makes it never match. Such entries are
// schedule configuration errors; Resolve skips them and the cache logs
// them once per refresh.
func Degenerate(e Entry, t Timing) bool {
	open := e.StartMinute - int(t.EarlyWindow.Minutes())
	close := e.EndMinute - int(t.EndBuffer.Minutes())
	return close < open
}

// Resolve decides whether an attendance window is open at now. It is a
// pure function of its inputs: entries are filtered to now's weekday,
// window boundaries are computed per entry and the first match wins.
// When several sections overlap, the entry with the earliest start time
// is chosen; remaining ties break on the smallest section ID. Returns
// nil when no window is open.
func Resolve(now time.Time, entries []Entry, t Timing) *Window {
	weekday := now.Weekday()
	minute := now.Hour()*60 + now.Minute()

	var best *Entry
	for i := range entries {
		e := &entries[i]
		if e.Weekday != weekday || Degenerate(*e, t) {
			continue
		}

		open := e.StartMinute - int(t.EarlyWindow.Minutes())
		close := e.EndMinute - int(t.EndBuffer.Minutes())
		if minute < open || minute > close {
			continue
		}

		if best == nil ||
			e.StartMinute < best.StartMinute ||
			(e.StartMinute == best.StartMinute && e.SectionID < best.SectionID) {
			best = e
		}
	}
	if best == nil {
		return nil
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.Add(time.Duration(best.StartMinute) * time.Minute)
	end := midnight.Add(time.Duration(best.EndMinute) * time.Minute)

	w := &Window{
		SectionID:   best.SectionID,
		CourseID:    best.CourseID,
		SectionName: best.SectionName,
		OpensAt:     start.Add(-t.EarlyWindow),
		LateCutoff:  start.Add(t.LateGrace),
		ClosesAt:    end.Add(-t.EndBuffer),
		StartMinute: best.StartMinute,
		EndMinute:   best.EndMinute,
	}
	if minute > best.StartMinute+int(t.LateGrace.Minutes()) {
		w.Status = StatusLate
	}
	return w
}
