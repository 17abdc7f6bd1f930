package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/classwatch/internal/metrics"
	"github.com/kozaktomas/classwatch/internal/schedule"
	"github.com/kozaktomas/classwatch/internal/store"
)

// Outcome classifies what Record did for one recognized person.
type Outcome int

const (
	// OutcomeWritten means a new attendance record was persisted.
	OutcomeWritten Outcome = iota
	// OutcomeDuplicate means the person already had a record for the
	// session, either in memory or in the database.
	OutcomeDuplicate
	// OutcomeNotEnrolled means the person is known but not enrolled in
	// the section being taught.
	OutcomeNotEnrolled
	// OutcomeUnknownPerson means the reference resolved to no student.
	OutcomeUnknownPerson
	// OutcomeFailed means a store error prevented the write; the person
	// stays unmarked so a later sighting retries.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeNotEnrolled:
		return "not_enrolled"
	case OutcomeUnknownPerson:
		return "unknown_person"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WriterStore is the persistence surface Record needs.
type WriterStore interface {
	store.SessionStore
	store.AttendanceStore
	IsEnrolled(ctx context.Context, studentID, sectionID string) (bool, error)
}

// Writer persists at-most-once attendance for recognized people.
type Writer struct {
	store  WriterStore
	people *People
	dedup  *Dedup
	noted  *Dedup // log gating only, never short-circuits
	now    func() time.Time
}

// NewWriter creates a writer over the given store and people cache.
func NewWriter(st WriterStore, people *People) *Writer {
	return &Writer{
		store:  st,
		people: people,
		dedup:  NewDedup(),
		noted:  NewDedup(),
		now:    time.Now,
	}
}

// Record logs attendance for one recognized person inside the given
// window. A person enters the dedup set only once a persisted record
// for them exists, so unknown or not-enrolled people are re-checked on
// every sighting and start counting as soon as their data is fixed.
// A failed write also leaves the person unmarked for retry.
func (w *Writer) Record(ctx context.Context, personRef string, win *schedule.Window) (Outcome, error) {
	now := w.now()
	day := now.Format("2006-01-02")

	if w.dedup.Seen(day, win.SectionID, personRef) {
		return OutcomeDuplicate, nil
	}

	student, err := w.people.Student(ctx, personRef)
	if err != nil {
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		return OutcomeFailed, fmt.Errorf("resolving person %q: %w", personRef, err)
	}
	if student == nil {
		// A registered face with no student row. Not marked in dedup:
		// once the row appears and the people cache is invalidated, the
		// next sighting gets recorded.
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeUnknownPerson.String()).Inc()
		if !w.noted.Seen(day, win.SectionID, personRef) {
			w.noted.Mark(day, win.SectionID, personRef)
			log.Printf("attendance: no student for reference %q", personRef)
		}
		return OutcomeUnknownPerson, nil
	}

	enrolled, err := w.store.IsEnrolled(ctx, student.ID, win.SectionID)
	if err != nil {
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		return OutcomeFailed, fmt.Errorf("checking enrollment: %w", err)
	}
	if !enrolled {
		// Not marked in dedup: an enrollment fixed mid-day takes effect
		// on the next sighting.
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeNotEnrolled.String()).Inc()
		if !w.noted.Seen(day, win.SectionID, personRef) {
			w.noted.Mark(day, win.SectionID, personRef)
			log.Printf("attendance: %s not enrolled in section %s", student.DisplayName(), win.SectionID)
		}
		return OutcomeNotEnrolled, nil
	}

	sessionID, err := w.store.GetOrCreateSession(ctx, win.SectionID, day, schedule.FormatMinute(win.StartMinute))
	if err != nil {
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		return OutcomeFailed, fmt.Errorf("getting class session: %w", err)
	}

	// A record may already exist from before a restart.
	exists, err := w.store.HasAttendance(ctx, student.ID, sessionID)
	if err != nil {
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		return OutcomeFailed, fmt.Errorf("checking attendance: %w", err)
	}
	if exists {
		w.dedup.Mark(day, win.SectionID, personRef)
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeDuplicate.String()).Inc()
		return OutcomeDuplicate, nil
	}

	rec := store.AttendanceRecord{
		ID:             uuid.New().String(),
		StudentID:      student.ID,
		ClassSessionID: sessionID,
		Status:         win.Status.String(),
		Timestamp:      now.UTC(),
	}
	if err := w.store.InsertAttendance(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with another writer; the record exists.
			w.dedup.Mark(day, win.SectionID, personRef)
			metrics.AttendanceOutcomes.WithLabelValues(OutcomeDuplicate.String()).Inc()
			return OutcomeDuplicate, nil
		}
		metrics.AttendanceOutcomes.WithLabelValues(OutcomeFailed.String()).Inc()
		return OutcomeFailed, fmt.Errorf("inserting attendance: %w", err)
	}

	// Best effort; the attendance record is already durable.
	if err := w.store.EnsureCourseCounter(ctx, student.ID, win.CourseID); err != nil {
		log.Printf("attendance: course counter for %s: %v", student.DisplayName(), err)
	}

	w.dedup.Mark(day, win.SectionID, personRef)
	metrics.AttendanceOutcomes.WithLabelValues(OutcomeWritten.String()).Inc()
	log.Printf("attendance: %s marked %s for section %s", student.DisplayName(), win.Status, win.SectionID)
	return OutcomeWritten, nil
}
