// Package store declares the persistence contracts of the attendance
// core. The postgres subpackage implements them against PostgreSQL; the
// mock subpackage provides an in-memory implementation for tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/kozaktomas/classwatch/internal/schedule"
)

// ErrDuplicate is returned by insert operations when a uniqueness
// constraint already holds. Callers treat it as "already exists", not
// as failure.
var ErrDuplicate = errors.New("store: row already exists")

// ScheduleStore reads the imported timetable. It satisfies
// schedule.Source.
type ScheduleStore interface {
	ListForDay(ctx context.Context, day time.Weekday) ([]schedule.Entry, error)
}

// PeopleStore resolves external person references and enrollments.
type PeopleStore interface {
	// GetStudentByRef returns nil (no error) when the reference is unknown.
	GetStudentByRef(ctx context.Context, ref string) (*Student, error)
	IsEnrolled(ctx context.Context, studentID, sectionID string) (bool, error)
}

// SessionStore manages per-day class sessions.
type SessionStore interface {
	// GetOrCreateSession is effectively atomic: concurrent calls for the
	// same (section, date) all return the same session ID.
	GetOrCreateSession(ctx context.Context, sectionID, classDate, startTime string) (string, error)
	// FindSession returns nil (no error) when no session exists yet.
	FindSession(ctx context.Context, sectionID, classDate string) (*ClassSession, error)
}

// AttendanceStore persists attendance facts and absence bookkeeping.
type AttendanceStore interface {
	HasAttendance(ctx context.Context, studentID, sessionID string) (bool, error)
	// InsertAttendance returns ErrDuplicate when a record for the
	// (student, session) pair already exists.
	InsertAttendance(ctx context.Context, rec AttendanceRecord) error
	ListSessionAttendance(ctx context.Context, sessionID string) ([]AttendanceEntry, error)
	// EnsureCourseCounter creates the per-(student, course) absence row
	// with a zero count if missing; an existing row is left untouched.
	EnsureCourseCounter(ctx context.Context, studentID, courseID string) error
}

// FaceStore persists registered face embeddings.
type FaceStore interface {
	ListKnownFaces(ctx context.Context) ([]KnownFace, error)
	SaveKnownFace(ctx context.Context, personRef string, embedding []float32) error
	CountKnownFaces(ctx context.Context) (int, error)
}

// CourseStore reads course reference data.
type CourseStore interface {
	// GetCourseName returns "" (no error) for an unknown course.
	GetCourseName(ctx context.Context, courseID string) (string, error)
}

// ImportStore upserts timetable reference data from the import command.
type ImportStore interface {
	UpsertCourse(ctx context.Context, c Course) error
	UpsertSection(ctx context.Context, s Section) error
	// ReplaceSectionSchedule swaps all schedule rows of a section.
	ReplaceSectionSchedule(ctx context.Context, sectionID string, entries []schedule.Entry) error
}

// Store is the full persistence surface the serve command wires up.
type Store interface {
	ScheduleStore
	PeopleStore
	SessionStore
	AttendanceStore
	FaceStore
	CourseStore
}
