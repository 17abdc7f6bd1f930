package store

import "time"

// Student is a person who can be marked present. Ref is the stable
// external identifier the face matcher resolves to (the matric number).
type Student struct {
	ID       string
	Ref      string
	Name     string
	Nickname string
}

// DisplayName prefers the nickname for overlays and API responses.
func (s *Student) DisplayName() string {
	if s.Nickname != "" {
		return s.Nickname
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Ref
}

// Course is reference data owned by the schedule import.
type Course struct {
	ID   string
	Code string
	Name string
}

// Section is one taught group of a course.
type Section struct {
	ID       string
	CourseID string
	Name     string
}

// ClassSession is one occurrence of a section's class on a calendar
// day. Created lazily the first time attendance is logged; immutable
// afterwards except for the terminal status set elsewhere.
type ClassSession struct {
	ID        string
	SectionID string
	ClassDate string // YYYY-MM-DD
	StartTime string // HH:MM
	Status    string
	CreatedAt time.Time
}

// AttendanceRecord is the persisted (session, student) attendance fact.
// At most one record per pair ever exists; records are never mutated or
// deleted here.
type AttendanceRecord struct {
	ID             string
	StudentID      string
	ClassSessionID string
	Status         string // "present" or "late"
	Timestamp      time.Time
}

// AttendanceEntry joins a record with its student for API responses.
type AttendanceEntry struct {
	Record  AttendanceRecord
	Student Student
}

// KnownFace is a registered face embedding under a person reference.
type KnownFace struct {
	ID        int64
	PersonRef string
	Embedding []float32
	CreatedAt time.Time
}
