// Package mock provides an in-memory store implementation for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/classwatch/internal/schedule"
	"github.com/kozaktomas/classwatch/internal/store"
)

// Store is an in-memory implementation of store.Store with error
// injection hooks for failure-path tests.
type Store struct {
	mu sync.RWMutex

	entries   []schedule.Entry
	students  map[string]store.Student // keyed by ref
	enrolled  map[string]bool          // studentID|sectionID
	sessions  map[string]store.ClassSession
	records   map[string]store.AttendanceRecord // studentID|sessionID
	counters  map[string]bool                   // studentID|courseID
	faces     []store.KnownFace
	courses   map[string]store.Course
	sections  map[string]store.Section
	nextFace  int64

	// Error injection
	ScheduleErr   error
	StudentErr    error
	EnrollErr     error
	SessionErr    error
	AttendanceErr error
	InsertErr     error
	CounterErr    error
	FaceErr       error
}

func New() *Store {
	return &Store{
		students: make(map[string]store.Student),
		enrolled: make(map[string]bool),
		sessions: make(map[string]store.ClassSession),
		records:  make(map[string]store.AttendanceRecord),
		counters: make(map[string]bool),
		courses:  make(map[string]store.Course),
		sections: make(map[string]store.Section),
	}
}

func key(a, b string) string { return a + "|" + b }

// Enroll adds one enrollment after the student was seeded.
func (m *Store) Enroll(studentID, sectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrolled[key(studentID, sectionID)] = true
}

// AddScheduleEntry seeds a timetable row.
func (m *Store) AddScheduleEntry(e schedule.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

// AddStudent seeds a student, optionally enrolled in sections.
func (m *Store) AddStudent(s store.Student, sectionIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.Ref] = s
	for _, sec := range sectionIDs {
		m.enrolled[key(s.ID, sec)] = true
	}
}

func (m *Store) ListForDay(_ context.Context, day time.Weekday) ([]schedule.Entry, error) {
	if m.ScheduleErr != nil {
		return nil, m.ScheduleErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Entry
	for _, e := range m.entries {
		if e.Weekday == day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Store) GetStudentByRef(_ context.Context, ref string) (*store.Student, error) {
	if m.StudentErr != nil {
		return nil, m.StudentErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.students[ref]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

func (m *Store) IsEnrolled(_ context.Context, studentID, sectionID string) (bool, error) {
	if m.EnrollErr != nil {
		return false, m.EnrollErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enrolled[key(studentID, sectionID)], nil
}

func (m *Store) GetOrCreateSession(_ context.Context, sectionID, classDate, startTime string) (string, error) {
	if m.SessionErr != nil {
		return "", m.SessionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(sectionID, classDate)
	if s, ok := m.sessions[k]; ok {
		return s.ID, nil
	}
	s := store.ClassSession{
		ID:        uuid.NewString(),
		SectionID: sectionID,
		ClassDate: classDate,
		StartTime: startTime,
		Status:    "active",
		CreatedAt: time.Now(),
	}
	m.sessions[k] = s
	return s.ID, nil
}

func (m *Store) FindSession(_ context.Context, sectionID, classDate string) (*store.ClassSession, error) {
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[key(sectionID, classDate)]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

// SessionCount reports how many sessions exist, for idempotency tests.
func (m *Store) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Store) HasAttendance(_ context.Context, studentID, sessionID string) (bool, error) {
	if m.AttendanceErr != nil {
		return false, m.AttendanceErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[key(studentID, sessionID)]
	return ok, nil
}

func (m *Store) InsertAttendance(_ context.Context, rec store.AttendanceRecord) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(rec.StudentID, rec.ClassSessionID)
	if _, ok := m.records[k]; ok {
		return store.ErrDuplicate
	}
	m.records[k] = rec
	return nil
}

func (m *Store) ListSessionAttendance(_ context.Context, sessionID string) ([]store.AttendanceEntry, error) {
	if m.AttendanceErr != nil {
		return nil, m.AttendanceErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.AttendanceEntry
	for _, rec := range m.records {
		if rec.ClassSessionID != sessionID {
			continue
		}
		entry := store.AttendanceEntry{Record: rec}
		for _, s := range m.students {
			if s.ID == rec.StudentID {
				entry.Student = s
				break
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Record.Timestamp.After(out[j].Record.Timestamp)
	})
	return out, nil
}

func (m *Store) EnsureCourseCounter(_ context.Context, studentID, courseID string) error {
	if m.CounterErr != nil {
		return m.CounterErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key(studentID, courseID)] = true
	return nil
}

// HasCourseCounter reports whether an absence row exists.
func (m *Store) HasCourseCounter(studentID, courseID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[key(studentID, courseID)]
}

// RecordCount reports how many attendance records exist.
func (m *Store) RecordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Store) ListKnownFaces(_ context.Context) ([]store.KnownFace, error) {
	if m.FaceErr != nil {
		return nil, m.FaceErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.KnownFace, len(m.faces))
	copy(out, m.faces)
	return out, nil
}

func (m *Store) SaveKnownFace(_ context.Context, personRef string, embedding []float32) error {
	if m.FaceErr != nil {
		return m.FaceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextFace++
	emb := make([]float32, len(embedding))
	copy(emb, embedding)
	m.faces = append(m.faces, store.KnownFace{
		ID:        m.nextFace,
		PersonRef: personRef,
		Embedding: emb,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *Store) CountKnownFaces(_ context.Context) (int, error) {
	if m.FaceErr != nil {
		return 0, m.FaceErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.faces), nil
}

func (m *Store) GetCourseName(_ context.Context, courseID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.courses[courseID]; ok {
		return c.Name, nil
	}
	return "", nil
}

func (m *Store) UpsertCourse(_ context.Context, c store.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *Store) UpsertSection(_ context.Context, s store.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections[s.ID] = s
	return nil
}

func (m *Store) ReplaceSectionSchedule(_ context.Context, sectionID string, entries []schedule.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.SectionID != sectionID {
			kept = append(kept, e)
		}
	}
	m.entries = append(kept, entries...)
	return nil
}

// String summarizes the store state for test failure messages.
func (m *Store) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("mock.Store{students=%d sessions=%d records=%d faces=%d}",
		len(m.students), len(m.sessions), len(m.records), len(m.faces))
}
