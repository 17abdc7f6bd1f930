package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/classwatch/internal/store"
)

// HasAttendance reports whether a record already exists for the
// (student, session) pair.
func (p *Pool) HasAttendance(ctx context.Context, studentID, sessionID string) (bool, error) {
	var exists bool
	err := p.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE student_id = $1 AND class_session_id = $2
		)`,
		studentID, sessionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// InsertAttendance persists one attendance fact. Returns
// store.ErrDuplicate when the (student, session) pair already has a
// record, so callers can treat a lost race as success.
func (p *Pool) InsertAttendance(ctx context.Context, rec store.AttendanceRecord) error {
	_, err := p.Exec(ctx, `
		INSERT INTO attendance_records (id, student_id, class_session_id, status, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.StudentID, rec.ClassSessionID, rec.Status, rec.Timestamp,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// ListSessionAttendance returns the session's records joined with their
// students, newest first.
func (p *Pool) ListSessionAttendance(ctx context.Context, sessionID string) ([]store.AttendanceEntry, error) {
	rows, err := p.Query(ctx, `
		SELECT ar.id, ar.student_id, ar.class_session_id, ar.status, ar.recorded_at,
		       s.id, s.matric_no, s.name, s.nickname
		FROM attendance_records ar
		JOIN students s ON s.id = ar.student_id
		WHERE ar.class_session_id = $1
		ORDER BY ar.recorded_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session attendance: %w", err)
	}
	defer rows.Close()

	var entries []store.AttendanceEntry
	for rows.Next() {
		var e store.AttendanceEntry
		if err := rows.Scan(
			&e.Record.ID, &e.Record.StudentID, &e.Record.ClassSessionID, &e.Record.Status, &e.Record.Timestamp,
			&e.Student.ID, &e.Student.Ref, &e.Student.Name, &e.Student.Nickname,
		); err != nil {
			return nil, fmt.Errorf("scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance entries: %w", err)
	}
	return entries, nil
}

// EnsureCourseCounter creates the per-(student, course) absence row
// with a zero count if it does not exist. An existing row keeps its
// count.
func (p *Pool) EnsureCourseCounter(ctx context.Context, studentID, courseID string) error {
	_, err := p.Exec(ctx, `
		INSERT INTO course_attendance (student_id, course_id, absence_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (student_id, course_id) DO NOTHING`,
		studentID, courseID,
	)
	if err != nil {
		return fmt.Errorf("ensure course counter: %w", err)
	}
	return nil
}
