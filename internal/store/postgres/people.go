package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/classwatch/internal/store"
)

// GetStudentByRef resolves a matric number to a student. Returns nil
// without error when the reference is unknown.
func (p *Pool) GetStudentByRef(ctx context.Context, ref string) (*store.Student, error) {
	var s store.Student
	err := p.QueryRow(ctx, `
		SELECT id, matric_no, name, nickname
		FROM students
		WHERE matric_no = $1`,
		ref,
	).Scan(&s.ID, &s.Ref, &s.Name, &s.Nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student by ref: %w", err)
	}
	return &s, nil
}

// IsEnrolled reports whether the student is enrolled in the section.
func (p *Pool) IsEnrolled(ctx context.Context, studentID, sectionID string) (bool, error) {
	var exists bool
	err := p.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND section_id = $2
		)`,
		studentID, sectionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}
