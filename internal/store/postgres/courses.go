package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetCourseName returns the course's display name, or "" for an
// unknown course.
func (p *Pool) GetCourseName(ctx context.Context, courseID string) (string, error) {
	var name string
	err := p.QueryRow(ctx, "SELECT name FROM courses WHERE id = $1", courseID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get course name: %w", err)
	}
	return name, nil
}
