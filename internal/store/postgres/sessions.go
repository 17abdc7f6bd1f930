package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kozaktomas/classwatch/internal/store"
)

// GetOrCreateSession returns the session ID for (section, date),
// creating the row if it does not exist yet. Concurrent callers racing
// on the same pair all observe the same ID because the insert is
// guarded by the unique constraint and losers fall through to the
// select.
func (p *Pool) GetOrCreateSession(ctx context.Context, sectionID, classDate, startTime string) (string, error) {
	id := uuid.New().String()
	_, err := p.Exec(ctx, `
		INSERT INTO class_sessions (id, section_id, class_date, start_time, status)
		VALUES ($1, $2, $3, $4, 'active')
		ON CONFLICT (section_id, class_date) DO NOTHING`,
		id, sectionID, classDate, startTime,
	)
	if err != nil {
		return "", fmt.Errorf("create class session: %w", err)
	}

	err = p.QueryRow(ctx, `
		SELECT id FROM class_sessions
		WHERE section_id = $1 AND class_date = $2`,
		sectionID, classDate,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get class session: %w", err)
	}
	return id, nil
}

// FindSession returns the session for (section, date), or nil without
// error when none exists.
func (p *Pool) FindSession(ctx context.Context, sectionID, classDate string) (*store.ClassSession, error) {
	var s store.ClassSession
	err := p.QueryRow(ctx, `
		SELECT id, section_id, class_date::text, start_time, status, created_at
		FROM class_sessions
		WHERE section_id = $1 AND class_date = $2`,
		sectionID, classDate,
	).Scan(&s.ID, &s.SectionID, &s.ClassDate, &s.StartTime, &s.Status, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find class session: %w", err)
	}
	return &s, nil
}
