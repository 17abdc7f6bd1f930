package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/classwatch/internal/schedule"
	"github.com/kozaktomas/classwatch/internal/store"
)

// UpsertCourse inserts or updates a course by ID.
func (p *Pool) UpsertCourse(ctx context.Context, c store.Course) error {
	_, err := p.Exec(ctx, `
		INSERT INTO courses (id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name`,
		c.ID, c.Code, c.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

// UpsertSection inserts or updates a section by ID.
func (p *Pool) UpsertSection(ctx context.Context, s store.Section) error {
	_, err := p.Exec(ctx, `
		INSERT INTO sections (id, course_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET course_id = EXCLUDED.course_id, name = EXCLUDED.name`,
		s.ID, s.CourseID, s.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert section: %w", err)
	}
	return nil
}

// ReplaceSectionSchedule swaps all schedule rows of a section inside a
// transaction, so readers never observe a half-imported timetable.
func (p *Pool) ReplaceSectionSchedule(ctx context.Context, sectionID string, entries []schedule.Entry) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM section_schedules WHERE section_id = $1", sectionID); err != nil {
		return fmt.Errorf("clear section schedule: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO section_schedules (section_id, day_of_week, start_minute, end_minute)
			VALUES ($1, $2, $3, $4)`,
			sectionID, int(e.Weekday), e.StartMinute, e.EndMinute,
		); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule replace: %w", err)
	}
	return nil
}
