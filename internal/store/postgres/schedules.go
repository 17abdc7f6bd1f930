package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/classwatch/internal/schedule"
)

// ListForDay returns every schedule entry taught on the given weekday,
// joined with its section and course reference data.
func (p *Pool) ListForDay(ctx context.Context, day time.Weekday) ([]schedule.Entry, error) {
	rows, err := p.Query(ctx, `
		SELECT ss.section_id, s.course_id, s.name, ss.day_of_week, ss.start_minute, ss.end_minute
		FROM section_schedules ss
		JOIN sections s ON s.id = ss.section_id
		WHERE ss.day_of_week = $1
		ORDER BY ss.start_minute, ss.section_id`,
		int(day),
	)
	if err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var e schedule.Entry
		var dow int
		if err := rows.Scan(&e.SectionID, &e.CourseID, &e.SectionName, &dow, &e.StartMinute, &e.EndMinute); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		e.Weekday = time.Weekday(dow)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule entries: %w", err)
	}
	return entries, nil
}
