package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/classwatch/internal/config"
	"github.com/kozaktomas/classwatch/internal/schedule"
	"github.com/kozaktomas/classwatch/internal/store"
	"github.com/kozaktomas/classwatch/internal/store/postgres"
)

var importScheduleCmd = &cobra.Command{
	Use:   "import-schedule <timetable.yaml>",
	Short: "Import courses, sections and schedules from a YAML timetable",
	Long: `Import courses, sections and weekly schedules from a YAML timetable
file. Existing courses and sections are updated in place; each section's
schedule rows are replaced wholesale, so the file is the source of truth.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportSchedule,
}

func init() {
	rootCmd.AddCommand(importScheduleCmd)
}

// timetableFile is the YAML shape of the import file.
type timetableFile struct {
	Courses []struct {
		ID       string `yaml:"id"`
		Code     string `yaml:"code"`
		Name     string `yaml:"name"`
		Sections []struct {
			ID       string `yaml:"id"`
			Name     string `yaml:"name"`
			Schedule []struct {
				Weekday string `yaml:"weekday"`
				Start   string `yaml:"start"`
				End     string `yaml:"end"`
			} `yaml:"schedule"`
		} `yaml:"sections"`
	} `yaml:"courses"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func runImportSchedule(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading timetable: %w", err)
	}

	var file timetableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing timetable: %w", err)
	}
	if len(file.Courses) == 0 {
		return errors.New("timetable contains no courses")
	}

	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	sections := 0
	for _, c := range file.Courses {
		sections += len(c.Sections)
	}
	bar := progressbar.Default(int64(sections), "importing sections")

	ctx := context.Background()
	imported := 0
	for _, c := range file.Courses {
		if c.ID == "" || c.Code == "" {
			return fmt.Errorf("course %q is missing id or code", c.Name)
		}
		if err := pool.UpsertCourse(ctx, store.Course{ID: c.ID, Code: c.Code, Name: c.Name}); err != nil {
			return fmt.Errorf("importing course %s: %w", c.Code, err)
		}

		for _, sec := range c.Sections {
			if sec.ID == "" {
				return fmt.Errorf("section %q of course %s is missing an id", sec.Name, c.Code)
			}
			if err := pool.UpsertSection(ctx, store.Section{ID: sec.ID, CourseID: c.ID, Name: sec.Name}); err != nil {
				return fmt.Errorf("importing section %s: %w", sec.ID, err)
			}

			entries := make([]schedule.Entry, 0, len(sec.Schedule))
			for _, row := range sec.Schedule {
				day, ok := weekdays[strings.ToLower(strings.TrimSpace(row.Weekday))]
				if !ok {
					return fmt.Errorf("section %s: unknown weekday %q", sec.ID, row.Weekday)
				}
				start, err := parseClock(row.Start)
				if err != nil {
					return fmt.Errorf("section %s: %w", sec.ID, err)
				}
				end, err := parseClock(row.End)
				if err != nil {
					return fmt.Errorf("section %s: %w", sec.ID, err)
				}
				if end <= start {
					return fmt.Errorf("section %s: end %s is not after start %s", sec.ID, row.End, row.Start)
				}
				entries = append(entries, schedule.Entry{
					SectionID:   sec.ID,
					CourseID:    c.ID,
					SectionName: sec.Name,
					Weekday:     day,
					StartMinute: start,
					EndMinute:   end,
				})
			}

			if err := pool.ReplaceSectionSchedule(ctx, sec.ID, entries); err != nil {
				return fmt.Errorf("importing schedule of section %s: %w", sec.ID, err)
			}
			imported++
			bar.Add(1)
		}
	}

	fmt.Printf("Imported %d courses and %d sections\n", len(file.Courses), imported)
	return nil
}
