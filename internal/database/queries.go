package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// =============================================================================
// Generated Calendars
// =============================================================================

// SaveCalendar stores a generation result under fingerprint, replacing any
// earlier result for the same calendar, year and fingerprint. The
// fingerprint identifies every input besides the calendar and year, at
// least the effective options.
func (db *DB) SaveCalendar(ctx context.Context, res *calendar.Result, fingerprint string) error {
	configJSON, err := json.Marshal(res.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	daysJSON, err := json.Marshal(res.Days)
	if err != nil {
		return fmt.Errorf("marshal days: %w", err)
	}
	problems := res.Warnings()
	problemsJSON, err := json.Marshal(problems)
	if err != nil {
		return fmt.Errorf("marshal problems: %w", err)
	}

	if fingerprint == "" {
		return fmt.Errorf("save %s %d: empty fingerprint", res.CalendarKey, res.Year)
	}

	err = db.WithTx(ctx, func(tx *Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO generated_calendars (calendar, year, fingerprint, config, days, problems)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (calendar, year, fingerprint) DO UPDATE SET
				config = excluded.config,
				days = excluded.days,
				problems = excluded.problems,
				updated_at = datetime('now')
			RETURNING id
		`, res.CalendarKey, res.Year, fingerprint, string(configJSON), string(daysJSON), string(problemsJSON)).Scan(&id)
		if err != nil {
			return fmt.Errorf("upsert generated calendar: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_days WHERE generated_calendar_id = ?", id); err != nil {
			return fmt.Errorf("clear calendar days: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO calendar_days
				(generated_calendar_id, date, position, day_key, precedence, rank, from_calendar, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare calendar day insert: %w", err)
		}
		defer stmt.Close()

		for _, dk := range res.Days.Dates() {
			for pos, day := range res.Days[dk] {
				data, err := json.Marshal(day)
				if err != nil {
					return fmt.Errorf("marshal day %s on %s: %w", day.Key, dk, err)
				}
				_, err = stmt.ExecContext(ctx, id, dk, pos, day.Key,
					day.Precedence.String(), string(day.Rank), day.FromCalendar, string(data))
				if err != nil {
					return fmt.Errorf("insert day %s on %s: %w", day.Key, dk, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Debug("calendar stored",
		slog.String("calendar", res.CalendarKey),
		slog.Int("year", res.Year),
		slog.String("fingerprint", fingerprint),
		slog.Int("problems", len(problems)),
	)
	return nil
}

// GetCalendar retrieves a stored calendar.
// Returns ErrNotFound if it has not been generated with these options.
func (db *DB) GetCalendar(ctx context.Context, calendarKey string, year int, fingerprint string) (*GeneratedCalendar, error) {
	query := `
		SELECT id, calendar, year, fingerprint, config, days, problems, created_at, updated_at
		FROM generated_calendars
		WHERE calendar = ? AND year = ? AND fingerprint = ?
	`

	var (
		gc                                 GeneratedCalendar
		configJSON, daysJSON, problemsJSON string
		createdAtStr, updatedAtStr         sql.NullString
	)
	err := db.QueryRowContext(ctx, query, calendarKey, year, fingerprint).Scan(
		&gc.ID,
		&gc.Calendar,
		&gc.Year,
		&gc.Fingerprint,
		&configJSON,
		&daysJSON,
		&problemsJSON,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query generated calendar: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &gc.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal([]byte(daysJSON), &gc.Days); err != nil {
		return nil, fmt.Errorf("unmarshal days: %w", err)
	}
	if err := json.Unmarshal([]byte(problemsJSON), &gc.Problems); err != nil {
		return nil, fmt.Errorf("unmarshal problems: %w", err)
	}

	if t := parseTimestamp(createdAtStr); t != nil {
		gc.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAtStr); t != nil {
		gc.UpdatedAt = *t
	}

	return &gc, nil
}

// GetDay retrieves the celebrations of one date of a stored calendar,
// occupant first. Returns ErrNotFound if the calendar or date is missing.
func (db *DB) GetDay(ctx context.Context, calendarKey string, year int, fingerprint, date string) ([]calendar.LiturgicalDay, error) {
	query := `
		SELECT d.data
		FROM calendar_days d
		JOIN generated_calendars c ON c.id = d.generated_calendar_id
		WHERE c.calendar = ? AND c.year = ? AND c.fingerprint = ? AND d.date = ?
		ORDER BY d.position
	`

	rows, err := db.QueryContext(ctx, query, calendarKey, year, fingerprint, date)
	if err != nil {
		return nil, fmt.Errorf("query calendar day: %w", err)
	}
	defer rows.Close()

	var days []calendar.LiturgicalDay
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}
		var day calendar.LiturgicalDay
		if err := json.Unmarshal([]byte(data), &day); err != nil {
			return nil, fmt.Errorf("unmarshal calendar day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar days: %w", err)
	}

	if len(days) == 0 {
		return nil, ErrNotFound
	}
	return days, nil
}

// FindOccurrences lists where a day key was placed across the stored
// versions of a calendar, in year and date order.
func (db *DB) FindOccurrences(ctx context.Context, calendarKey, dayKey string) ([]Occurrence, error) {
	query := `
		SELECT c.calendar, c.year, c.fingerprint, d.date, d.position
		FROM calendar_days d
		JOIN generated_calendars c ON c.id = d.generated_calendar_id
		WHERE c.calendar = ? AND d.day_key = ?
		ORDER BY c.year, c.fingerprint, d.date
	`

	rows, err := db.QueryContext(ctx, query, calendarKey, dayKey)
	if err != nil {
		return nil, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	var out []Occurrence
	for rows.Next() {
		var o Occurrence
		if err := rows.Scan(&o.Calendar, &o.Year, &o.Fingerprint, &o.Date, &o.Position); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occurrences: %w", err)
	}
	return out, nil
}

// ListGenerated summarizes every stored calendar, ordered by calendar,
// year and fingerprint.
func (db *DB) ListGenerated(ctx context.Context) ([]CalendarSummary, error) {
	query := `
		SELECT c.calendar, c.year, c.fingerprint,
			(SELECT COUNT(DISTINCT d.date) FROM calendar_days d WHERE d.generated_calendar_id = c.id),
			json_array_length(c.problems),
			c.updated_at
		FROM generated_calendars c
		ORDER BY c.calendar, c.year, c.fingerprint
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query generated calendars: %w", err)
	}
	defer rows.Close()

	var out []CalendarSummary
	for rows.Next() {
		var (
			s            CalendarSummary
			updatedAtStr sql.NullString
		)
		if err := rows.Scan(&s.Calendar, &s.Year, &s.Fingerprint, &s.DayCount, &s.Problems, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scan generated calendar: %w", err)
		}
		if t := parseTimestamp(updatedAtStr); t != nil {
			s.UpdatedAt = *t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generated calendars: %w", err)
	}
	return out, nil
}

// DeleteCalendar removes every stored version of a calendar, for example
// after its definitions changed. Returns the number of versions removed.
func (db *DB) DeleteCalendar(ctx context.Context, calendarKey string) (int64, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM generated_calendars WHERE calendar = ?", calendarKey)
	if err != nil {
		return 0, fmt.Errorf("delete generated calendars: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
