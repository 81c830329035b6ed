package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/dagaz/internal/models"
)

// UpsertEvents inserts or replaces events within a single transaction.
func (db *DB) UpsertEvents(events []models.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO events (id, series_id, title, description, start_at, end_at,
			category_id, all_day, recurring, pattern, interval, recurrence_end, type, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			series_id      = excluded.series_id,
			title          = excluded.title,
			description    = excluded.description,
			start_at       = excluded.start_at,
			end_at         = excluded.end_at,
			category_id    = excluded.category_id,
			all_day        = excluded.all_day,
			recurring      = excluded.recurring,
			pattern        = excluded.pattern,
			interval       = excluded.interval,
			recurrence_end = excluded.recurrence_end,
			type           = excluded.type,
			completed      = excluded.completed
	`)
	if err != nil {
		return fmt.Errorf("index: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		var recEnd sql.NullTime
		if ev.RecurrenceEnd != nil {
			recEnd = sql.NullTime{Time: *ev.RecurrenceEnd, Valid: true}
		}
		if _, err := stmt.Exec(
			ev.ID, ev.SeriesID, ev.Title, ev.Description, ev.Start, ev.End,
			ev.CategoryID, ev.AllDay, ev.Recurring, string(ev.Pattern), ev.Interval,
			recEnd, string(ev.Type), ev.Completed,
		); err != nil {
			return fmt.Errorf("index: upsert event %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteEvents removes the given ids within a single transaction.
func (db *DB) DeleteEvents(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("index: delete events: %w", err)
	}
	return tx.Commit()
}

// LoadEvents returns every snapshot row, ordered by start time.
func (db *DB) LoadEvents() ([]models.CalendarEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, series_id, title, description, start_at, end_at,
			category_id, all_day, recurring, pattern, interval, recurrence_end, type, completed
		FROM events ORDER BY start_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("index: load events: %w", err)
	}
	defer rows.Close()

	var out []models.CalendarEvent
	for rows.Next() {
		var (
			ev      models.CalendarEvent
			pattern string
			kind    string
			recEnd  sql.NullTime
		)
		if err := rows.Scan(
			&ev.ID, &ev.SeriesID, &ev.Title, &ev.Description, &ev.Start, &ev.End,
			&ev.CategoryID, &ev.AllDay, &ev.Recurring, &pattern, &ev.Interval,
			&recEnd, &kind, &ev.Completed,
		); err != nil {
			return nil, fmt.Errorf("index: scan event: %w", err)
		}
		ev.Pattern = models.RecurrencePattern(pattern)
		ev.Type = models.EventType(kind)
		if recEnd.Valid {
			t := recEnd.Time
			ev.RecurrenceEnd = &t
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
