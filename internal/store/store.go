// Package store keeps a SQLite snapshot of the aggregated feature table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/history"
	"github.com/gauthierbraillon/watchlens/internal/session"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		channel TEXT NOT NULL DEFAULT '',
		raw_timestamp TEXT NOT NULL DEFAULT '',
		watched_at TEXT NOT NULL,
		hour INTEGER NOT NULL,
		day_of_week TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		is_weekend INTEGER NOT NULL,
		time_of_day TEXT NOT NULL,
		content_category TEXT NOT NULL,
		session_id INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		video_count INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duration_minutes REAL NOT NULL,
		duration_category TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveTable replaces the stored table with events and sessions in one transaction.
func (db *DB) SaveTable(ctx context.Context, events []features.EnrichedEvent, sessions []session.Session) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	eventStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO events (position, title, link, channel, raw_timestamp, watched_at, hour,
		day_of_week, month, year, is_weekend, time_of_day, content_category, session_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare events: %w", err)
	}
	defer eventStmt.Close()

	for i, e := range events {
		_, err = eventStmt.ExecContext(ctx,
			i,
			e.Title,
			e.Link,
			e.Channel,
			e.RawTimestamp,
			formatTime(e.Timestamp),
			e.Hour,
			e.DayOfWeek,
			e.Month,
			e.Year,
			e.IsWeekend,
			string(e.TimeOfDay),
			e.ContentCategory,
			e.SessionID,
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	sessionStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO sessions (id, video_count, start_time, end_time, duration_minutes, duration_category)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sessions: %w", err)
	}
	defer sessionStmt.Close()

	for _, s := range sessions {
		_, err = sessionStmt.ExecContext(ctx,
			s.ID,
			s.VideoCount,
			formatTime(s.StartTime),
			formatTime(s.EndTime),
			s.DurationMinutes,
			string(s.DurationCategory),
		)
		if err != nil {
			return fmt.Errorf("insert session %d: %w", s.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Events returns the stored events in their saved order.
func (db *DB) Events(ctx context.Context) ([]features.EnrichedEvent, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT title, link, channel, raw_timestamp, watched_at, hour, day_of_week, month, year,
		is_weekend, time_of_day, content_category, session_id
	FROM events ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]features.EnrichedEvent, 0)
	for rows.Next() {
		var (
			e         features.EnrichedEvent
			watchedAt string
			timeOfDay string
		)
		err := rows.Scan(&e.Title, &e.Link, &e.Channel, &e.RawTimestamp, &watchedAt, &e.Hour,
			&e.DayOfWeek, &e.Month, &e.Year, &e.IsWeekend, &timeOfDay, &e.ContentCategory, &e.SessionID)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Timestamp, err = parseTime(watchedAt); err != nil {
			return nil, err
		}
		e.TimeOfDay = features.TimeOfDay(timeOfDay)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Sessions returns the stored sessions ordered by id.
func (db *DB) Sessions(ctx context.Context) ([]session.Session, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT id, video_count, start_time, end_time, duration_minutes, duration_category
	FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]session.Session, 0)
	for rows.Next() {
		var (
			s          session.Session
			start, end string
			category   string
		)
		if err := rows.Scan(&s.ID, &s.VideoCount, &start, &end, &s.DurationMinutes, &category); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartTime, err = parseTime(start); err != nil {
			return nil, err
		}
		if s.EndTime, err = parseTime(end); err != nil {
			return nil, err
		}
		s.DurationCategory = session.DurationCategory(category)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// History returns the stored events as plain history events, most recent first.
func (db *DB) History(ctx context.Context) ([]history.Event, error) {
	events, err := db.Events(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]history.Event, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e.Event
	}
	return out, nil
}

const timeLayout = "2006-01-02T15:04:05"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
