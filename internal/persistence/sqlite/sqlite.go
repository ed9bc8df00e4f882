// Package sqlite implements the persistence repositories on top of a SQLite
// database accessed through database/sql and the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// DB wraps the shared connection handle used by all repositories.
type DB struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn. The connection
// pool is capped at a single connection so in-memory databases behave like a
// single store and writers never race on the file lock.
func Open(dsn string) (*DB, error) {
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	handle.SetMaxOpenConns(1)

	if _, err := handle.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &DB{db: handle}, nil
}

// Close releases the underlying connection handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Migrate bootstraps the schema. Statements are idempotent so Migrate is
// safe to run on every startup.
func (d *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shifts (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			owner_employee_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			recurrence_kind TEXT NOT NULL DEFAULT 'none',
			recurrence_interval INTEGER NOT NULL DEFAULT 1,
			recurrence_weekdays TEXT NOT NULL DEFAULT '',
			recurrence_until TEXT,
			timezone TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_company ON shifts(company_id)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_company ON employees(company_id)`,
		`CREATE TABLE IF NOT EXISTS employee_availability (
			company_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			status TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (company_id, employee_id)
		)`,
		`CREATE TABLE IF NOT EXISTS workdays (
			company_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			active_employee_ids TEXT NOT NULL DEFAULT '',
			last_activation_reason TEXT NOT NULL DEFAULT '',
			started_at TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS action_items (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			status_id TEXT NOT NULL DEFAULT '',
			owner_employee_id TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			due_at TEXT,
			last_started_at TEXT,
			start_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_action_items_company ON action_items(company_id)`,
	}

	for _, statement := range statements {
		if _, err := d.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// --- column codecs shared by the repositories ---

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func scanNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	parsed, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func encodeWeekdays(weekdays []time.Weekday) string {
	if len(weekdays) == 0 {
		return ""
	}
	parts := make([]string, 0, len(weekdays))
	for _, day := range weekdays {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(value string) ([]time.Weekday, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	weekdays := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("sqlite: decode weekdays %q: %w", value, err)
		}
		weekdays = append(weekdays, time.Weekday(n))
	}
	return weekdays, nil
}

func encodeIDList(ids []string) string {
	return strings.Join(ids, ",")
}

func decodeIDList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "PRIMARY KEY constraint") {
		return persistence.ErrDuplicate
	}
	return err
}
