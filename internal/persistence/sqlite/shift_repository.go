package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// ShiftRepository implements persistence.ShiftRepository on SQLite.
type ShiftRepository struct {
	db *DB
}

// NewShiftRepository returns a repository bound to db.
func NewShiftRepository(db *DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

const shiftColumns = `id, company_id, owner_employee_id, name, description, start_time, end_time,
	recurrence_kind, recurrence_interval, recurrence_weekdays, recurrence_until, timezone, created_at, updated_at`

// CreateShift inserts a new shift definition.
func (r *ShiftRepository) CreateShift(ctx context.Context, shift persistence.Shift) error {
	query := `INSERT INTO shifts (` + shiftColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		shift.ID,
		shift.CompanyID,
		shift.OwnerEmployeeID,
		shift.Name,
		shift.Description,
		formatTime(shift.Start),
		formatTime(shift.End),
		shift.RecurrenceKind,
		shift.RecurrenceInterval,
		encodeWeekdays(shift.RecurrenceWeekdays),
		nullableTime(shift.RecurrenceUntil),
		shift.Timezone,
		formatTime(shift.CreatedAt),
		formatTime(shift.UpdatedAt),
	)
	return mapError(err)
}

// UpdateShift replaces an existing shift definition.
func (r *ShiftRepository) UpdateShift(ctx context.Context, shift persistence.Shift) error {
	query := `UPDATE shifts
		SET owner_employee_id = ?, name = ?, description = ?, start_time = ?, end_time = ?,
			recurrence_kind = ?, recurrence_interval = ?, recurrence_weekdays = ?, recurrence_until = ?,
			timezone = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.db.ExecContext(ctx, query,
		shift.OwnerEmployeeID,
		shift.Name,
		shift.Description,
		formatTime(shift.Start),
		formatTime(shift.End),
		shift.RecurrenceKind,
		shift.RecurrenceInterval,
		encodeWeekdays(shift.RecurrenceWeekdays),
		nullableTime(shift.RecurrenceUntil),
		shift.Timezone,
		formatTime(shift.UpdatedAt),
		shift.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetShift retrieves one shift by id.
func (r *ShiftRepository) GetShift(ctx context.Context, id string) (persistence.Shift, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)
	return scanShift(row)
}

// ListShifts returns the company's shifts ordered by start time then id.
func (r *ShiftRepository) ListShifts(ctx context.Context, companyID string) ([]persistence.Shift, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE company_id = ? ORDER BY start_time, id`, companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var shifts []persistence.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// DeleteShift removes one shift by id.
func (r *ShiftRepository) DeleteShift(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (persistence.Shift, error) {
	var (
		shift     persistence.Shift
		start     string
		end       string
		weekdays  string
		until     sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&shift.ID,
		&shift.CompanyID,
		&shift.OwnerEmployeeID,
		&shift.Name,
		&shift.Description,
		&start,
		&end,
		&shift.RecurrenceKind,
		&shift.RecurrenceInterval,
		&weekdays,
		&until,
		&shift.Timezone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Shift{}, mapError(err)
	}

	if shift.Start, err = parseTime(start); err != nil {
		return persistence.Shift{}, fmt.Errorf("sqlite: shift %s start: %w", shift.ID, err)
	}
	if shift.End, err = parseTime(end); err != nil {
		return persistence.Shift{}, fmt.Errorf("sqlite: shift %s end: %w", shift.ID, err)
	}
	if shift.RecurrenceWeekdays, err = decodeWeekdays(weekdays); err != nil {
		return persistence.Shift{}, err
	}
	if shift.RecurrenceUntil, err = scanNullableTime(until); err != nil {
		return persistence.Shift{}, fmt.Errorf("sqlite: shift %s until: %w", shift.ID, err)
	}
	if shift.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Shift{}, fmt.Errorf("sqlite: shift %s created_at: %w", shift.ID, err)
	}
	if shift.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Shift{}, fmt.Errorf("sqlite: shift %s updated_at: %w", shift.ID, err)
	}
	return shift, nil
}
