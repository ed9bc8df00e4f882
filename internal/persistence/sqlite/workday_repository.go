package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// WorkdayRepository implements persistence.WorkdayRepository on SQLite.
// Each company owns at most one workday row.
type WorkdayRepository struct {
	db *DB
}

// NewWorkdayRepository returns a repository bound to db.
func NewWorkdayRepository(db *DB) *WorkdayRepository {
	return &WorkdayRepository{db: db}
}

// GetWorkday retrieves the company's activation state. A company without a
// stored row reports persistence.ErrNotFound; callers materialise the
// implicit idle state.
func (r *WorkdayRepository) GetWorkday(ctx context.Context, companyID string) (persistence.WorkdayState, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT company_id, status, active_employee_ids, last_activation_reason, started_at, updated_at
			FROM workdays WHERE company_id = ?`,
		companyID)

	var (
		state     persistence.WorkdayState
		activeIDs string
		startedAt sql.NullString
		updatedAt string
	)
	if err := row.Scan(&state.CompanyID, &state.Status, &activeIDs, &state.LastActivationReason, &startedAt, &updatedAt); err != nil {
		return persistence.WorkdayState{}, mapError(err)
	}

	state.ActiveEmployeeIDs = decodeIDList(activeIDs)

	var err error
	if state.StartedAt, err = scanNullableTime(startedAt); err != nil {
		return persistence.WorkdayState{}, fmt.Errorf("sqlite: workday %s started_at: %w", companyID, err)
	}
	if state.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.WorkdayState{}, fmt.Errorf("sqlite: workday %s updated_at: %w", companyID, err)
	}
	return state, nil
}

// SaveWorkday inserts or replaces the company's activation state.
func (r *WorkdayRepository) SaveWorkday(ctx context.Context, state persistence.WorkdayState) error {
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO workdays (company_id, status, active_employee_ids, last_activation_reason, started_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (company_id) DO UPDATE SET
				status = excluded.status,
				active_employee_ids = excluded.active_employee_ids,
				last_activation_reason = excluded.last_activation_reason,
				started_at = excluded.started_at,
				updated_at = excluded.updated_at`,
		state.CompanyID,
		state.Status,
		encodeIDList(state.ActiveEmployeeIDs),
		state.LastActivationReason,
		nullableTime(state.StartedAt),
		formatTime(state.UpdatedAt),
	)
	return mapError(err)
}
