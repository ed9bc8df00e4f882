package sqlite

import (
	"context"
	"fmt"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// AvailabilityRepository implements persistence.AvailabilityRepository on
// SQLite. One row per employee per company.
type AvailabilityRepository struct {
	db *DB
}

// NewAvailabilityRepository returns a repository bound to db.
func NewAvailabilityRepository(db *DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// UpsertAvailability inserts or replaces the employee's availability entry.
func (r *AvailabilityRepository) UpsertAvailability(ctx context.Context, entry persistence.EmployeeAvailability) error {
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO employee_availability (company_id, employee_id, status, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (company_id, employee_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		entry.CompanyID,
		entry.EmployeeID,
		entry.Status,
		formatTime(entry.UpdatedAt),
	)
	return mapError(err)
}

// GetAvailability retrieves one employee's entry.
func (r *AvailabilityRepository) GetAvailability(ctx context.Context, companyID, employeeID string) (persistence.EmployeeAvailability, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT company_id, employee_id, status, updated_at FROM employee_availability
			WHERE company_id = ? AND employee_id = ?`,
		companyID, employeeID)

	var (
		entry     persistence.EmployeeAvailability
		updatedAt string
	)
	if err := row.Scan(&entry.CompanyID, &entry.EmployeeID, &entry.Status, &updatedAt); err != nil {
		return persistence.EmployeeAvailability{}, mapError(err)
	}

	var err error
	if entry.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.EmployeeAvailability{}, fmt.Errorf("sqlite: availability %s updated_at: %w", entry.EmployeeID, err)
	}
	return entry, nil
}

// ListAvailability returns the company's availability entries ordered by
// employee id.
func (r *AvailabilityRepository) ListAvailability(ctx context.Context, companyID string) ([]persistence.EmployeeAvailability, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT company_id, employee_id, status, updated_at FROM employee_availability
			WHERE company_id = ? ORDER BY employee_id`,
		companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.EmployeeAvailability
	for rows.Next() {
		var (
			entry     persistence.EmployeeAvailability
			updatedAt string
		)
		if err := rows.Scan(&entry.CompanyID, &entry.EmployeeID, &entry.Status, &updatedAt); err != nil {
			return nil, err
		}
		if entry.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: availability %s updated_at: %w", entry.EmployeeID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
