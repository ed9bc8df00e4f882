package sqlite

import (
	"context"
	"fmt"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository on SQLite.
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository returns a repository bound to db.
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// CreateEmployee inserts a new roster entry.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO employees (id, company_id, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.CompanyID,
		employee.Name,
		employee.Role,
		formatTime(employee.CreatedAt),
		formatTime(employee.UpdatedAt),
	)
	return mapError(err)
}

// GetEmployee retrieves one roster entry by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, role, created_at, updated_at FROM employees WHERE id = ?`, id)

	var (
		employee  persistence.Employee
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&employee.ID, &employee.CompanyID, &employee.Name, &employee.Role, &createdAt, &updatedAt); err != nil {
		return persistence.Employee{}, mapError(err)
	}

	var err error
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("sqlite: employee %s created_at: %w", employee.ID, err)
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("sqlite: employee %s updated_at: %w", employee.ID, err)
	}
	return employee, nil
}

// ListEmployees returns the company roster ordered by creation time then id.
func (r *EmployeeRepository) ListEmployees(ctx context.Context, companyID string) ([]persistence.Employee, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT id, company_id, name, role, created_at, updated_at FROM employees WHERE company_id = ? ORDER BY created_at, id`,
		companyID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		var (
			employee  persistence.Employee
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&employee.ID, &employee.CompanyID, &employee.Name, &employee.Role, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if employee.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: employee %s created_at: %w", employee.ID, err)
		}
		if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: employee %s updated_at: %w", employee.ID, err)
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes one roster entry by id.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
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
