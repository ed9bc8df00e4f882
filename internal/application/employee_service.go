package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// EmployeeService manages the company roster. Roster entries carry display
// attribution only; eligibility lives in the availability entries.
type EmployeeService struct {
	employees   persistence.EmployeeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for roster operations.
func NewEmployeeService(employees persistence.EmployeeRepository, idGenerator func() string, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, idGenerator, now, nil)
}

// NewEmployeeServiceWithLogger wires dependencies including a base logger.
func NewEmployeeServiceWithLogger(employees persistence.EmployeeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateEmployee adds an employee to the roster.
func (s *EmployeeService) CreateEmployee(ctx context.Context, actor Actor, companyID string, input EmployeeInput) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "employee", "create", "company_id", companyID)

	vErr := &ValidationError{}
	if companyID == "" {
		vErr.add("company_id", "company id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	now := s.now()
	record := persistence.Employee{
		ID:        s.idGenerator(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(input.Name),
		Role:      strings.TrimSpace(input.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.employees.CreateEmployee(ctx, record); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
		return Employee{}, err
	}

	logger.InfoContext(ctx, "employee created", "employee_id", record.ID, "initiated_by", actor.EmployeeID)
	return toEmployee(record), nil
}

// GetEmployee retrieves one roster entry.
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}
	record, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}
	return toEmployee(record), nil
}

// ListEmployees enumerates the company roster.
func (s *EmployeeService) ListEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	if s == nil || s.employees == nil {
		return nil, fmt.Errorf("employee repository not configured")
	}
	records, err := s.employees.ListEmployees(ctx, companyID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	employees := make([]Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, toEmployee(record))
	}
	return employees, nil
}

// DeleteEmployee removes an employee from the roster. Shifts owned by the
// departed employee survive and render as unassigned.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, actor Actor, employeeID string) error {
	if s == nil || s.employees == nil {
		return fmt.Errorf("employee repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "employee", "delete", "employee_id", employeeID)

	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "employee deleted", "initiated_by", actor.EmployeeID)
	return nil
}

func toEmployee(record persistence.Employee) Employee {
	return Employee{
		ID:        record.ID,
		CompanyID: record.CompanyID,
		Name:      record.Name,
		Role:      record.Role,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
