package persistence

import (
	"context"
	"time"
)

// ShiftRepository exposes CRUD operations for shift definitions.
type ShiftRepository interface {
	CreateShift(ctx context.Context, shift Shift) error
	UpdateShift(ctx context.Context, shift Shift) error
	GetShift(ctx context.Context, id string) (Shift, error)
	ListShifts(ctx context.Context, companyID string) ([]Shift, error)
	DeleteShift(ctx context.Context, id string) error
}

// EmployeeRepository exposes CRUD operations for the company roster.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context, companyID string) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// AvailabilityRepository stores per-employee availability entries.
type AvailabilityRepository interface {
	UpsertAvailability(ctx context.Context, entry EmployeeAvailability) error
	GetAvailability(ctx context.Context, companyID, employeeID string) (EmployeeAvailability, error)
	ListAvailability(ctx context.Context, companyID string) ([]EmployeeAvailability, error)
}

// WorkdayRepository stores the company-scoped workday activation singleton.
type WorkdayRepository interface {
	GetWorkday(ctx context.Context, companyID string) (WorkdayState, error)
	SaveWorkday(ctx context.Context, state WorkdayState) error
}

// ActionItemRepository stores action items. MarkStarted advances StartCount
// monotonically and sets LastStartedAt to the dispatch instant for every
// listed item.
type ActionItemRepository interface {
	CreateActionItem(ctx context.Context, item ActionItem) error
	GetActionItem(ctx context.Context, id string) (ActionItem, error)
	ListActionItems(ctx context.Context, companyID string) ([]ActionItem, error)
	MarkStarted(ctx context.Context, ids []string, at time.Time) error
	DeleteActionItem(ctx context.Context, id string) error
}
