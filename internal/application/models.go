package application

import (
	"time"

	"github.com/nessimus/workday-scheduler/internal/availability"
	"github.com/nessimus/workday-scheduler/internal/dispatch"
	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

// Actor identifies who initiated an operation. Attribution only; the
// services perform no authorization.
type Actor struct {
	EmployeeID string
}

// RecurrenceInput captures caller provided recurrence fields.
type RecurrenceInput struct {
	Kind     string
	Interval int
	Weekdays []int
	Until    *time.Time
}

// ShiftInput captures caller provided shift fields.
type ShiftInput struct {
	OwnerEmployeeID string
	Name            string
	Description     string
	Start           time.Time
	End             time.Time
	Recurrence      RecurrenceInput
	Timezone        string
}

// Shift represents a persisted shift definition exposed by the services.
type Shift struct {
	ID              string
	CompanyID       string
	OwnerEmployeeID string
	Name            string
	Description     string
	Start           time.Time
	End             time.Time
	Duration        time.Duration
	Recurrence      recurrence.Rule
	Timezone        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateShiftParams wraps the data required to create a shift.
type CreateShiftParams struct {
	Actor     Actor
	CompanyID string
	Input     ShiftInput
}

// UpdateShiftParams wraps the data required to update a shift.
type UpdateShiftParams struct {
	Actor   Actor
	ShiftID string
	Input   ShiftInput
}

// Employee represents a roster entry used for display attribution.
type Employee struct {
	ID        string
	CompanyID string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeInput captures caller provided roster fields.
type EmployeeInput struct {
	Name string
	Role string
}

// Occurrence is one derived shift instance enriched with display
// attribution. OwnerName is empty when the owner left the roster; callers
// render such occurrences as unassigned rather than failing.
type Occurrence struct {
	ShiftID   string
	ShiftName string
	OwnerID   string
	OwnerName string
	Start     time.Time
	End       time.Time
}

// AgendaDay is one calendar date of a horizon or week view.
type AgendaDay struct {
	Date        string
	Occurrences []Occurrence
}

// AgendaHour is one hour bucket of a day view.
type AgendaHour struct {
	Hour       int
	Starting   []Occurrence
	Continuing int
}

// AgendaDayView buckets one calendar date by hour.
type AgendaDayView struct {
	Date  string
	Hours []AgendaHour
}

// AgendaMonthDay is one cell of a month grid.
type AgendaMonthDay struct {
	Date         string
	InFocalMonth bool
	Occurrences  []Occurrence
}

// AgendaMonthView is the whole-week padded month grid.
type AgendaMonthView struct {
	Month string
	Weeks [][]AgendaMonthDay
}

// EmployeeScheduleEntry pairs an employee with their availability status.
type EmployeeScheduleEntry struct {
	EmployeeID string
	Name       string
	Status     availability.Status
}

// WorkdaySnapshot is the service view of the company activation state.
// PendingOverrides lists employees staged for manual inclusion in the next
// activation.
type WorkdaySnapshot struct {
	CompanyID            string
	Status               string
	ActiveEmployeeIDs    []string
	PendingOverrides     []string
	EmployeeSchedules    []EmployeeScheduleEntry
	LastActivationReason string
	StartedAt            *time.Time
}

// StartWorkdayParams wraps the data required to activate a workday.
type StartWorkdayParams struct {
	Actor       Actor
	CompanyID   string
	EmployeeIDs []string
	Reason      string
}

// HaltWorkdayParams wraps the data required to deactivate a workday.
type HaltWorkdayParams struct {
	Actor     Actor
	CompanyID string
	Reason    string
}

// UpdateScheduleParams wraps the data required to change an employee's
// availability.
type UpdateScheduleParams struct {
	Actor      Actor
	CompanyID  string
	EmployeeID string
	Status     string
}

// ActionItem represents a stored action item exposed by the services.
type ActionItem struct {
	ID              string
	CompanyID       string
	StatusID        string
	OwnerEmployeeID string
	Kind            string
	DueAt           *time.Time
	LastStartedAt   *time.Time
	StartCount      int
}

// StartActionItemsParams wraps one start dispatch request.
type StartActionItemsParams struct {
	Actor         Actor
	CompanyID     string
	Scope         dispatch.Scope
	EmployeeID    string
	ActionItemIDs []string
}

// DispatchResult reports the outcome of a start dispatch: the resolved
// action items and the correlation token tracking the in-flight request.
type DispatchResult struct {
	ActionItemIDs    []string
	CorrelationToken string
	DispatchedAt     time.Time
}
