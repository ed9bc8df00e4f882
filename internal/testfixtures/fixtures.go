// Package testfixtures provides deterministic builders, clocks and storage
// harnesses shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

var (
	employeeCounter   uint64
	shiftCounter      uint64
	actionItemCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// DefaultCompanyID is the company every fixture belongs to unless overridden.
const DefaultCompanyID = "company-test"

// --------------------------- Employee fixtures ---------------------------

// EmployeeFixture represents a deterministic roster record.
type EmployeeFixture struct {
	ID        string
	CompanyID string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic employee fixture with optional
// overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EmployeeFixture{
		ID:        fmt.Sprintf("emp-%03d", idx),
		CompanyID: DefaultCompanyID,
		Name:      fmt.Sprintf("Employee %03d", idx),
		Role:      "Engineer",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.ID = id
	}
}

// WithEmployeeCompany overrides the company the employee belongs to.
func WithEmployeeCompany(companyID string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.CompanyID = companyID
	}
}

// WithEmployeeName overrides the generated display name.
func WithEmployeeName(name string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Name = name
	}
}

// WithEmployeeRole overrides the generated role label.
func WithEmployeeRole(role string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Role = role
	}
}

// Record converts the fixture into its persistence representation.
func (f EmployeeFixture) Record() persistence.Employee {
	return persistence.Employee{
		ID:        f.ID,
		CompanyID: f.CompanyID,
		Name:      f.Name,
		Role:      f.Role,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Shift fixtures ----------------------------

// ShiftFixture represents a deterministic shift definition.
type ShiftFixture struct {
	ID                 string
	CompanyID          string
	OwnerEmployeeID    string
	Name               string
	Description        string
	Start              time.Time
	End                time.Time
	RecurrenceKind     string
	RecurrenceInterval int
	RecurrenceWeekdays []time.Weekday
	RecurrenceUntil    *time.Time
	Timezone           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ShiftOption configures the generated shift fixture.
type ShiftOption func(*ShiftFixture)

// NewShiftFixture returns a deterministic one-time shift fixture spanning
// eight hours, with optional overrides.
func NewShiftFixture(opts ...ShiftOption) ShiftFixture {
	idx := atomic.AddUint64(&shiftCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	fixture := ShiftFixture{
		ID:             fmt.Sprintf("shift-%03d", idx),
		CompanyID:      DefaultCompanyID,
		Name:           fmt.Sprintf("Shift %03d", idx),
		Start:          start,
		End:            start.Add(8 * time.Hour),
		RecurrenceKind: string(recurrence.KindNone),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithShiftID overrides the generated shift ID.
func WithShiftID(id string) ShiftOption {
	return func(f *ShiftFixture) {
		f.ID = id
	}
}

// WithShiftCompany overrides the company the shift belongs to.
func WithShiftCompany(companyID string) ShiftOption {
	return func(f *ShiftFixture) {
		f.CompanyID = companyID
	}
}

// WithShiftOwner assigns the owning employee.
func WithShiftOwner(employeeID string) ShiftOption {
	return func(f *ShiftFixture) {
		f.OwnerEmployeeID = employeeID
	}
}

// WithShiftName overrides the generated shift name.
func WithShiftName(name string) ShiftOption {
	return func(f *ShiftFixture) {
		f.Name = name
	}
}

// WithShiftWindow overrides the start and end instants.
func WithShiftWindow(start, end time.Time) ShiftOption {
	return func(f *ShiftFixture) {
		f.Start = start
		f.End = end
	}
}

// WithWeeklyRecurrence attaches a weekly rule on the given weekdays.
func WithWeeklyRecurrence(interval int, weekdays ...time.Weekday) ShiftOption {
	return func(f *ShiftFixture) {
		f.RecurrenceKind = string(recurrence.KindWeekly)
		f.RecurrenceInterval = recurrence.ClampInterval(interval)
		f.RecurrenceWeekdays = weekdays
	}
}

// WithRecurrenceUntil bounds the recurrence at the given instant.
func WithRecurrenceUntil(until time.Time) ShiftOption {
	return func(f *ShiftFixture) {
		f.RecurrenceUntil = &until
	}
}

// Record converts the fixture into its persistence representation.
func (f ShiftFixture) Record() persistence.Shift {
	return persistence.Shift{
		ID:                 f.ID,
		CompanyID:          f.CompanyID,
		OwnerEmployeeID:    f.OwnerEmployeeID,
		Name:               f.Name,
		Description:        f.Description,
		Start:              f.Start,
		End:                f.End,
		RecurrenceKind:     f.RecurrenceKind,
		RecurrenceInterval: f.RecurrenceInterval,
		RecurrenceWeekdays: f.RecurrenceWeekdays,
		RecurrenceUntil:    f.RecurrenceUntil,
		Timezone:           f.Timezone,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

// -------------------------- Action item fixtures -------------------------

// ActionItemFixture represents a deterministic action item record.
type ActionItemFixture struct {
	ID              string
	CompanyID       string
	StatusID        string
	OwnerEmployeeID string
	Kind            string
	DueAt           *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActionItemOption configures the generated action item fixture.
type ActionItemOption func(*ActionItemFixture)

// NewActionItemFixture returns a deterministic open action item with optional
// overrides.
func NewActionItemFixture(opts ...ActionItemOption) ActionItemFixture {
	idx := atomic.AddUint64(&actionItemCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ActionItemFixture{
		ID:        fmt.Sprintf("item-%03d", idx),
		CompanyID: DefaultCompanyID,
		StatusID:  "open",
		Kind:      "task",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithActionItemID overrides the generated action item ID.
func WithActionItemID(id string) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.ID = id
	}
}

// WithActionItemCompany overrides the company the item belongs to.
func WithActionItemCompany(companyID string) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.CompanyID = companyID
	}
}

// WithActionItemOwner assigns the owning employee.
func WithActionItemOwner(employeeID string) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.OwnerEmployeeID = employeeID
	}
}

// WithActionItemStatus overrides the status label.
func WithActionItemStatus(status string) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.StatusID = status
	}
}

// WithActionItemDueAt sets the due instant.
func WithActionItemDueAt(due time.Time) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.DueAt = &due
	}
}

// Record converts the fixture into its persistence representation.
func (f ActionItemFixture) Record() persistence.ActionItem {
	return persistence.ActionItem{
		ID:              f.ID,
		CompanyID:       f.CompanyID,
		StatusID:        f.StatusID,
		OwnerEmployeeID: f.OwnerEmployeeID,
		Kind:            f.Kind,
		DueAt:           f.DueAt,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// -------------------------- Availability fixtures ------------------------

// AvailabilityEntry builds an availability record for the given employee.
func AvailabilityEntry(companyID, employeeID, status string) persistence.EmployeeAvailability {
	return persistence.EmployeeAvailability{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Status:     status,
		UpdatedAt:  referenceTime,
	}
}
