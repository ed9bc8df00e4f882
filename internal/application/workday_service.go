package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nessimus/workday-scheduler/internal/availability"
	"github.com/nessimus/workday-scheduler/internal/persistence"
	"github.com/nessimus/workday-scheduler/internal/workday"
)

// WorkdayService coordinates the company activation state machine with the
// roster and stored availability. Sessions are cached per company and
// hydrated from the workday repository on first use; every transition is
// written back before it is reported to the caller.
type WorkdayService struct {
	employees persistence.EmployeeRepository
	schedule  persistence.AvailabilityRepository
	workdays  persistence.WorkdayRepository
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*workday.Session
}

// NewWorkdayService wires dependencies for workday transitions.
func NewWorkdayService(employees persistence.EmployeeRepository, schedule persistence.AvailabilityRepository, workdays persistence.WorkdayRepository, now func() time.Time) *WorkdayService {
	return NewWorkdayServiceWithLogger(employees, schedule, workdays, now, nil)
}

// NewWorkdayServiceWithLogger wires dependencies including a base logger.
func NewWorkdayServiceWithLogger(employees persistence.EmployeeRepository, schedule persistence.AvailabilityRepository, workdays persistence.WorkdayRepository, now func() time.Time, logger *slog.Logger) *WorkdayService {
	if now == nil {
		now = time.Now
	}
	return &WorkdayService{
		employees: employees,
		schedule:  schedule,
		workdays:  workdays,
		now:       now,
		logger:    defaultLogger(logger),
		sessions:  make(map[string]*workday.Session),
	}
}

// UpdateEmployeeSchedule sets an employee's availability status. Setting a
// status that makes the employee auto-eligible also removes any pending
// manual override; an employee who joins automatically needs no override.
func (s *WorkdayService) UpdateEmployeeSchedule(ctx context.Context, params UpdateScheduleParams) (EmployeeScheduleEntry, error) {
	if s == nil || s.schedule == nil {
		return EmployeeScheduleEntry{}, fmt.Errorf("availability repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "workday", "update_schedule", "company_id", params.CompanyID, "employee_id", params.EmployeeID)

	status := availability.Status(params.Status)
	vErr := &ValidationError{}
	if params.CompanyID == "" {
		vErr.add("company_id", "company id is required")
	}
	if params.EmployeeID == "" {
		vErr.add("employee_id", "employee id is required")
	}
	if !status.Valid() {
		vErr.add("status", "status must be one of available, flexible, on_call, suspended")
	}
	if vErr.HasErrors() {
		return EmployeeScheduleEntry{}, vErr
	}

	employee, err := s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		return EmployeeScheduleEntry{}, mapRepoError(err)
	}

	entry := persistence.EmployeeAvailability{
		CompanyID:  params.CompanyID,
		EmployeeID: params.EmployeeID,
		Status:     string(status),
		UpdatedAt:  s.now(),
	}
	if err := s.schedule.UpsertAvailability(ctx, entry); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update schedule", "error", err, "error_kind", ErrorKind(err))
		return EmployeeScheduleEntry{}, err
	}

	if status.AutoEligible() {
		s.mu.Lock()
		session, err := s.sessionLocked(ctx, params.CompanyID)
		if err == nil {
			session.RemoveOverride(params.EmployeeID)
		}
		s.mu.Unlock()
		if err != nil {
			return EmployeeScheduleEntry{}, err
		}
	}

	logger.InfoContext(ctx, "employee schedule updated", "status", string(status))
	return EmployeeScheduleEntry{EmployeeID: employee.ID, Name: employee.Name, Status: status}, nil
}

// MarkOverride stages an employee for manual inclusion in the next
// activation. Overrides only ever add eligibility on top of the
// auto-eligible set; setting the employee auto-eligible again removes the
// staged override.
func (s *WorkdayService) MarkOverride(ctx context.Context, actor Actor, companyID, employeeID string) (WorkdaySnapshot, error) {
	if s == nil || s.workdays == nil {
		return WorkdaySnapshot{}, fmt.Errorf("workday repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "workday", "mark_override", "company_id", companyID, "employee_id", employeeID)

	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return WorkdaySnapshot{}, mapRepoError(err)
	}

	roster, registry, err := s.loadSchedules(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}
	session.AddOverride(employeeID)

	logger.InfoContext(ctx, "override staged", "initiated_by", actor.EmployeeID)
	return s.snapshotLocked(companyID, session, roster, registry), nil
}

// ClearOverride removes a staged manual inclusion.
func (s *WorkdayService) ClearOverride(ctx context.Context, actor Actor, companyID, employeeID string) (WorkdaySnapshot, error) {
	if s == nil || s.workdays == nil {
		return WorkdaySnapshot{}, fmt.Errorf("workday repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "workday", "clear_override", "company_id", companyID, "employee_id", employeeID)

	roster, registry, err := s.loadSchedules(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}
	session.RemoveOverride(employeeID)

	logger.InfoContext(ctx, "override cleared", "initiated_by", actor.EmployeeID)
	return s.snapshotLocked(companyID, session, roster, registry), nil
}

// StartWorkday activates the company workday. The effective active set is
// the union of the auto-eligible roster and any caller supplied employee
// ids; pending manual overrides join the union and are consumed. Start is
// allowed while already active and overwrites the previous activation.
func (s *WorkdayService) StartWorkday(ctx context.Context, params StartWorkdayParams) (WorkdaySnapshot, error) {
	if s == nil || s.workdays == nil {
		return WorkdaySnapshot{}, fmt.Errorf("workday repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "workday", "start", "company_id", params.CompanyID)

	if params.CompanyID == "" {
		vErr := &ValidationError{}
		vErr.add("company_id", "company id is required")
		return WorkdaySnapshot{}, vErr
	}

	roster, registry, err := s.loadSchedules(ctx, params.CompanyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}
	rosterIDs := make([]string, 0, len(roster))
	for _, employee := range roster {
		rosterIDs = append(rosterIDs, employee.ID)
	}
	autoEligible := registry.AutoEligible(rosterIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx, params.CompanyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	overrides := append(append([]string(nil), params.EmployeeIDs...), session.Overrides()...)
	effective := session.Start(autoEligible, overrides, params.Reason, s.now())

	if err := s.persistLocked(ctx, params.CompanyID, session); err != nil {
		logger.ErrorContext(ctx, "failed to persist workday start", "error", err, "error_kind", ErrorKind(err))
		return WorkdaySnapshot{}, err
	}

	logger.InfoContext(ctx, "workday started",
		"initiated_by", params.Actor.EmployeeID,
		"active_employees", len(effective),
	)
	return s.snapshotLocked(params.CompanyID, session, roster, registry), nil
}

// HaltWorkday deactivates the company workday. Only an active workday can
// be halted.
func (s *WorkdayService) HaltWorkday(ctx context.Context, params HaltWorkdayParams) (WorkdaySnapshot, error) {
	if s == nil || s.workdays == nil {
		return WorkdaySnapshot{}, fmt.Errorf("workday repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "workday", "halt", "company_id", params.CompanyID)

	roster, registry, err := s.loadSchedules(ctx, params.CompanyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx, params.CompanyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	if err := session.Halt(params.Reason); err != nil {
		if errors.Is(err, workday.ErrNotActive) {
			return WorkdaySnapshot{}, ErrWorkdayNotActive
		}
		return WorkdaySnapshot{}, err
	}

	if err := s.persistLocked(ctx, params.CompanyID, session); err != nil {
		logger.ErrorContext(ctx, "failed to persist workday halt", "error", err, "error_kind", ErrorKind(err))
		return WorkdaySnapshot{}, err
	}

	logger.InfoContext(ctx, "workday halted", "initiated_by", params.Actor.EmployeeID)
	return s.snapshotLocked(params.CompanyID, session, roster, registry), nil
}

// GetWorkday reports the current activation state together with every
// roster member's availability.
func (s *WorkdayService) GetWorkday(ctx context.Context, companyID string) (WorkdaySnapshot, error) {
	if s == nil || s.workdays == nil {
		return WorkdaySnapshot{}, fmt.Errorf("workday repository not configured")
	}

	roster, registry, err := s.loadSchedules(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx, companyID)
	if err != nil {
		return WorkdaySnapshot{}, err
	}
	return s.snapshotLocked(companyID, session, roster, registry), nil
}

// loadSchedules fetches the roster and builds an availability registry from
// the stored entries. Employees without an entry keep the registry default.
func (s *WorkdayService) loadSchedules(ctx context.Context, companyID string) ([]persistence.Employee, *availability.Registry, error) {
	var roster []persistence.Employee
	if s.employees != nil {
		var err error
		roster, err = s.employees.ListEmployees(ctx, companyID)
		if err != nil {
			return nil, nil, mapRepoError(err)
		}
	}

	registry := availability.NewRegistry()
	if s.schedule != nil {
		entries, err := s.schedule.ListAvailability(ctx, companyID)
		if err != nil {
			return nil, nil, mapRepoError(err)
		}
		for _, entry := range entries {
			registry.Set(entry.EmployeeID, availability.Status(entry.Status))
		}
	}
	return roster, registry, nil
}

// sessionLocked returns the cached session for the company, hydrating it
// from the workday repository on first use. Callers must hold s.mu.
func (s *WorkdayService) sessionLocked(ctx context.Context, companyID string) (*workday.Session, error) {
	if session, ok := s.sessions[companyID]; ok {
		return session, nil
	}

	session := workday.NewSession()
	state, err := s.workdays.GetWorkday(ctx, companyID)
	switch {
	case err == nil:
		session.Status = workday.Status(state.Status)
		session.ActiveEmployeeIDs = append([]string(nil), state.ActiveEmployeeIDs...)
		session.LastActivationReason = state.LastActivationReason
		if state.StartedAt != nil {
			started := *state.StartedAt
			session.StartedAt = &started
		}
	case errors.Is(err, persistence.ErrNotFound):
	default:
		return nil, mapRepoError(err)
	}

	s.sessions[companyID] = session
	return session, nil
}

func (s *WorkdayService) persistLocked(ctx context.Context, companyID string, session *workday.Session) error {
	state := persistence.WorkdayState{
		CompanyID:            companyID,
		Status:               string(session.Status),
		ActiveEmployeeIDs:    append([]string(nil), session.ActiveEmployeeIDs...),
		LastActivationReason: session.LastActivationReason,
		UpdatedAt:            s.now(),
	}
	if session.StartedAt != nil {
		started := *session.StartedAt
		state.StartedAt = &started
	}
	if err := s.workdays.SaveWorkday(ctx, state); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *WorkdayService) snapshotLocked(companyID string, session *workday.Session, roster []persistence.Employee, registry *availability.Registry) WorkdaySnapshot {
	schedules := make([]EmployeeScheduleEntry, 0, len(roster))
	for _, employee := range roster {
		schedules = append(schedules, EmployeeScheduleEntry{
			EmployeeID: employee.ID,
			Name:       employee.Name,
			Status:     registry.Get(employee.ID),
		})
	}

	snapshot := WorkdaySnapshot{
		CompanyID:            companyID,
		Status:               string(session.Status),
		ActiveEmployeeIDs:    append([]string(nil), session.ActiveEmployeeIDs...),
		PendingOverrides:     session.Overrides(),
		EmployeeSchedules:    schedules,
		LastActivationReason: session.LastActivationReason,
	}
	if session.StartedAt != nil {
		started := *session.StartedAt
		snapshot.StartedAt = &started
	}
	return snapshot
}
