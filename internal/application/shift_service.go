package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

// ShiftService orchestrates validation and persistence for shift
// definitions.
type ShiftService struct {
	shifts      persistence.ShiftRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewShiftService wires dependencies for shift operations.
func NewShiftService(shifts persistence.ShiftRepository, idGenerator func() string, now func() time.Time) *ShiftService {
	return NewShiftServiceWithLogger(shifts, idGenerator, now, nil)
}

// NewShiftServiceWithLogger wires dependencies including a base logger.
func NewShiftServiceWithLogger(shifts persistence.ShiftRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ShiftService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ShiftService{
		shifts:      shifts,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateShift validates the request before delegating to persistence.
func (s *ShiftService) CreateShift(ctx context.Context, params CreateShiftParams) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "shift", "create", "company_id", params.CompanyID)

	vErr := &ValidationError{}
	if strings.TrimSpace(params.CompanyID) == "" {
		vErr.add("company_id", "company id is required")
	}
	validateShiftCore(params.Input, vErr)
	if vErr.HasErrors() {
		return Shift{}, vErr
	}

	now := s.now()
	record := persistence.Shift{
		ID:              s.idGenerator(),
		CompanyID:       params.CompanyID,
		OwnerEmployeeID: params.Input.OwnerEmployeeID,
		Name:            strings.TrimSpace(params.Input.Name),
		Description:     params.Input.Description,
		Start:           params.Input.Start,
		End:             params.Input.End,
		Timezone:        params.Input.Timezone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	applyRecurrence(&record, params.Input.Recurrence)

	if err := s.shifts.CreateShift(ctx, record); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create shift", "error", err, "error_kind", ErrorKind(err))
		return Shift{}, err
	}

	logger.InfoContext(ctx, "shift created", "shift_id", record.ID)
	return toShift(record), nil
}

// UpdateShift validates the request before updating persistence state. The
// shift duration is always recomputed from the submitted start and end.
func (s *ShiftService) UpdateShift(ctx context.Context, params UpdateShiftParams) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "shift", "update", "shift_id", params.ShiftID)

	existing, err := s.shifts.GetShift(ctx, params.ShiftID)
	if err != nil {
		return Shift{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateShiftCore(params.Input, vErr)
	if vErr.HasErrors() {
		return Shift{}, vErr
	}

	updated := existing
	updated.OwnerEmployeeID = params.Input.OwnerEmployeeID
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Description = params.Input.Description
	updated.Start = params.Input.Start
	updated.End = params.Input.End
	updated.Timezone = params.Input.Timezone
	updated.UpdatedAt = s.now()
	applyRecurrence(&updated, params.Input.Recurrence)

	if err := s.shifts.UpdateShift(ctx, updated); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update shift", "error", err, "error_kind", ErrorKind(err))
		return Shift{}, err
	}

	logger.InfoContext(ctx, "shift updated")
	return toShift(updated), nil
}

// DeleteShift removes a shift definition.
func (s *ShiftService) DeleteShift(ctx context.Context, actor Actor, shiftID string) error {
	if s == nil || s.shifts == nil {
		return fmt.Errorf("shift repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "shift", "delete", "shift_id", shiftID)

	if err := s.shifts.DeleteShift(ctx, shiftID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete shift", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "shift deleted", "initiated_by", actor.EmployeeID)
	return nil
}

// GetShift retrieves one shift definition.
func (s *ShiftService) GetShift(ctx context.Context, shiftID string) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift repository not configured")
	}
	record, err := s.shifts.GetShift(ctx, shiftID)
	if err != nil {
		return Shift{}, mapRepoError(err)
	}
	return toShift(record), nil
}

// ListShifts enumerates the company's shift definitions ordered by start.
func (s *ShiftService) ListShifts(ctx context.Context, companyID string) ([]Shift, error) {
	if s == nil || s.shifts == nil {
		return nil, fmt.Errorf("shift repository not configured")
	}
	records, err := s.shifts.ListShifts(ctx, companyID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	shifts := make([]Shift, 0, len(records))
	for _, record := range records {
		shifts = append(shifts, toShift(record))
	}
	return shifts, nil
}

func validateShiftCore(input ShiftInput, vErr *ValidationError) {
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}

	switch input.Recurrence.Kind {
	case "", string(recurrence.KindNone):
	case string(recurrence.KindWeekly):
		for _, day := range input.Recurrence.Weekdays {
			if day < 0 || day > 6 {
				vErr.add("recurrence.weekdays", "weekdays must be between 0 and 6")
				break
			}
		}
	default:
		vErr.add("recurrence.kind", "recurrence kind must be none or weekly")
	}

	if input.Recurrence.Until != nil && !input.Start.IsZero() && input.Recurrence.Until.Before(input.Start) {
		vErr.add("recurrence.until", "until must not precede start")
	}
}

// applyRecurrence normalises the submitted recurrence onto the record: the
// interval is clamped to the supported range and the weekday set is sorted
// and deduplicated.
func applyRecurrence(record *persistence.Shift, input RecurrenceInput) {
	kind := input.Kind
	if kind == "" {
		kind = string(recurrence.KindNone)
	}
	record.RecurrenceKind = kind
	record.RecurrenceInterval = recurrence.ClampInterval(input.Interval)
	record.RecurrenceUntil = nil
	record.RecurrenceWeekdays = nil

	if kind != string(recurrence.KindWeekly) {
		return
	}

	seen := make(map[int]struct{}, len(input.Weekdays))
	days := make([]int, 0, len(input.Weekdays))
	for _, day := range input.Weekdays {
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Ints(days)

	weekdays := make([]time.Weekday, 0, len(days))
	for _, day := range days {
		weekdays = append(weekdays, time.Weekday(day))
	}
	record.RecurrenceWeekdays = weekdays

	if input.Until != nil {
		until := *input.Until
		record.RecurrenceUntil = &until
	}
}

func toShift(record persistence.Shift) Shift {
	return Shift{
		ID:              record.ID,
		CompanyID:       record.CompanyID,
		OwnerEmployeeID: record.OwnerEmployeeID,
		Name:            record.Name,
		Description:     record.Description,
		Start:           record.Start,
		End:             record.End,
		Duration:        record.End.Sub(record.Start),
		Recurrence:      toRule(record),
		Timezone:        record.Timezone,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func toRule(record persistence.Shift) recurrence.Rule {
	rule := recurrence.Rule{
		Kind:     recurrence.Kind(record.RecurrenceKind),
		Interval: record.RecurrenceInterval,
		Weekdays: append([]time.Weekday(nil), record.RecurrenceWeekdays...),
	}
	if rule.Kind == "" {
		rule.Kind = recurrence.KindNone
	}
	if record.RecurrenceUntil != nil {
		until := *record.RecurrenceUntil
		rule.Until = &until
	}
	return rule
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}
