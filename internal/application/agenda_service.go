package application

import (
	"context"
	"fmt"
	"time"

	"github.com/nessimus/workday-scheduler/internal/agenda"
	"github.com/nessimus/workday-scheduler/internal/persistence"
	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

// AgendaService projects the company's shift definitions into calendar
// views. The projections are read only and never mutate stored shifts.
type AgendaService struct {
	shifts    persistence.ShiftRepository
	employees persistence.EmployeeRepository
}

// NewAgendaService wires dependencies for agenda projections.
func NewAgendaService(shifts persistence.ShiftRepository, employees persistence.EmployeeRepository) *AgendaService {
	return &AgendaService{shifts: shifts, employees: employees}
}

// agendaLookup carries the display attribution resolved alongside the
// shift definitions. An owner missing from employeeNames left the roster;
// such occurrences render with an empty owner name.
type agendaLookup struct {
	shiftNames    map[string]string
	employeeNames map[string]string
}

// HorizonView expands the company's shifts over the given number of days
// starting at the reference date.
func (s *AgendaService) HorizonView(ctx context.Context, companyID string, reference time.Time, days int) ([]AgendaDay, error) {
	defs, lookup, err := s.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toDays(agenda.BuildHorizon(reference, days, defs), lookup), nil
}

// WeekView expands the company's shifts over the week containing the
// reference date. Weeks start on Sunday.
func (s *AgendaService) WeekView(ctx context.Context, companyID string, reference time.Time) ([]AgendaDay, error) {
	defs, lookup, err := s.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toDays(agenda.BuildWeek(reference, defs), lookup), nil
}

// DayView buckets the reference date's occurrences by hour.
func (s *AgendaService) DayView(ctx context.Context, companyID string, reference time.Time) (AgendaDayView, error) {
	defs, lookup, err := s.load(ctx, companyID)
	if err != nil {
		return AgendaDayView{}, err
	}

	view := agenda.BuildDay(reference, defs)
	out := AgendaDayView{Date: view.Date, Hours: make([]AgendaHour, 0, len(view.Hours))}
	for hour, bucket := range view.Hours {
		out.Hours = append(out.Hours, AgendaHour{
			Hour:       hour,
			Starting:   toOccurrences(bucket.Starting, lookup),
			Continuing: bucket.Continuing,
		})
	}
	return out, nil
}

// MonthView lays the reference date's month out as a whole-week padded
// grid.
func (s *AgendaService) MonthView(ctx context.Context, companyID string, reference time.Time) (AgendaMonthView, error) {
	defs, lookup, err := s.load(ctx, companyID)
	if err != nil {
		return AgendaMonthView{}, err
	}

	view := agenda.BuildMonth(reference, defs)
	out := AgendaMonthView{Month: view.Month, Weeks: make([][]AgendaMonthDay, 0, len(view.Weeks))}
	for _, week := range view.Weeks {
		row := make([]AgendaMonthDay, 0, len(week))
		for _, day := range week {
			row = append(row, AgendaMonthDay{
				Date:         day.Date,
				InFocalMonth: day.InFocalMonth,
				Occurrences:  toOccurrences(day.Occurrences, lookup),
			})
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out, nil
}

// load fetches the company's shift definitions and the display attribution
// used to label occurrences.
func (s *AgendaService) load(ctx context.Context, companyID string) ([]recurrence.Shift, agendaLookup, error) {
	if s == nil || s.shifts == nil {
		return nil, agendaLookup{}, fmt.Errorf("shift repository not configured")
	}

	records, err := s.shifts.ListShifts(ctx, companyID)
	if err != nil {
		return nil, agendaLookup{}, mapRepoError(err)
	}

	defs := make([]recurrence.Shift, 0, len(records))
	shiftNames := make(map[string]string, len(records))
	for _, record := range records {
		defs = append(defs, recurrence.Shift{
			ID:      record.ID,
			OwnerID: record.OwnerEmployeeID,
			Start:   record.Start,
			End:     record.End,
			Rule:    toRule(record),
		})
		shiftNames[record.ID] = record.Name
	}

	employeeNames := make(map[string]string)
	if s.employees != nil {
		roster, err := s.employees.ListEmployees(ctx, companyID)
		if err != nil {
			return nil, agendaLookup{}, mapRepoError(err)
		}
		for _, employee := range roster {
			employeeNames[employee.ID] = employee.Name
		}
	}

	return defs, agendaLookup{shiftNames: shiftNames, employeeNames: employeeNames}, nil
}

func toDays(groups []agenda.DayGroup, lookup agendaLookup) []AgendaDay {
	days := make([]AgendaDay, 0, len(groups))
	for _, group := range groups {
		days = append(days, AgendaDay{
			Date:        group.Date,
			Occurrences: toOccurrences(group.Occurrences, lookup),
		})
	}
	return days
}

func toOccurrences(occurrences []recurrence.Occurrence, lookup agendaLookup) []Occurrence {
	out := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, Occurrence{
			ShiftID:   occ.ShiftID,
			ShiftName: lookup.shiftNames[occ.ShiftID],
			OwnerID:   occ.OwnerID,
			OwnerName: lookup.employeeNames[occ.OwnerID],
			Start:     occ.Start,
			End:       occ.End,
		})
	}
	return out
}
