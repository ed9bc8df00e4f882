package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
)

type agendaServiceStub struct {
	horizonCompany string
	horizonRef     time.Time
	horizonDays    int
	days           []application.AgendaDay

	dayView   application.AgendaDayView
	monthView application.AgendaMonthView
}

func (s *agendaServiceStub) HorizonView(ctx context.Context, companyID string, reference time.Time, days int) ([]application.AgendaDay, error) {
	s.horizonCompany = companyID
	s.horizonRef = reference
	s.horizonDays = days
	return s.days, nil
}

func (s *agendaServiceStub) WeekView(ctx context.Context, companyID string, reference time.Time) ([]application.AgendaDay, error) {
	return s.days, nil
}

func (s *agendaServiceStub) DayView(ctx context.Context, companyID string, reference time.Time) (application.AgendaDayView, error) {
	return s.dayView, nil
}

func (s *agendaServiceStub) MonthView(ctx context.Context, companyID string, reference time.Time) (application.AgendaMonthView, error) {
	return s.monthView, nil
}

func newAgendaRouter(svc agendaService, now func() time.Time) http.Handler {
	return NewRouter(RouterConfig{Agenda: NewAgendaHandler(svc, "company-1", now, nil)})
}

func TestAgendaHandlers(t *testing.T) {
	t.Parallel()

	t.Run("horizon defaults to seven days from now", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		svc := &agendaServiceStub{}
		router := newAgendaRouter(svc, func() time.Time { return now })

		req := httptest.NewRequest(http.MethodGet, "/agenda/horizon", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if svc.horizonDays != defaultHorizonDays {
			t.Fatalf("expected default horizon, got %d", svc.horizonDays)
		}
		if !svc.horizonRef.Equal(now) {
			t.Fatalf("expected reference now, got %v", svc.horizonRef)
		}
	})

	t.Run("horizon honours days and at parameters", func(t *testing.T) {
		t.Parallel()

		svc := &agendaServiceStub{}
		router := newAgendaRouter(svc, time.Now)

		req := httptest.NewRequest(http.MethodGet, "/agenda/horizon?days=30&at=2024-01-15", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if svc.horizonDays != 30 {
			t.Fatalf("expected 30 days, got %d", svc.horizonDays)
		}
		want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
		if !svc.horizonRef.Equal(want) {
			t.Fatalf("expected parsed date reference, got %v", svc.horizonRef)
		}
	})

	t.Run("rejects non-positive day counts", func(t *testing.T) {
		t.Parallel()

		router := newAgendaRouter(&agendaServiceStub{}, time.Now)

		req := httptest.NewRequest(http.MethodGet, "/agenda/horizon?days=0", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("rejects malformed reference times", func(t *testing.T) {
		t.Parallel()

		router := newAgendaRouter(&agendaServiceStub{}, time.Now)

		req := httptest.NewRequest(http.MethodGet, "/agenda/week?at=someday", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("departed owners render as unassigned", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
		svc := &agendaServiceStub{days: []application.AgendaDay{{
			Date: "2024-01-01",
			Occurrences: []application.Occurrence{{
				ShiftID: "shift-1",
				OwnerID: "emp-gone",
				Start:   start,
				End:     start.Add(8 * time.Hour),
			}},
		}}}
		router := newAgendaRouter(svc, time.Now)

		req := httptest.NewRequest(http.MethodGet, "/agenda/week", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		var resp agendaDaysResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Days) != 1 || len(resp.Days[0].Occurrences) != 1 {
			t.Fatalf("unexpected agenda payload: %+v", resp)
		}
		if got := resp.Days[0].Occurrences[0].OwnerName; got != unassignedOwnerName {
			t.Fatalf("expected unassigned owner name, got %q", got)
		}
	})

	t.Run("day view serialises hour buckets", func(t *testing.T) {
		t.Parallel()

		svc := &agendaServiceStub{dayView: application.AgendaDayView{
			Date: "2024-01-08",
			Hours: []application.AgendaHour{
				{Hour: 9, Starting: []application.Occurrence{{ShiftID: "shift-1"}}},
				{Hour: 10, Continuing: 1},
			},
		}}
		router := newAgendaRouter(svc, time.Now)

		req := httptest.NewRequest(http.MethodGet, "/agenda/day?at=2024-01-08", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		var resp agendaDayViewResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Date != "2024-01-08" || len(resp.Hours) != 2 {
			t.Fatalf("unexpected day payload: %+v", resp)
		}
		if resp.Hours[1].Continuing != 1 {
			t.Fatalf("expected continuing count, got %+v", resp.Hours[1])
		}
	})

	t.Run("views only accept GET", func(t *testing.T) {
		t.Parallel()

		router := newAgendaRouter(&agendaServiceStub{}, time.Now)

		req := httptest.NewRequest(http.MethodPost, "/agenda/month", strings.NewReader("{}"))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
	})
}

type employeeServiceStub struct {
	created  application.Employee
	employee application.Employee
	list     []application.Employee

	deletedID string
}

func (s *employeeServiceStub) CreateEmployee(ctx context.Context, actor application.Actor, companyID string, input application.EmployeeInput) (application.Employee, error) {
	s.created = application.Employee{ID: s.employee.ID, CompanyID: companyID, Name: input.Name, Role: input.Role}
	return s.created, nil
}

func (s *employeeServiceStub) ListEmployees(ctx context.Context, companyID string) ([]application.Employee, error) {
	return s.list, nil
}

func (s *employeeServiceStub) DeleteEmployee(ctx context.Context, actor application.Actor, employeeID string) error {
	s.deletedID = employeeID
	return nil
}

type scheduleUpdaterStub struct {
	params application.UpdateScheduleParams
	entry  application.EmployeeScheduleEntry
	err    error
}

func (s *scheduleUpdaterStub) UpdateEmployeeSchedule(ctx context.Context, params application.UpdateScheduleParams) (application.EmployeeScheduleEntry, error) {
	s.params = params
	if s.err != nil {
		return application.EmployeeScheduleEntry{}, s.err
	}
	return s.entry, nil
}

func TestEmployeeHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create reports 201 with the stored roster entry", func(t *testing.T) {
		t.Parallel()

		svc := &employeeServiceStub{employee: application.Employee{ID: "emp-1"}}
		router := NewRouter(RouterConfig{Employees: NewEmployeeHandler(svc, &scheduleUpdaterStub{}, "company-1", nil)})

		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"name": "Avery Quinn", "role": "Dispatcher"}`))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if svc.created.Name != "Avery Quinn" || svc.created.CompanyID != "company-1" {
			t.Fatalf("unexpected stored entry: %+v", svc.created)
		}
	})

	t.Run("availability update forwards the path id and status", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleUpdaterStub{entry: application.EmployeeScheduleEntry{EmployeeID: "emp-1", Status: "on_call"}}
		router := NewRouter(RouterConfig{Employees: NewEmployeeHandler(&employeeServiceStub{}, schedules, "company-1", nil)})

		req := httptest.NewRequest(http.MethodPut, "/employees/emp-1/availability", strings.NewReader(`{"status": "on_call"}`))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if schedules.params.EmployeeID != "emp-1" || schedules.params.Status != "on_call" {
			t.Fatalf("unexpected update params: %+v", schedules.params)
		}
	})

	t.Run("delete resolves the path id", func(t *testing.T) {
		t.Parallel()

		svc := &employeeServiceStub{}
		router := NewRouter(RouterConfig{Employees: NewEmployeeHandler(svc, &scheduleUpdaterStub{}, "company-1", nil)})

		req := httptest.NewRequest(http.MethodDelete, "/employees/emp-4", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if svc.deletedID != "emp-4" {
			t.Fatalf("expected delete of emp-4, got %q", svc.deletedID)
		}
	})
}
