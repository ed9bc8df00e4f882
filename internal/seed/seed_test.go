package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

const sampleDocument = `
company_id: acme
employees:
  - id: emp-1
    name: Ada Lovelace
    role: Engineer
    availability: flexible
  - id: emp-2
    name: Grace Hopper
shifts:
  - id: shift-1
    owner: emp-1
    name: Morning Shift
    start: 2024-01-01T09:00:00Z
    end: 2024-01-01T17:00:00Z
    recurrence:
      kind: weekly
      interval: 1
      weekdays: [1, 3]
action_items:
  - id: item-1
    owner: emp-2
    kind: report
    status: open
    due_at: 2024-01-05T12:00:00Z
`

type seedEmployeeRepo struct {
	created   []persistence.Employee
	duplicate map[string]bool
}

func (r *seedEmployeeRepo) CreateEmployee(_ context.Context, employee persistence.Employee) error {
	if r.duplicate[employee.ID] {
		return persistence.ErrDuplicate
	}
	r.created = append(r.created, employee)
	return nil
}

func (r *seedEmployeeRepo) GetEmployee(context.Context, string) (persistence.Employee, error) {
	return persistence.Employee{}, persistence.ErrNotFound
}

func (r *seedEmployeeRepo) ListEmployees(context.Context, string) ([]persistence.Employee, error) {
	return nil, nil
}

func (r *seedEmployeeRepo) DeleteEmployee(context.Context, string) error { return nil }

type seedAvailabilityRepo struct {
	entries []persistence.EmployeeAvailability
}

func (r *seedAvailabilityRepo) UpsertAvailability(_ context.Context, entry persistence.EmployeeAvailability) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *seedAvailabilityRepo) GetAvailability(context.Context, string, string) (persistence.EmployeeAvailability, error) {
	return persistence.EmployeeAvailability{}, persistence.ErrNotFound
}

func (r *seedAvailabilityRepo) ListAvailability(context.Context, string) ([]persistence.EmployeeAvailability, error) {
	return nil, nil
}

type seedShiftRepo struct {
	created []persistence.Shift
}

func (r *seedShiftRepo) CreateShift(_ context.Context, shift persistence.Shift) error {
	r.created = append(r.created, shift)
	return nil
}

func (r *seedShiftRepo) UpdateShift(context.Context, persistence.Shift) error { return nil }

func (r *seedShiftRepo) GetShift(context.Context, string) (persistence.Shift, error) {
	return persistence.Shift{}, persistence.ErrNotFound
}

func (r *seedShiftRepo) ListShifts(context.Context, string) ([]persistence.Shift, error) {
	return nil, nil
}

func (r *seedShiftRepo) DeleteShift(context.Context, string) error { return nil }

type seedActionItemRepo struct {
	created []persistence.ActionItem
}

func (r *seedActionItemRepo) CreateActionItem(_ context.Context, item persistence.ActionItem) error {
	r.created = append(r.created, item)
	return nil
}

func (r *seedActionItemRepo) GetActionItem(context.Context, string) (persistence.ActionItem, error) {
	return persistence.ActionItem{}, persistence.ErrNotFound
}

func (r *seedActionItemRepo) ListActionItems(context.Context, string) ([]persistence.ActionItem, error) {
	return nil, nil
}

func (r *seedActionItemRepo) MarkStarted(context.Context, []string, time.Time) error { return nil }

func (r *seedActionItemRepo) DeleteActionItem(context.Context, string) error { return nil }

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("decodes a full document", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte(sampleDocument))
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if doc.CompanyID != "acme" {
			t.Fatalf("company id = %q, want acme", doc.CompanyID)
		}
		if len(doc.Employees) != 2 || len(doc.Shifts) != 1 || len(doc.ActionItems) != 1 {
			t.Fatalf("unexpected counts: %d employees, %d shifts, %d items",
				len(doc.Employees), len(doc.Shifts), len(doc.ActionItems))
		}
		if doc.Shifts[0].Recurrence == nil || doc.Shifts[0].Recurrence.Kind != "weekly" {
			t.Fatalf("recurrence = %+v, want weekly", doc.Shifts[0].Recurrence)
		}
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		t.Parallel()

		if _, err := Parse([]byte("   \n")); err == nil {
			t.Fatal("expected error for empty payload")
		}
	})

	t.Run("rejects employee without id", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("employees:\n  - name: Nameless\n"))
		if err == nil {
			t.Fatal("expected error for employee without id")
		}
	})

	t.Run("rejects shift with invalid start", func(t *testing.T) {
		t.Parallel()

		payload := "shifts:\n  - id: shift-1\n    start: someday\n    end: 2024-01-01T17:00:00Z\n"
		if _, err := Parse([]byte(payload)); err == nil {
			t.Fatal("expected error for invalid start")
		}
	})
}

func TestImport(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	newImporter := func(employees *seedEmployeeRepo) (Importer, *seedAvailabilityRepo, *seedShiftRepo, *seedActionItemRepo) {
		availability := &seedAvailabilityRepo{}
		shifts := &seedShiftRepo{}
		items := &seedActionItemRepo{}
		importer := Importer{
			Employees:    employees,
			Availability: availability,
			Shifts:       shifts,
			ActionItems:  items,
			Now:          func() time.Time { return now },
		}
		return importer, availability, shifts, items
	}

	t.Run("imports every section", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte(sampleDocument))
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}

		employees := &seedEmployeeRepo{}
		importer, availability, shifts, items := newImporter(employees)

		if err := importer.Import(context.Background(), doc, "fallback"); err != nil {
			t.Fatalf("Import returned error: %v", err)
		}

		if len(employees.created) != 2 {
			t.Fatalf("created %d employees, want 2", len(employees.created))
		}
		if got := employees.created[0].CompanyID; got != "acme" {
			t.Fatalf("company id = %q, want acme", got)
		}
		if len(availability.entries) != 1 {
			t.Fatalf("recorded %d availability entries, want 1", len(availability.entries))
		}
		if got := availability.entries[0].Status; got != "flexible" {
			t.Fatalf("availability status = %q, want flexible", got)
		}

		if len(shifts.created) != 1 {
			t.Fatalf("created %d shifts, want 1", len(shifts.created))
		}
		shift := shifts.created[0]
		if shift.RecurrenceKind != "weekly" {
			t.Fatalf("recurrence kind = %q, want weekly", shift.RecurrenceKind)
		}
		if len(shift.RecurrenceWeekdays) != 2 || shift.RecurrenceWeekdays[0] != time.Monday {
			t.Fatalf("weekdays = %v, want [Monday Wednesday]", shift.RecurrenceWeekdays)
		}
		if !shift.CreatedAt.Equal(now) {
			t.Fatalf("created at = %v, want %v", shift.CreatedAt, now)
		}

		if len(items.created) != 1 {
			t.Fatalf("created %d action items, want 1", len(items.created))
		}
		item := items.created[0]
		if item.StatusID != "open" || item.OwnerEmployeeID != "emp-2" {
			t.Fatalf("unexpected item: %+v", item)
		}
		if item.DueAt == nil || !item.DueAt.Equal(time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("due at = %v, want 2024-01-05T12:00:00Z", item.DueAt)
		}
	})

	t.Run("skips duplicate entries", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte(sampleDocument))
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}

		employees := &seedEmployeeRepo{duplicate: map[string]bool{"emp-1": true}}
		importer, _, _, _ := newImporter(employees)

		if err := importer.Import(context.Background(), doc, ""); err != nil {
			t.Fatalf("Import returned error: %v", err)
		}
		if len(employees.created) != 1 || employees.created[0].ID != "emp-2" {
			t.Fatalf("created = %+v, want only emp-2", employees.created)
		}
	})

	t.Run("falls back to configured company", func(t *testing.T) {
		t.Parallel()

		doc := Document{Employees: []Employee{{ID: "emp-9", Name: "Solo"}}}
		employees := &seedEmployeeRepo{}
		importer, _, _, _ := newImporter(employees)

		if err := importer.Import(context.Background(), doc, "fallback"); err != nil {
			t.Fatalf("Import returned error: %v", err)
		}
		if got := employees.created[0].CompanyID; got != "fallback" {
			t.Fatalf("company id = %q, want fallback", got)
		}
	})

	t.Run("requires some company id", func(t *testing.T) {
		t.Parallel()

		doc := Document{Employees: []Employee{{ID: "emp-9", Name: "Solo"}}}
		employees := &seedEmployeeRepo{}
		importer, _, _, _ := newImporter(employees)

		if err := importer.Import(context.Background(), doc, ""); err == nil {
			t.Fatal("expected error when no company id is available")
		}
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		t.Parallel()

		doc := Document{Employees: []Employee{{ID: "emp-9", Name: "Solo"}}}
		employees := &failingEmployeeRepo{}
		importer, _, _, _ := newImporter(nil)
		importer.Employees = employees

		err := importer.Import(context.Background(), doc, "acme")
		if err == nil || !errors.Is(err, errStorage) {
			t.Fatalf("err = %v, want wrapped storage error", err)
		}
	})
}

var errStorage = errors.New("storage down")

type failingEmployeeRepo struct{ seedEmployeeRepo }

func (r *failingEmployeeRepo) CreateEmployee(context.Context, persistence.Employee) error {
	return errStorage
}
