package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
	"github.com/nessimus/workday-scheduler/internal/dispatch"
)

func TestServiceFactoryAgainstSQLite(t *testing.T) {
	harness := NewSQLiteHarness(t)
	factory := NewServiceFactory(
		WithClock(NewClock(ReferenceTime())),
		WithIDGenerator(NewIDGenerator("fixture")),
	)
	ctx := context.Background()

	employee := NewEmployeeFixture(WithEmployeeName("Ada Lovelace"))
	if err := harness.Employees.CreateEmployee(ctx, employee.Record()); err != nil {
		t.Fatalf("failed to store employee fixture: %v", err)
	}

	shifts := factory.ShiftService(harness.Shifts)
	created, err := shifts.CreateShift(ctx, application.CreateShiftParams{
		Actor:     application.Actor{EmployeeID: employee.ID},
		CompanyID: employee.CompanyID,
		Input: application.ShiftInput{
			OwnerEmployeeID: employee.ID,
			Name:            "Morning Shift",
			Start:           ReferenceTime(),
			End:             ReferenceTime().Add(8 * time.Hour),
		},
	})
	if err != nil {
		t.Fatalf("failed to create shift: %v", err)
	}
	if created.ID != "fixture-1" {
		t.Fatalf("shift id = %q, want fixture-1", created.ID)
	}

	stored, err := harness.Shifts.GetShift(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to read back shift: %v", err)
	}
	if stored.Name != "Morning Shift" || stored.OwnerEmployeeID != employee.ID {
		t.Fatalf("unexpected stored shift: %+v", stored)
	}

	workdays := factory.WorkdayService(harness.Employees, harness.Availability, harness.Workdays)
	snapshot, err := workdays.StartWorkday(ctx, application.StartWorkdayParams{
		Actor:     application.Actor{EmployeeID: employee.ID},
		CompanyID: employee.CompanyID,
		Reason:    "daily standup",
	})
	if err != nil {
		t.Fatalf("failed to start workday: %v", err)
	}
	if snapshot.Status != "active" || len(snapshot.ActiveEmployeeIDs) != 1 {
		t.Fatalf("unexpected workday snapshot: %+v", snapshot)
	}

	item := NewActionItemFixture(WithActionItemOwner(employee.ID), WithActionItemCompany(employee.CompanyID))
	if err := harness.ActionItems.CreateActionItem(ctx, item.Record()); err != nil {
		t.Fatalf("failed to store action item fixture: %v", err)
	}

	dispatches := factory.DispatchService(harness.ActionItems)
	result, err := dispatches.StartActionItems(ctx, application.StartActionItemsParams{
		Actor:     application.Actor{EmployeeID: employee.ID},
		CompanyID: employee.CompanyID,
		Scope:     dispatch.ScopeCompany,
	})
	if err != nil {
		t.Fatalf("failed to dispatch action items: %v", err)
	}
	if len(result.ActionItemIDs) != 1 || result.ActionItemIDs[0] != item.ID {
		t.Fatalf("dispatched ids = %v, want [%s]", result.ActionItemIDs, item.ID)
	}

	started, err := harness.ActionItems.GetActionItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("failed to read back action item: %v", err)
	}
	if started.StartCount != 1 || started.LastStartedAt == nil {
		t.Fatalf("unexpected start bookkeeping: %+v", started)
	}
}

func TestFixtureDefaults(t *testing.T) {
	t.Parallel()

	shift := NewShiftFixture(WithWeeklyRecurrence(2, time.Monday, time.Wednesday))
	if shift.CompanyID != DefaultCompanyID {
		t.Fatalf("company id = %q, want %q", shift.CompanyID, DefaultCompanyID)
	}
	if got := shift.End.Sub(shift.Start); got != 8*time.Hour {
		t.Fatalf("shift span = %v, want 8h", got)
	}
	record := shift.Record()
	if record.RecurrenceKind != "weekly" || record.RecurrenceInterval != 2 {
		t.Fatalf("unexpected recurrence columns: %+v", record)
	}

	entry := AvailabilityEntry(DefaultCompanyID, "emp-1", "flexible")
	if entry.Status != "flexible" || !entry.UpdatedAt.Equal(ReferenceTime()) {
		t.Fatalf("unexpected availability entry: %+v", entry)
	}
}
