package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

func actionItemFixture(id string) persistence.ActionItem {
	created := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)
	return persistence.ActionItem{
		ID:              id,
		CompanyID:       "co-1",
		StatusID:        "status-open",
		OwnerEmployeeID: "emp-a",
		Kind:            "task",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestActionItemRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := NewActionItemRepository(newTestDB(t))
	ctx := context.Background()

	due := time.Date(2024, time.February, 10, 17, 0, 0, 0, time.UTC)
	item := actionItemFixture("item-1")
	item.DueAt = &due

	if err := repo.CreateActionItem(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetActionItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StatusID != "status-open" || got.OwnerEmployeeID != "emp-a" || got.Kind != "task" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due) {
		t.Fatalf("dueAt mismatch: %v", got.DueAt)
	}
	if got.LastStartedAt != nil || got.StartCount != 0 {
		t.Fatalf("fresh item should have no start bookkeeping: %+v", got)
	}
}

func TestActionItemRepository_MarkStarted(t *testing.T) {
	t.Parallel()

	repo := NewActionItemRepository(newTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"item-1", "item-2", "item-3"} {
		if err := repo.CreateActionItem(ctx, actionItemFixture(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	first := time.Date(2024, time.February, 5, 9, 0, 0, 0, time.UTC)
	if err := repo.MarkStarted(ctx, []string{"item-1", "item-2"}, first); err != nil {
		t.Fatalf("mark started: %v", err)
	}

	got, err := repo.GetActionItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StartCount != 1 {
		t.Fatalf("startCount = %d, want 1", got.StartCount)
	}
	if got.LastStartedAt == nil || !got.LastStartedAt.Equal(first) {
		t.Fatalf("lastStartedAt = %v, want %v", got.LastStartedAt, first)
	}

	untouched, err := repo.GetActionItem(ctx, "item-3")
	if err != nil {
		t.Fatalf("get untouched: %v", err)
	}
	if untouched.StartCount != 0 || untouched.LastStartedAt != nil {
		t.Fatalf("item-3 must not be marked: %+v", untouched)
	}

	// A second dispatch keeps the count monotonic and moves the instant.
	second := first.Add(2 * time.Hour)
	if err := repo.MarkStarted(ctx, []string{"item-1"}, second); err != nil {
		t.Fatalf("second mark started: %v", err)
	}
	got, err = repo.GetActionItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get after second start: %v", err)
	}
	if got.StartCount != 2 {
		t.Fatalf("startCount = %d, want 2", got.StartCount)
	}
	if got.LastStartedAt == nil || !got.LastStartedAt.Equal(second) {
		t.Fatalf("lastStartedAt = %v, want %v", got.LastStartedAt, second)
	}

	// Unknown ids are skipped without failing the dispatch.
	if err := repo.MarkStarted(ctx, []string{"item-404"}, second); err != nil {
		t.Fatalf("mark started with unknown id: %v", err)
	}
	if err := repo.MarkStarted(ctx, nil, second); err != nil {
		t.Fatalf("mark started with no ids: %v", err)
	}
}

func TestActionItemRepository_ListAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewActionItemRepository(newTestDB(t))
	ctx := context.Background()

	mine := actionItemFixture("item-1")
	foreign := actionItemFixture("item-2")
	foreign.CompanyID = "co-2"

	if err := repo.CreateActionItem(ctx, mine); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateActionItem(ctx, foreign); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	items, err := repo.ListActionItems(ctx, "co-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-1" {
		t.Fatalf("list should be company scoped, got %+v", items)
	}

	if err := repo.DeleteActionItem(ctx, "item-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteActionItem(ctx, "item-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestEmployeeRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()

	created := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	employee := persistence.Employee{
		ID:        "emp-a",
		CompanyID: "co-1",
		Name:      "Avery Quinn",
		Role:      "Dispatcher",
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := repo.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateEmployee(ctx, employee); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("duplicate create: err = %v, want ErrDuplicate", err)
	}

	got, err := repo.GetEmployee(ctx, "emp-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Avery Quinn" || got.Role != "Dispatcher" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	list, err := repo.ListEmployees(ctx, "co-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(list))
	}

	if err := repo.DeleteEmployee(ctx, "emp-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetEmployee(ctx, "emp-a"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
}
