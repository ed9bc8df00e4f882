package application

import (
	"context"
	"errors"
	"testing"

	"github.com/nessimus/workday-scheduler/internal/persistence"
)

func TestEmployeeService_CreateEmployee(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		svc := NewEmployeeService(&employeeRepoStub{}, func() string { return "emp-1" }, fixedNow)

		_, err := svc.CreateEmployee(context.Background(), Actor{}, "company-1", EmployeeInput{Name: "   "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Fatalf("expected name error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("stores a trimmed roster entry", func(t *testing.T) {
		repo := &employeeRepoStub{}
		svc := NewEmployeeService(repo, func() string { return "emp-1" }, fixedNow)

		employee, err := svc.CreateEmployee(context.Background(), Actor{EmployeeID: "admin"}, "company-1", EmployeeInput{
			Name: "  Avery Quinn  ",
			Role: " Dispatcher ",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if employee.ID != "emp-1" {
			t.Fatalf("expected generated id, got %q", employee.ID)
		}
		if employee.Name != "Avery Quinn" || employee.Role != "Dispatcher" {
			t.Fatalf("expected trimmed fields, got %q / %q", employee.Name, employee.Role)
		}
		if !repo.created.CreatedAt.Equal(fixedNow()) {
			t.Fatalf("expected created_at from clock, got %v", repo.created.CreatedAt)
		}
	})

	t.Run("maps duplicate ids", func(t *testing.T) {
		svc := NewEmployeeService(&employeeRepoStub{createErr: persistence.ErrDuplicate}, func() string { return "emp-1" }, fixedNow)

		_, err := svc.CreateEmployee(context.Background(), Actor{}, "company-1", EmployeeInput{Name: "Avery"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	repo := &employeeRepoStub{list: rosterOf("company-1", "emp-1", "emp-2")}
	svc := NewEmployeeService(repo, nil, fixedNow)

	employees, err := svc.ListEmployees(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	t.Run("maps unknown employees", func(t *testing.T) {
		svc := NewEmployeeService(&employeeRepoStub{}, nil, fixedNow)

		err := svc.DeleteEmployee(context.Background(), Actor{}, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("removes the roster entry", func(t *testing.T) {
		repo := &employeeRepoStub{list: rosterOf("company-1", "emp-1")}
		svc := NewEmployeeService(repo, nil, fixedNow)

		if err := svc.DeleteEmployee(context.Background(), Actor{EmployeeID: "admin"}, "emp-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deletedID != "emp-1" {
			t.Fatalf("expected delete of emp-1, got %q", repo.deletedID)
		}
	})
}
