// Package seed loads an initial roster, shift catalog and action-item
// backlog from a YAML file so a fresh database starts with usable data.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nessimus/workday-scheduler/internal/persistence"
	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

// Recurrence mirrors the optional recurrence block of a seeded shift.
type Recurrence struct {
	Kind     string `yaml:"kind"`
	Interval int    `yaml:"interval"`
	Weekdays []int  `yaml:"weekdays"`
	Until    string `yaml:"until"`
}

// Employee is one seeded roster entry.
type Employee struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	Availability string `yaml:"availability"`
}

// Shift is one seeded shift definition.
type Shift struct {
	ID         string      `yaml:"id"`
	Owner      string      `yaml:"owner"`
	Name       string      `yaml:"name"`
	Start      string      `yaml:"start"`
	End        string      `yaml:"end"`
	Timezone   string      `yaml:"timezone"`
	Recurrence *Recurrence `yaml:"recurrence"`
}

// ActionItem is one seeded action item.
type ActionItem struct {
	ID     string `yaml:"id"`
	Owner  string `yaml:"owner"`
	Kind   string `yaml:"kind"`
	Status string `yaml:"status"`
	DueAt  string `yaml:"due_at"`
}

// Document is the parsed seed file.
type Document struct {
	CompanyID   string       `yaml:"company_id"`
	Employees   []Employee   `yaml:"employees"`
	Shifts      []Shift      `yaml:"shifts"`
	ActionItems []ActionItem `yaml:"action_items"`
}

// Parse decodes and validates a seed payload.
func Parse(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, errors.New("seed: document is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("seed: decode document: %w", err)
	}

	for i, employee := range doc.Employees {
		if strings.TrimSpace(employee.ID) == "" {
			return Document{}, fmt.Errorf("seed: employee %d has no id", i)
		}
		if strings.TrimSpace(employee.Name) == "" {
			return Document{}, fmt.Errorf("seed: employee %s has no name", employee.ID)
		}
	}
	for i, shift := range doc.Shifts {
		if strings.TrimSpace(shift.ID) == "" {
			return Document{}, fmt.Errorf("seed: shift %d has no id", i)
		}
		if _, err := time.Parse(time.RFC3339, shift.Start); err != nil {
			return Document{}, fmt.Errorf("seed: shift %s has invalid start: %w", shift.ID, err)
		}
		if _, err := time.Parse(time.RFC3339, shift.End); err != nil {
			return Document{}, fmt.Errorf("seed: shift %s has invalid end: %w", shift.ID, err)
		}
		if shift.Recurrence != nil && shift.Recurrence.Until != "" {
			if _, err := time.Parse(time.RFC3339, shift.Recurrence.Until); err != nil {
				return Document{}, fmt.Errorf("seed: shift %s has invalid until: %w", shift.ID, err)
			}
		}
	}
	for i, item := range doc.ActionItems {
		if strings.TrimSpace(item.ID) == "" {
			return Document{}, fmt.Errorf("seed: action item %d has no id", i)
		}
		if item.DueAt != "" {
			if _, err := time.Parse(time.RFC3339, item.DueAt); err != nil {
				return Document{}, fmt.Errorf("seed: action item %s has invalid due_at: %w", item.ID, err)
			}
		}
	}

	return doc, nil
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return doc, nil
}

// Importer writes seed documents into the repositories. Entries whose ids
// already exist are skipped so re-importing the same file is harmless.
type Importer struct {
	Employees    persistence.EmployeeRepository
	Availability persistence.AvailabilityRepository
	Shifts       persistence.ShiftRepository
	ActionItems  persistence.ActionItemRepository
	Now          func() time.Time
	Logger       *slog.Logger
}

// Import applies the document to the repositories. The document's company
// id wins over fallbackCompany when both are set.
func (im Importer) Import(ctx context.Context, doc Document, fallbackCompany string) error {
	company := strings.TrimSpace(doc.CompanyID)
	if company == "" {
		company = fallbackCompany
	}
	if company == "" {
		return errors.New("seed: no company id")
	}

	now := time.Now
	if im.Now != nil {
		now = im.Now
	}
	logger := im.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "seed", "company_id", company)

	var imported, skipped int

	for _, entry := range doc.Employees {
		record := persistence.Employee{
			ID:        entry.ID,
			CompanyID: company,
			Name:      strings.TrimSpace(entry.Name),
			Role:      strings.TrimSpace(entry.Role),
			CreatedAt: now(),
			UpdatedAt: now(),
		}
		switch err := im.Employees.CreateEmployee(ctx, record); {
		case err == nil:
			imported++
		case errors.Is(err, persistence.ErrDuplicate):
			skipped++
		default:
			return fmt.Errorf("seed: employee %s: %w", entry.ID, err)
		}

		if status := strings.TrimSpace(entry.Availability); status != "" && im.Availability != nil {
			err := im.Availability.UpsertAvailability(ctx, persistence.EmployeeAvailability{
				CompanyID:  company,
				EmployeeID: entry.ID,
				Status:     status,
				UpdatedAt:  now(),
			})
			if err != nil {
				return fmt.Errorf("seed: availability for %s: %w", entry.ID, err)
			}
		}
	}

	for _, entry := range doc.Shifts {
		record, err := toShiftRecord(entry, company, now())
		if err != nil {
			return err
		}
		switch err := im.Shifts.CreateShift(ctx, record); {
		case err == nil:
			imported++
		case errors.Is(err, persistence.ErrDuplicate):
			skipped++
		default:
			return fmt.Errorf("seed: shift %s: %w", entry.ID, err)
		}
	}

	for _, entry := range doc.ActionItems {
		record := persistence.ActionItem{
			ID:              entry.ID,
			CompanyID:       company,
			StatusID:        strings.TrimSpace(entry.Status),
			OwnerEmployeeID: strings.TrimSpace(entry.Owner),
			Kind:            strings.TrimSpace(entry.Kind),
			CreatedAt:       now(),
			UpdatedAt:       now(),
		}
		if entry.DueAt != "" {
			due, err := time.Parse(time.RFC3339, entry.DueAt)
			if err != nil {
				return fmt.Errorf("seed: action item %s has invalid due_at: %w", entry.ID, err)
			}
			record.DueAt = &due
		}
		switch err := im.ActionItems.CreateActionItem(ctx, record); {
		case err == nil:
			imported++
		case errors.Is(err, persistence.ErrDuplicate):
			skipped++
		default:
			return fmt.Errorf("seed: action item %s: %w", entry.ID, err)
		}
	}

	logger.InfoContext(ctx, "seed import finished", "imported", imported, "skipped", skipped)
	return nil
}

func toShiftRecord(entry Shift, company string, now time.Time) (persistence.Shift, error) {
	start, err := time.Parse(time.RFC3339, entry.Start)
	if err != nil {
		return persistence.Shift{}, fmt.Errorf("seed: shift %s has invalid start: %w", entry.ID, err)
	}
	end, err := time.Parse(time.RFC3339, entry.End)
	if err != nil {
		return persistence.Shift{}, fmt.Errorf("seed: shift %s has invalid end: %w", entry.ID, err)
	}

	record := persistence.Shift{
		ID:              entry.ID,
		CompanyID:       company,
		OwnerEmployeeID: strings.TrimSpace(entry.Owner),
		Name:            strings.TrimSpace(entry.Name),
		Start:           start,
		End:             end,
		RecurrenceKind:  string(recurrence.KindNone),
		Timezone:        strings.TrimSpace(entry.Timezone),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if entry.Recurrence != nil {
		record.RecurrenceKind = strings.TrimSpace(entry.Recurrence.Kind)
		record.RecurrenceInterval = recurrence.ClampInterval(entry.Recurrence.Interval)
		for _, day := range entry.Recurrence.Weekdays {
			record.RecurrenceWeekdays = append(record.RecurrenceWeekdays, time.Weekday(day))
		}
		if entry.Recurrence.Until != "" {
			until, err := time.Parse(time.RFC3339, entry.Recurrence.Until)
			if err != nil {
				return persistence.Shift{}, fmt.Errorf("seed: shift %s has invalid until: %w", entry.ID, err)
			}
			record.RecurrenceUntil = &until
		}
	}

	return record, nil
}
