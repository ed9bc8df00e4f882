package persistence

import "time"

// Shift represents a stored shift definition. The recurrence columns mirror
// the rule attached to the shift; duration is always derived from Start/End.
type Shift struct {
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

// Employee represents a roster entry. Name and Role are display attribution
// only and never feed business logic.
type Employee struct {
	ID        string
	CompanyID string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeAvailability is one availability entry; employees without an entry
// default to available.
type EmployeeAvailability struct {
	CompanyID  string
	EmployeeID string
	Status     string
	UpdatedAt  time.Time
}

// WorkdayState is the persisted company-scoped activation singleton.
type WorkdayState struct {
	CompanyID            string
	Status               string
	ActiveEmployeeIDs    []string
	LastActivationReason string
	StartedAt            *time.Time
	UpdatedAt            time.Time
}

// ActionItem represents a stored action item. StartCount and LastStartedAt
// are only ever advanced through MarkStarted.
type ActionItem struct {
	ID              string
	CompanyID       string
	StatusID        string
	OwnerEmployeeID string
	Kind            string
	DueAt           *time.Time
	LastStartedAt   *time.Time
	StartCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
