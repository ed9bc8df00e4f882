// Package dispatch resolves start requests into concrete action-item
// identifiers and tracks the correlation token of the in-flight dispatch.
package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Scope is the targeting rule of a start request.
type Scope string

const (
	// ScopeCompany targets every action item of the company.
	ScopeCompany Scope = "company"
	// ScopeEmployee targets the action items owned by one employee.
	ScopeEmployee Scope = "employee"
	// ScopeSelection targets an explicit list of action items.
	ScopeSelection Scope = "selection"
)

// Valid reports whether s is a recognised scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeCompany, ScopeEmployee, ScopeSelection:
		return true
	}
	return false
}

// ActionItem is the slice of the store snapshot the dispatcher reads when
// resolving a scope.
type ActionItem struct {
	ID              string
	CompanyID       string
	StatusID        string
	OwnerEmployeeID string
	Kind            string
	DueAt           *time.Time
	LastStartedAt   *time.Time
	StartCount      int
}

// StartRequest describes one start dispatch. It is ephemeral and exists only
// for the duration of the dispatch that consumes it.
type StartRequest struct {
	Scope         Scope
	CompanyID     string
	EmployeeID    string
	ActionItemIDs []string
	InitiatedBy   string
}

// ResolveScope maps the request onto the company snapshot and returns the
// targeted action-item ids. Selection scope returns the requested ids
// verbatim; the caller is trusted to have validated membership.
func ResolveScope(request StartRequest, snapshot []ActionItem) []string {
	switch request.Scope {
	case ScopeCompany:
		ids := make([]string, 0, len(snapshot))
		for _, item := range snapshot {
			if item.CompanyID == request.CompanyID {
				ids = append(ids, item.ID)
			}
		}
		return ids
	case ScopeEmployee:
		var ids []string
		for _, item := range snapshot {
			if item.OwnerEmployeeID != "" && item.OwnerEmployeeID == request.EmployeeID {
				ids = append(ids, item.ID)
			}
		}
		return ids
	case ScopeSelection:
		return append([]string(nil), request.ActionItemIDs...)
	default:
		return nil
	}
}

// Dispatcher mints correlation tokens and tracks the outstanding dispatch.
// Tracking is advisory: a second dispatch while one is outstanding is still
// issued and simply replaces the tracked token.
type Dispatcher struct {
	newToken    func() string
	outstanding string
	selection   []string
}

// NewDispatcher returns a dispatcher minting tokens with newToken, or
// collision-resistant UUIDs when newToken is nil.
func NewDispatcher(newToken func() string) *Dispatcher {
	if newToken == nil {
		newToken = uuid.NewString
	}
	return &Dispatcher{newToken: newToken}
}

// Dispatch resolves the request against the snapshot, mints a fresh
// correlation token and records it as outstanding together with the
// request's item selection.
func (d *Dispatcher) Dispatch(request StartRequest, snapshot []ActionItem) (ids []string, token string) {
	ids = ResolveScope(request, snapshot)
	token = d.newToken()
	d.outstanding = token
	d.selection = append([]string(nil), request.ActionItemIDs...)
	return ids, token
}

// Outstanding returns the currently tracked correlation token, if any.
func (d *Dispatcher) Outstanding() (string, bool) {
	if d == nil || d.outstanding == "" {
		return "", false
	}
	return d.outstanding, true
}

// Acknowledge settles the dispatch identified by token. Only the token of
// the outstanding dispatch settles anything; stale or unknown tokens are
// ignored so a late acknowledgement cannot clear a newer dispatch.
func (d *Dispatcher) Acknowledge(token string) bool {
	if d == nil || token == "" || token != d.outstanding {
		return false
	}
	d.outstanding = ""
	d.selection = nil
	return true
}

// Selection returns the item selection recorded with the outstanding
// dispatch. It is cleared on settlement.
func (d *Dispatcher) Selection() []string {
	if d == nil || len(d.selection) == 0 {
		return nil
	}
	return append([]string(nil), d.selection...)
}
