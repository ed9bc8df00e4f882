// Package availability tracks per-employee availability and derives which
// employees may be activated automatically when a workday starts.
package availability

import "sort"

// Status enumerates the availability states an employee can hold.
type Status string

const (
	// StatusAvailable employees join workday activations automatically.
	StatusAvailable Status = "available"
	// StatusFlexible employees join automatically but signal loose hours.
	StatusFlexible Status = "flexible"
	// StatusOnCall employees join only through a manual override.
	StatusOnCall Status = "on_call"
	// StatusSuspended employees join only through a manual override.
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the recognised statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusFlexible, StatusOnCall, StatusSuspended:
		return true
	}
	return false
}

// AutoEligible reports whether the status permits automatic inclusion in a
// workday activation without a manual override.
func (s Status) AutoEligible() bool {
	return s == StatusAvailable || s == StatusFlexible
}

// Registry holds the availability entries of one company. Employees without
// an entry default to available.
type Registry struct {
	statuses map[string]Status
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{statuses: make(map[string]Status)}
}

// Get returns the employee's status, defaulting to available when absent.
func (r *Registry) Get(employeeID string) Status {
	if r == nil {
		return StatusAvailable
	}
	if status, ok := r.statuses[employeeID]; ok {
		return status
	}
	return StatusAvailable
}

// Set records the employee's status. Unrecognised statuses are ignored.
func (r *Registry) Set(employeeID string, status Status) {
	if r == nil || employeeID == "" || !status.Valid() {
		return
	}
	if r.statuses == nil {
		r.statuses = make(map[string]Status)
	}
	r.statuses[employeeID] = status
}

// AutoEligible filters the given employees down to those whose status allows
// automatic activation. The result is sorted for stable comparisons.
func (r *Registry) AutoEligible(employeeIDs []string) []string {
	eligible := make([]string, 0, len(employeeIDs))
	seen := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if r.Get(id).AutoEligible() {
			eligible = append(eligible, id)
		}
	}
	sort.Strings(eligible)
	return eligible
}

// Snapshot returns a copy of the recorded entries.
func (r *Registry) Snapshot() map[string]Status {
	if r == nil {
		return nil
	}
	out := make(map[string]Status, len(r.statuses))
	for id, status := range r.statuses {
		out[id] = status
	}
	return out
}
