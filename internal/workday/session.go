// Package workday models the company-wide activation state machine that
// tracks which employees are currently on duty.
package workday

import (
	"errors"
	"sort"
	"time"
)

// Status enumerates the activation states of a workday session.
type Status string

const (
	// StatusIdle means no workday is running.
	StatusIdle Status = "idle"
	// StatusActive means a workday is running for the active employee set.
	StatusActive Status = "active"
	// StatusPaused is reserved. No operation currently transitions into it;
	// the state is carried so stored sessions using it remain representable.
	StatusPaused Status = "paused"
)

// ErrNotActive is returned when halting a session that is not active.
var ErrNotActive = errors.New("workday: session is not active")

// Session is the company-scoped activation record. The pending override set
// collects employees manually marked for inclusion before the next start;
// overrides only ever add eligibility on top of the auto-eligible set.
type Session struct {
	Status               Status
	ActiveEmployeeIDs    []string
	LastActivationReason string
	StartedAt            *time.Time

	pendingOverrides map[string]struct{}
}

// NewSession returns an idle session with no activation history.
func NewSession() *Session {
	return &Session{Status: StatusIdle}
}

// AddOverride marks an employee for manual inclusion in the next activation.
func (s *Session) AddOverride(employeeID string) {
	if s == nil || employeeID == "" {
		return
	}
	if s.pendingOverrides == nil {
		s.pendingOverrides = make(map[string]struct{})
	}
	s.pendingOverrides[employeeID] = struct{}{}
}

// RemoveOverride clears a pending manual override. Called when an employee
// becomes auto-eligible again: an employee who joins automatically needs no
// override.
func (s *Session) RemoveOverride(employeeID string) {
	if s == nil {
		return
	}
	delete(s.pendingOverrides, employeeID)
}

// Overrides returns the pending manual override set, sorted.
func (s *Session) Overrides() []string {
	if s == nil || len(s.pendingOverrides) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.pendingOverrides))
	for id := range s.pendingOverrides {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Start activates the workday. It is allowed from idle or paused and may be
// re-issued while active as a re-activation; the previous activation state is
// overwritten (last write wins). The effective active set is the union of the
// auto-eligible set and the supplied overrides. Start consumes the pending
// override set and returns the effective active employee ids.
func (s *Session) Start(autoEligible, overrides []string, reason string, now time.Time) []string {
	if s == nil {
		return nil
	}

	effective := unionSorted(autoEligible, overrides)

	s.Status = StatusActive
	s.ActiveEmployeeIDs = effective
	s.LastActivationReason = reason
	started := now
	s.StartedAt = &started
	s.pendingOverrides = nil

	return append([]string(nil), effective...)
}

// Halt deactivates the workday. Only an active session can be halted.
func (s *Session) Halt(reason string) error {
	if s == nil || s.Status != StatusActive {
		return ErrNotActive
	}

	s.Status = StatusIdle
	s.ActiveEmployeeIDs = nil
	s.LastActivationReason = reason
	s.StartedAt = nil
	return nil
}

func unionSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, id := range a {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	for _, id := range b {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
