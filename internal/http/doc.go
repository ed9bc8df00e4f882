// Package http provides HTTP handlers and middleware for the workday
// scheduler API.
//
// The router exposes the following endpoints:
//   - GET /shifts, POST /shifts, PUT /shifts/{id}, DELETE /shifts/{id}: shift
//     definition management exchanging the `shiftDTO` payload defined in
//     shift_handler.go. Recurrence rules ride along as an optional nested
//     object.
//   - GET /agenda/horizon, GET /agenda/week, GET /agenda/day,
//     GET /agenda/month: calendar projections of the expanded shift
//     occurrences. All views accept an `at` reference time (RFC 3339 or
//     YYYY-MM-DD, defaulting to now); horizon additionally accepts `days`.
//   - GET /employees, POST /employees, DELETE /employees/{id}: roster
//     management exchanging the `employeeDTO` payload defined in
//     employee_handler.go.
//   - PUT /employees/{id}/availability: sets the employee's availability
//     status (available, flexible, on_call, suspended).
//   - GET /workday, POST /workday/start, POST /workday/halt: company workday
//     activation. Start accepts optional explicit employee ids that join the
//     auto-eligible set.
//   - POST /workday/overrides/{employeeId}, DELETE /workday/overrides/{employeeId}:
//     stage or unstage a manual inclusion consumed by the next activation.
//   - POST /action-items/start: dispatches a start request scoped to the
//     company, one employee, or an explicit selection, returning the minted
//     correlation token.
//   - POST /action-items/ack: settles the outstanding dispatch identified by
//     its correlation token.
//
// Every request may address a company through the X-Company-ID header or the
// company_id query parameter; requests without either use the configured
// default company. The X-Employee-ID header attributes mutations to an actor
// and is never authenticated.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
