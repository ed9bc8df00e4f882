package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/nessimus/workday-scheduler/internal/application"
)

type contextKey string

const (
	shiftIDContextKey    contextKey = "shift_id"
	employeeIDContextKey contextKey = "employee_id"
)

// ContextWithShiftID injects the shift identifier resolved from the request path.
func ContextWithShiftID(ctx context.Context, shiftID string) context.Context {
	return context.WithValue(ctx, shiftIDContextKey, shiftID)
}

// ShiftIDFromContext extracts a shift identifier previously associated with the context.
func ShiftIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(shiftIDContextKey).(string)
	return id, ok
}

// ContextWithEmployeeID injects the employee identifier resolved from the request path.
func ContextWithEmployeeID(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, employeeIDContextKey, employeeID)
}

// EmployeeIDFromContext extracts an employee identifier previously associated with the context.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDContextKey).(string)
	return id, ok
}

// companyFromRequest resolves the company a request addresses. The
// X-Company-ID header wins over the company_id query parameter; when
// neither is set the configured default company applies.
func companyFromRequest(r *http.Request, fallback string) string {
	if company := strings.TrimSpace(r.Header.Get("X-Company-ID")); company != "" {
		return company
	}
	if company := strings.TrimSpace(r.URL.Query().Get("company_id")); company != "" {
		return company
	}
	return fallback
}

// actorFromRequest resolves the attribution-only actor from the
// X-Employee-ID header. An absent header yields an anonymous actor.
func actorFromRequest(r *http.Request) application.Actor {
	return application.Actor{EmployeeID: strings.TrimSpace(r.Header.Get("X-Employee-ID"))}
}
