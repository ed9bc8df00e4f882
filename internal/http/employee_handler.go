package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, actor application.Actor, companyID string, input application.EmployeeInput) (application.Employee, error)
	ListEmployees(ctx context.Context, companyID string) ([]application.Employee, error)
	DeleteEmployee(ctx context.Context, actor application.Actor, employeeID string) error
}

type scheduleUpdater interface {
	UpdateEmployeeSchedule(ctx context.Context, params application.UpdateScheduleParams) (application.EmployeeScheduleEntry, error)
}

type EmployeeHandler struct {
	service        employeeService
	schedules      scheduleUpdater
	defaultCompany string
	responder      responder
	logger         *slog.Logger
}

func NewEmployeeHandler(service employeeService, schedules scheduleUpdater, defaultCompany string, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{
		service:        service,
		schedules:      schedules,
		defaultCompany: defaultCompany,
		responder:      newResponder(base),
		logger:         base,
	}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "company_id", company)

	employee, err := h.service.CreateEmployee(r.Context(), actorFromRequest(r), company, application.EmployeeInput{
		Name: strings.TrimSpace(req.Name),
		Role: strings.TrimSpace(req.Role),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("employee_id", employee.ID).InfoContext(r.Context(), "employee created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	logger := h.log(r.Context(), "List", "company_id", company)

	employees, err := h.service.ListEmployees(r.Context(), company)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(employees)).InfoContext(r.Context(), "employees listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEmployeesResponse{Employees: toEmployeeDTOs(employees)})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	logger := h.log(r.Context(), "Delete", "employee_id", employeeID)
	if err := h.service.DeleteEmployee(r.Context(), actorFromRequest(r), employeeID); err != nil {
		logger.ErrorContext(r.Context(), "employee delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EmployeeHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.schedules == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "UpdateAvailability", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for availability update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateAvailability", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode availability request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateAvailability", "company_id", company, "employee_id", employeeID)

	entry, err := h.schedules.UpdateEmployeeSchedule(r.Context(), application.UpdateScheduleParams{
		Actor:      actorFromRequest(r),
		CompanyID:  company,
		EmployeeID: employeeID,
		Status:     strings.TrimSpace(req.Status),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "availability update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(entry.Status)).InfoContext(r.Context(), "availability updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{Schedule: toScheduleDTO(entry)})
}

type employeeRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type availabilityRequest struct {
	Status string `json:"status"`
}

type employeeResponse struct {
	Employee employeeDTO `json:"employee"`
}

type listEmployeesResponse struct {
	Employees []employeeDTO `json:"employees"`
}

type availabilityResponse struct {
	Schedule scheduleDTO `json:"schedule"`
}

type employeeDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type scheduleDTO struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status"`
}

func toEmployeeDTO(employee application.Employee) employeeDTO {
	return employeeDTO{
		ID:        employee.ID,
		CompanyID: employee.CompanyID,
		Name:      employee.Name,
		Role:      employee.Role,
		CreatedAt: employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEmployeeDTOs(employees []application.Employee) []employeeDTO {
	if len(employees) == 0 {
		return nil
	}
	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	return out
}

func toScheduleDTO(entry application.EmployeeScheduleEntry) scheduleDTO {
	return scheduleDTO{
		EmployeeID: entry.EmployeeID,
		Name:       entry.Name,
		Status:     string(entry.Status),
	}
}
