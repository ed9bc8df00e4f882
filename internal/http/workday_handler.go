package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
)

type workdayService interface {
	GetWorkday(ctx context.Context, companyID string) (application.WorkdaySnapshot, error)
	StartWorkday(ctx context.Context, params application.StartWorkdayParams) (application.WorkdaySnapshot, error)
	HaltWorkday(ctx context.Context, params application.HaltWorkdayParams) (application.WorkdaySnapshot, error)
	MarkOverride(ctx context.Context, actor application.Actor, companyID, employeeID string) (application.WorkdaySnapshot, error)
	ClearOverride(ctx context.Context, actor application.Actor, companyID, employeeID string) (application.WorkdaySnapshot, error)
}

type WorkdayHandler struct {
	service        workdayService
	defaultCompany string
	responder      responder
	logger         *slog.Logger
}

func NewWorkdayHandler(service workdayService, defaultCompany string, logger *slog.Logger) *WorkdayHandler {
	base := defaultLogger(logger)
	return &WorkdayHandler{service: service, defaultCompany: defaultCompany, responder: newResponder(base), logger: base}
}

func (h *WorkdayHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "WorkdayHandler", operation, attrs...)
}

func (h *WorkdayHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	logger := h.log(r.Context(), "Get", "company_id", company)

	snapshot, err := h.service.GetWorkday(r.Context(), company)
	if err != nil {
		logger.ErrorContext(r.Context(), "workday fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, workdayResponse{Workday: toWorkdayDTO(snapshot)})
}

func (h *WorkdayHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req startWorkdayRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		h.log(r.Context(), "Start", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode start request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Start", "company_id", company)

	snapshot, err := h.service.StartWorkday(r.Context(), application.StartWorkdayParams{
		Actor:       actorFromRequest(r),
		CompanyID:   company,
		EmployeeIDs: req.EmployeeIDs,
		Reason:      strings.TrimSpace(req.Reason),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "workday start failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("active_employees", len(snapshot.ActiveEmployeeIDs)).InfoContext(r.Context(), "workday started")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, workdayResponse{Workday: toWorkdayDTO(snapshot)})
}

func (h *WorkdayHandler) Halt(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req haltWorkdayRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		h.log(r.Context(), "Halt", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode halt request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Halt", "company_id", company)

	snapshot, err := h.service.HaltWorkday(r.Context(), application.HaltWorkdayParams{
		Actor:     actorFromRequest(r),
		CompanyID: company,
		Reason:    strings.TrimSpace(req.Reason),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "workday halt failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "workday halted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, workdayResponse{Workday: toWorkdayDTO(snapshot)})
}

func (h *WorkdayHandler) MarkOverride(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, "MarkOverride", func(ctx context.Context, company, employeeID string) (application.WorkdaySnapshot, error) {
		return h.service.MarkOverride(ctx, actorFromRequest(r), company, employeeID)
	})
}

func (h *WorkdayHandler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, "ClearOverride", func(ctx context.Context, company, employeeID string) (application.WorkdaySnapshot, error) {
		return h.service.ClearOverride(ctx, actorFromRequest(r), company, employeeID)
	})
}

func (h *WorkdayHandler) override(w http.ResponseWriter, r *http.Request, operation string, apply func(ctx context.Context, company, employeeID string) (application.WorkdaySnapshot, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for override")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	logger := h.log(r.Context(), operation, "company_id", company, "employee_id", employeeID)

	snapshot, err := apply(r.Context(), company, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "override change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "override changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, workdayResponse{Workday: toWorkdayDTO(snapshot)})
}

// decodeOptionalBody decodes a JSON body into dst, treating an empty body
// as an empty request.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}

type startWorkdayRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

type haltWorkdayRequest struct {
	Reason string `json:"reason,omitempty"`
}

type workdayResponse struct {
	Workday workdayDTO `json:"workday"`
}

type workdayDTO struct {
	CompanyID            string        `json:"company_id"`
	Status               string        `json:"status"`
	ActiveEmployeeIDs    []string      `json:"active_employee_ids,omitempty"`
	PendingOverrides     []string      `json:"pending_overrides,omitempty"`
	EmployeeSchedules    []scheduleDTO `json:"employee_schedules,omitempty"`
	LastActivationReason string        `json:"last_activation_reason,omitempty"`
	StartedAt            string        `json:"started_at,omitempty"`
}

func toWorkdayDTO(snapshot application.WorkdaySnapshot) workdayDTO {
	dto := workdayDTO{
		CompanyID:            snapshot.CompanyID,
		Status:               snapshot.Status,
		ActiveEmployeeIDs:    snapshot.ActiveEmployeeIDs,
		PendingOverrides:     snapshot.PendingOverrides,
		LastActivationReason: snapshot.LastActivationReason,
	}
	for _, entry := range snapshot.EmployeeSchedules {
		dto.EmployeeSchedules = append(dto.EmployeeSchedules, toScheduleDTO(entry))
	}
	if snapshot.StartedAt != nil {
		dto.StartedAt = snapshot.StartedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}
