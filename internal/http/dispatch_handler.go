package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
	"github.com/nessimus/workday-scheduler/internal/dispatch"
)

type dispatchService interface {
	StartActionItems(ctx context.Context, params application.StartActionItemsParams) (application.DispatchResult, error)
	AcknowledgeDispatch(ctx context.Context, companyID, token string) bool
}

type DispatchHandler struct {
	service        dispatchService
	defaultCompany string
	responder      responder
	logger         *slog.Logger
}

func NewDispatchHandler(service dispatchService, defaultCompany string, logger *slog.Logger) *DispatchHandler {
	base := defaultLogger(logger)
	return &DispatchHandler{service: service, defaultCompany: defaultCompany, responder: newResponder(base), logger: base}
}

func (h *DispatchHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DispatchHandler", operation, attrs...)
}

func (h *DispatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req startItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Start", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode start request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Start", "company_id", company, "scope", req.Scope)

	result, err := h.service.StartActionItems(r.Context(), application.StartActionItemsParams{
		Actor:         actorFromRequest(r),
		CompanyID:     company,
		Scope:         dispatch.Scope(strings.TrimSpace(req.Scope)),
		EmployeeID:    strings.TrimSpace(req.EmployeeID),
		ActionItemIDs: req.ActionItemIDs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "action item dispatch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("item_count", len(result.ActionItemIDs)).InfoContext(r.Context(), "action items dispatched")
	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, dispatchResponse{
		ActionItemIDs:    result.ActionItemIDs,
		CorrelationToken: result.CorrelationToken,
		DispatchedAt:     result.DispatchedAt.UTC().Format(time.RFC3339Nano),
	})
}

func (h *DispatchHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)

	var req acknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Acknowledge", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode acknowledgement", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	token := strings.TrimSpace(req.CorrelationToken)
	if token == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("a correlation token is required"))
		return
	}

	logger := h.log(r.Context(), "Acknowledge", "company_id", company)
	settled := h.service.AcknowledgeDispatch(r.Context(), company, token)
	logger.With("settled", settled).InfoContext(r.Context(), "dispatch acknowledgement processed")

	h.responder.writeJSON(r.Context(), w, http.StatusOK, acknowledgeResponse{Settled: settled})
}

type startItemsRequest struct {
	Scope         string   `json:"scope"`
	EmployeeID    string   `json:"employee_id,omitempty"`
	ActionItemIDs []string `json:"action_item_ids,omitempty"`
}

type acknowledgeRequest struct {
	CorrelationToken string `json:"correlation_token"`
}

type dispatchResponse struct {
	ActionItemIDs    []string `json:"action_item_ids"`
	CorrelationToken string   `json:"correlation_token"`
	DispatchedAt     string   `json:"dispatched_at"`
}

type acknowledgeResponse struct {
	Settled bool `json:"settled"`
}
