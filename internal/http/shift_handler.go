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
)

type shiftService interface {
	CreateShift(ctx context.Context, params application.CreateShiftParams) (application.Shift, error)
	UpdateShift(ctx context.Context, params application.UpdateShiftParams) (application.Shift, error)
	DeleteShift(ctx context.Context, actor application.Actor, shiftID string) error
	ListShifts(ctx context.Context, companyID string) ([]application.Shift, error)
}

type ShiftHandler struct {
	service        shiftService
	defaultCompany string
	responder      responder
	logger         *slog.Logger
}

func NewShiftHandler(service shiftService, defaultCompany string, logger *slog.Logger) *ShiftHandler {
	base := defaultLogger(logger)
	return &ShiftHandler{service: service, defaultCompany: defaultCompany, responder: newResponder(base), logger: base}
}

func (h *ShiftHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ShiftHandler", operation, attrs...)
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	actor := actorFromRequest(r)

	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "company_id", company, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode shift request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "company_id", company)

	shift, err := h.service.CreateShift(r.Context(), application.CreateShiftParams{
		Actor:     actor,
		CompanyID: company,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "shift creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("shift_id", shift.ID).InfoContext(r.Context(), "shift created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, shiftResponse{Shift: toShiftDTO(shift)})
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	shiftID, ok := ShiftIDFromContext(r.Context())
	if !ok || strings.TrimSpace(shiftID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing shift id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "shift_id", shiftID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode shift update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Update", "shift_id", shiftID)

	shift, err := h.service.UpdateShift(r.Context(), application.UpdateShiftParams{
		Actor:   actorFromRequest(r),
		ShiftID: shiftID,
		Input:   input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "shift update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "shift updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, shiftResponse{Shift: toShiftDTO(shift)})
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	shiftID, ok := ShiftIDFromContext(r.Context())
	if !ok || strings.TrimSpace(shiftID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing shift id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	logger := h.log(r.Context(), "Delete", "shift_id", shiftID)
	if err := h.service.DeleteShift(r.Context(), actorFromRequest(r), shiftID); err != nil {
		logger.ErrorContext(r.Context(), "shift delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "shift deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	logger := h.log(r.Context(), "List", "company_id", company)

	shifts, err := h.service.ListShifts(r.Context(), company)
	if err != nil {
		logger.ErrorContext(r.Context(), "shift list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(shifts)).InfoContext(r.Context(), "shifts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listShiftsResponse{Shifts: toShiftDTOs(shifts)})
}

type recurrenceRequest struct {
	Kind     string `json:"kind"`
	Interval int    `json:"interval"`
	Weekdays []int  `json:"weekdays"`
	Until    string `json:"until,omitempty"`
}

type shiftRequest struct {
	OwnerEmployeeID string             `json:"owner_employee_id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Start           string             `json:"start"`
	End             string             `json:"end"`
	Recurrence      *recurrenceRequest `json:"recurrence,omitempty"`
	Timezone        string             `json:"timezone"`
}

func (req shiftRequest) toInput() (application.ShiftInput, error) {
	start, err := parseTimestamp(req.Start)
	if err != nil {
		return application.ShiftInput{}, errors.New("start must be RFC 3339")
	}
	end, err := parseTimestamp(req.End)
	if err != nil {
		return application.ShiftInput{}, errors.New("end must be RFC 3339")
	}

	input := application.ShiftInput{
		OwnerEmployeeID: strings.TrimSpace(req.OwnerEmployeeID),
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Start:           start,
		End:             end,
		Timezone:        strings.TrimSpace(req.Timezone),
	}
	if req.Recurrence != nil {
		input.Recurrence = application.RecurrenceInput{
			Kind:     strings.TrimSpace(req.Recurrence.Kind),
			Interval: req.Recurrence.Interval,
			Weekdays: req.Recurrence.Weekdays,
		}
		if req.Recurrence.Until != "" {
			until, err := parseTimestamp(req.Recurrence.Until)
			if err != nil {
				return application.ShiftInput{}, errors.New("recurrence until must be RFC 3339")
			}
			input.Recurrence.Until = &until
		}
	}
	return input, nil
}

// parseTimestamp accepts an RFC 3339 timestamp. The zero string is invalid;
// optional fields guard for emptiness before calling.
func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(value))
}

type shiftResponse struct {
	Shift shiftDTO `json:"shift"`
}

type listShiftsResponse struct {
	Shifts []shiftDTO `json:"shifts"`
}

type recurrenceDTO struct {
	Kind     string `json:"kind"`
	Interval int    `json:"interval"`
	Weekdays []int  `json:"weekdays,omitempty"`
	Until    string `json:"until,omitempty"`
}

type shiftDTO struct {
	ID              string         `json:"id"`
	CompanyID       string         `json:"company_id"`
	OwnerEmployeeID string         `json:"owner_employee_id,omitempty"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Start           string         `json:"start"`
	End             string         `json:"end"`
	DurationMinutes int            `json:"duration_minutes"`
	Recurrence      *recurrenceDTO `json:"recurrence,omitempty"`
	Timezone        string         `json:"timezone,omitempty"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

func toShiftDTO(shift application.Shift) shiftDTO {
	dto := shiftDTO{
		ID:              shift.ID,
		CompanyID:       shift.CompanyID,
		OwnerEmployeeID: shift.OwnerEmployeeID,
		Name:            shift.Name,
		Description:     shift.Description,
		Start:           shift.Start.UTC().Format(time.RFC3339Nano),
		End:             shift.End.UTC().Format(time.RFC3339Nano),
		DurationMinutes: int(shift.Duration.Minutes()),
		Timezone:        shift.Timezone,
		CreatedAt:       shift.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       shift.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if shift.Recurrence.Kind != "" && shift.Recurrence.Kind != "none" {
		rec := recurrenceDTO{
			Kind:     string(shift.Recurrence.Kind),
			Interval: shift.Recurrence.Interval,
		}
		for _, day := range shift.Recurrence.Weekdays {
			rec.Weekdays = append(rec.Weekdays, int(day))
		}
		if shift.Recurrence.Until != nil {
			rec.Until = shift.Recurrence.Until.UTC().Format(time.RFC3339Nano)
		}
		dto.Recurrence = &rec
	}
	return dto
}

func toShiftDTOs(shifts []application.Shift) []shiftDTO {
	if len(shifts) == 0 {
		return nil
	}
	out := make([]shiftDTO, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, toShiftDTO(shift))
	}
	return out
}
