package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
)

type agendaService interface {
	HorizonView(ctx context.Context, companyID string, reference time.Time, days int) ([]application.AgendaDay, error)
	WeekView(ctx context.Context, companyID string, reference time.Time) ([]application.AgendaDay, error)
	DayView(ctx context.Context, companyID string, reference time.Time) (application.AgendaDayView, error)
	MonthView(ctx context.Context, companyID string, reference time.Time) (application.AgendaMonthView, error)
}

// defaultHorizonDays is the horizon length when the request does not name
// one.
const defaultHorizonDays = 7

type AgendaHandler struct {
	service        agendaService
	defaultCompany string
	horizonDays    int
	now            func() time.Time
	responder      responder
	logger         *slog.Logger
}

func NewAgendaHandler(service agendaService, defaultCompany string, now func() time.Time, logger *slog.Logger) *AgendaHandler {
	if now == nil {
		now = time.Now
	}
	base := defaultLogger(logger)
	return &AgendaHandler{service: service, defaultCompany: defaultCompany, horizonDays: defaultHorizonDays, now: now, responder: newResponder(base), logger: base}
}

// WithHorizonDays overrides the horizon length used when a request does not
// name one. Non-positive values keep the current setting.
func (h *AgendaHandler) WithHorizonDays(days int) *AgendaHandler {
	if h != nil && days > 0 {
		h.horizonDays = days
	}
	return h
}

func (h *AgendaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AgendaHandler", operation, attrs...)
}

func (h *AgendaHandler) Horizon(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	reference, err := h.reference(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	days := h.horizonDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}

	logger := h.log(r.Context(), "Horizon", "company_id", company, "days", days)

	view, err := h.service.HorizonView(r.Context(), company, reference, days)
	if err != nil {
		logger.ErrorContext(r.Context(), "horizon view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "horizon view rendered")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaDaysResponse{Days: toAgendaDayDTOs(view)})
}

func (h *AgendaHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	reference, err := h.reference(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Week", "company_id", company)

	view, err := h.service.WeekView(r.Context(), company, reference)
	if err != nil {
		logger.ErrorContext(r.Context(), "week view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "week view rendered")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaDaysResponse{Days: toAgendaDayDTOs(view)})
}

func (h *AgendaHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	reference, err := h.reference(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Day", "company_id", company)

	view, err := h.service.DayView(r.Context(), company, reference)
	if err != nil {
		logger.ErrorContext(r.Context(), "day view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	hours := make([]agendaHourDTO, 0, len(view.Hours))
	for _, hour := range view.Hours {
		hours = append(hours, agendaHourDTO{
			Hour:       hour.Hour,
			Starting:   toOccurrenceDTOs(hour.Starting),
			Continuing: hour.Continuing,
		})
	}

	logger.InfoContext(r.Context(), "day view rendered")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaDayViewResponse{Date: view.Date, Hours: hours})
}

func (h *AgendaHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	company := companyFromRequest(r, h.defaultCompany)
	reference, err := h.reference(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Month", "company_id", company)

	view, err := h.service.MonthView(r.Context(), company, reference)
	if err != nil {
		logger.ErrorContext(r.Context(), "month view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	weeks := make([][]agendaMonthDayDTO, 0, len(view.Weeks))
	for _, week := range view.Weeks {
		row := make([]agendaMonthDayDTO, 0, len(week))
		for _, day := range week {
			row = append(row, agendaMonthDayDTO{
				Date:         day.Date,
				InFocalMonth: day.InFocalMonth,
				Occurrences:  toOccurrenceDTOs(day.Occurrences),
			})
		}
		weeks = append(weeks, row)
	}

	logger.InfoContext(r.Context(), "month view rendered")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaMonthResponse{Month: view.Month, Weeks: weeks})
}

// reference resolves the `at` query parameter. It accepts RFC 3339 or a
// bare calendar date and defaults to the current time.
func (h *AgendaHandler) reference(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("at"))
	if raw == "" {
		return h.now(), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if day, err := time.Parse("2006-01-02", raw); err == nil {
		return day, nil
	}
	return time.Time{}, errInvalidReference
}

type occurrenceDTO struct {
	ShiftID   string `json:"shift_id"`
	ShiftName string `json:"shift_name,omitempty"`
	OwnerID   string `json:"owner_id,omitempty"`
	OwnerName string `json:"owner_name"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type agendaDayDTO struct {
	Date        string          `json:"date"`
	Occurrences []occurrenceDTO `json:"occurrences"`
}

type agendaHourDTO struct {
	Hour       int             `json:"hour"`
	Starting   []occurrenceDTO `json:"starting"`
	Continuing int             `json:"continuing"`
}

type agendaMonthDayDTO struct {
	Date         string          `json:"date"`
	InFocalMonth bool            `json:"in_focal_month"`
	Occurrences  []occurrenceDTO `json:"occurrences"`
}

type agendaDaysResponse struct {
	Days []agendaDayDTO `json:"days"`
}

type agendaDayViewResponse struct {
	Date  string          `json:"date"`
	Hours []agendaHourDTO `json:"hours"`
}

type agendaMonthResponse struct {
	Month string                `json:"month"`
	Weeks [][]agendaMonthDayDTO `json:"weeks"`
}

const unassignedOwnerName = "Unassigned"

func toOccurrenceDTO(occ application.Occurrence) occurrenceDTO {
	ownerName := occ.OwnerName
	if ownerName == "" {
		ownerName = unassignedOwnerName
	}
	return occurrenceDTO{
		ShiftID:   occ.ShiftID,
		ShiftName: occ.ShiftName,
		OwnerID:   occ.OwnerID,
		OwnerName: ownerName,
		Start:     occ.Start.UTC().Format(time.RFC3339Nano),
		End:       occ.End.UTC().Format(time.RFC3339Nano),
	}
}

func toOccurrenceDTOs(occurrences []application.Occurrence) []occurrenceDTO {
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, toOccurrenceDTO(occ))
	}
	return out
}

func toAgendaDayDTOs(days []application.AgendaDay) []agendaDayDTO {
	out := make([]agendaDayDTO, 0, len(days))
	for _, day := range days {
		out = append(out, agendaDayDTO{Date: day.Date, Occurrences: toOccurrenceDTOs(day.Occurrences)})
	}
	return out
}
