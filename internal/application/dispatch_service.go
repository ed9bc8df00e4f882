package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nessimus/workday-scheduler/internal/dispatch"
	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// DispatchService resolves start requests against the stored action items
// and records the dispatch on every targeted item. One dispatcher is kept
// per company so correlation-token tracking stays company scoped.
type DispatchService struct {
	items    persistence.ActionItemRepository
	newToken func() string
	now      func() time.Time
	logger   *slog.Logger

	mu          sync.Mutex
	dispatchers map[string]*dispatch.Dispatcher
}

// NewDispatchService wires dependencies for start dispatches. A nil
// newToken falls back to UUID correlation tokens.
func NewDispatchService(items persistence.ActionItemRepository, newToken func() string, now func() time.Time) *DispatchService {
	return NewDispatchServiceWithLogger(items, newToken, now, nil)
}

// NewDispatchServiceWithLogger wires dependencies including a base logger.
func NewDispatchServiceWithLogger(items persistence.ActionItemRepository, newToken func() string, now func() time.Time, logger *slog.Logger) *DispatchService {
	if now == nil {
		now = time.Now
	}
	return &DispatchService{
		items:       items,
		newToken:    newToken,
		now:         now,
		logger:      defaultLogger(logger),
		dispatchers: make(map[string]*dispatch.Dispatcher),
	}
}

// StartActionItems resolves the request scope against the company's action
// items, marks every targeted item started and returns the minted
// correlation token. Dispatching while a previous dispatch is outstanding
// is allowed; the newer token replaces the tracked one.
func (s *DispatchService) StartActionItems(ctx context.Context, params StartActionItemsParams) (DispatchResult, error) {
	if s == nil || s.items == nil {
		return DispatchResult{}, fmt.Errorf("action item repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "dispatch", "start", "company_id", params.CompanyID, "scope", string(params.Scope))

	vErr := &ValidationError{}
	if params.CompanyID == "" {
		vErr.add("company_id", "company id is required")
	}
	if !params.Scope.Valid() {
		vErr.add("scope", "scope must be one of company, employee, selection")
	}
	if params.Scope == dispatch.ScopeEmployee && params.EmployeeID == "" {
		vErr.add("employee_id", "employee id is required for employee scope")
	}
	if params.Scope == dispatch.ScopeSelection && len(params.ActionItemIDs) == 0 {
		vErr.add("action_item_ids", "selection scope requires at least one action item id")
	}
	if vErr.HasErrors() {
		return DispatchResult{}, vErr
	}

	stored, err := s.items.ListActionItems(ctx, params.CompanyID)
	if err != nil {
		return DispatchResult{}, mapRepoError(err)
	}
	snapshot := make([]dispatch.ActionItem, 0, len(stored))
	for _, item := range stored {
		snapshot = append(snapshot, dispatch.ActionItem{
			ID:              item.ID,
			CompanyID:       item.CompanyID,
			StatusID:        item.StatusID,
			OwnerEmployeeID: item.OwnerEmployeeID,
			Kind:            item.Kind,
			DueAt:           item.DueAt,
			LastStartedAt:   item.LastStartedAt,
			StartCount:      item.StartCount,
		})
	}

	request := dispatch.StartRequest{
		Scope:         params.Scope,
		CompanyID:     params.CompanyID,
		EmployeeID:    params.EmployeeID,
		ActionItemIDs: params.ActionItemIDs,
		InitiatedBy:   params.Actor.EmployeeID,
	}

	s.mu.Lock()
	ids, token := s.dispatcher(params.CompanyID).Dispatch(request, snapshot)
	s.mu.Unlock()

	dispatchedAt := s.now()
	if len(ids) > 0 {
		if err := s.items.MarkStarted(ctx, ids, dispatchedAt); err != nil {
			err = mapRepoError(err)
			logger.ErrorContext(ctx, "failed to record dispatch", "error", err, "error_kind", ErrorKind(err))
			return DispatchResult{}, err
		}
	}

	logger.InfoContext(ctx, "action items dispatched",
		"initiated_by", params.Actor.EmployeeID,
		"item_count", len(ids),
		"correlation_token", token,
	)
	return DispatchResult{
		ActionItemIDs:    ids,
		CorrelationToken: token,
		DispatchedAt:     dispatchedAt,
	}, nil
}

// AcknowledgeDispatch settles the outstanding dispatch identified by token.
// Stale or unknown tokens are ignored and reported as unsettled.
func (s *DispatchService) AcknowledgeDispatch(ctx context.Context, companyID, token string) bool {
	if s == nil {
		return false
	}
	logger := serviceLogger(ctx, s.logger, "dispatch", "acknowledge", "company_id", companyID)

	s.mu.Lock()
	settled := s.dispatcher(companyID).Acknowledge(token)
	s.mu.Unlock()

	if settled {
		logger.InfoContext(ctx, "dispatch acknowledged", "correlation_token", token)
	} else {
		logger.InfoContext(ctx, "stale dispatch acknowledgement ignored", "correlation_token", token)
	}
	return settled
}

// OutstandingDispatch reports the company's tracked correlation token, if
// any.
func (s *DispatchService) OutstandingDispatch(companyID string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher(companyID).Outstanding()
}

// dispatcher returns the company's dispatcher, creating it on first use.
// Callers must hold s.mu.
func (s *DispatchService) dispatcher(companyID string) *dispatch.Dispatcher {
	d, ok := s.dispatchers[companyID]
	if !ok {
		d = dispatch.NewDispatcher(s.newToken)
		s.dispatchers[companyID] = d
	}
	return d
}
