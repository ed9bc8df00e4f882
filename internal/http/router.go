package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Shifts     *ShiftHandler
	Agenda     *AgendaHandler
	Employees  *EmployeeHandler
	Workday    *WorkdayHandler
	Dispatch   *DispatchHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Shifts != nil {
		mux.HandleFunc("/shifts", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Shifts.List(w, r)
			case http.MethodPost:
				cfg.Shifts.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/shifts/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/shifts/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithShiftID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Shifts.Update(w, r)
			case http.MethodDelete:
				cfg.Shifts.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Agenda != nil {
		agendaViews := map[string]http.HandlerFunc{
			"/agenda/horizon": cfg.Agenda.Horizon,
			"/agenda/week":    cfg.Agenda.Week,
			"/agenda/day":     cfg.Agenda.Day,
			"/agenda/month":   cfg.Agenda.Month,
		}
		for path, view := range agendaViews {
			view := view
			mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				view(w, r)
			})
		}
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/employees/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/employees/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if id, ok := strings.CutSuffix(rest, "/availability"); ok {
				if id == "" {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				ctx := ContextWithEmployeeID(r.Context(), id)
				cfg.Employees.UpdateAvailability(w, r.WithContext(ctx))
				return
			}
			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), rest)
			r = r.WithContext(ctx)
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Employees.Delete(w, r)
		})
	}

	if cfg.Workday != nil {
		mux.HandleFunc("/workday", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Workday.Get(w, r)
		})
		mux.HandleFunc("/workday/start", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Workday.Start(w, r)
		})
		mux.HandleFunc("/workday/halt", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Workday.Halt(w, r)
		})
		mux.HandleFunc("/workday/overrides/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/workday/overrides/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPost:
				cfg.Workday.MarkOverride(w, r)
			case http.MethodDelete:
				cfg.Workday.ClearOverride(w, r)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		})
	}

	if cfg.Dispatch != nil {
		mux.HandleFunc("/action-items/start", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Dispatch.Start(w, r)
		})
		mux.HandleFunc("/action-items/ack", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Dispatch.Acknowledge(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
