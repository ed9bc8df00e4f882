package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches a context logger and logs request boundaries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		var sawContextLogger bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawContextLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusNoContent)
		})

		handler := RequestLogger(base)(next)

		req := httptest.NewRequest(http.MethodGet, "/workday", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if !sawContextLogger {
			t.Fatal("expected a logger attached to the request context")
		}

		logged := buf.String()
		if !strings.Contains(logged, "request started") || !strings.Contains(logged, "request completed") {
			t.Fatalf("expected boundary logs, got %s", logged)
		}
		if !strings.Contains(logged, `"path":"/workday"`) {
			t.Fatalf("expected path attribute, got %s", logged)
		}
	})

	t.Run("request ids increase per request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		for i := 0; i < 2; i++ {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shifts", nil))
		}

		logged := buf.String()
		if !strings.Contains(logged, `"request_id":1`) || !strings.Contains(logged, `"request_id":2`) {
			t.Fatalf("expected sequential request ids, got %s", logged)
		}
	})
}
