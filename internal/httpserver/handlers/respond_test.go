package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

func TestWriteServiceError(t *testing.T) {
	d := deps.Deps{Logger: logger.NewNop()}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody bool
	}{
		{"validation", &domain.ValidationError{Field: "title", Rule: domain.RuleRequired}, http.StatusUnprocessableEntity, true},
		{"not found", domain.NotFound("42"), http.StatusNotFound, true},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, true},
		{"deadline leaves response to timeout middleware", fmt.Errorf("list: %w", context.DeadlineExceeded), http.StatusOK, false},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/bugs", nil)
			writeServiceError(d, w, r, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if got := w.Body.Len() > 0; got != tt.wantBody {
				t.Errorf("body written = %v, want %v", got, tt.wantBody)
			}
		})
	}
}

func TestDeadlineAnsweredOnceByTimeout(t *testing.T) {
	d := deps.Deps{Logger: logger.NewNop()}
	h := middleware.Timeout(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		writeServiceError(d, w, r, r.Context().Err())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bugs", nil))

	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
