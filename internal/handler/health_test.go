package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

var _ HealthChecker = (*mockHealthChecker)(nil)

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.pingFn(ctx)
}

func TestHealthHandler_OK(t *testing.T) {
	h := NewHealthHandler(&mockHealthChecker{
		pingFn: func(ctx context.Context) error { return nil },
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	decoded := decodeBody(t, w.Body.Bytes())
	if decoded["status"] != "ok" {
		t.Errorf("status field = %v, want ok", decoded["status"])
	}
}

func TestHealthHandler_StoreUnavailable(t *testing.T) {
	h := NewHealthHandler(&mockHealthChecker{
		pingFn: func(ctx context.Context) error { return errors.New("connection refused") },
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	decoded := decodeBody(t, w.Body.Bytes())
	if decoded["status"] != "unavailable" {
		t.Errorf("status field = %v, want unavailable", decoded["status"])
	}
}

func TestHealthHandler_PassesTimeoutContext(t *testing.T) {
	h := NewHealthHandler(&mockHealthChecker{
		pingFn: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("ping context should carry a deadline")
			}
			return nil
		},
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
}
