package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRandomFaultInjector_ShouldFail(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		draw     float64
		expected bool
	}{
		{"default rate - draw above threshold", 0.1, 0.95, true},
		{"default rate - draw just below threshold", 0.1, 0.89, false},
		{"default rate - draw below threshold", 0.1, 0.2, false},
		{"half rate - draw above threshold", 0.5, 0.51, true},
		{"zero rate never fails", 0, 0.999, false},
		{"negative rate never fails", -1, 0.999, false},
		{"full rate always fails", 1, 0.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			injector := &RandomFaultInjector{
				Rate:    tt.rate,
				Float64: func() float64 { return tt.draw },
			}

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if got := injector.ShouldFail(req); got != tt.expected {
				t.Errorf("ShouldFail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRandomFaultInjector_DefaultSource(t *testing.T) {
	injector := NewRandomFaultInjector(0.1)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)

	failures := 0
	for i := 0; i < 10000; i++ {
		if injector.ShouldFail(req) {
			failures++
		}
	}

	// Roughly 10% with a generous margin
	if failures < 500 || failures > 1500 {
		t.Errorf("failures = %d out of 10000, expected around 1000", failures)
	}
}

func TestFaultInjection(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	tests := []struct {
		name           string
		injector       FaultInjector
		expectedStatus int
		expectFaultID  bool
	}{
		{
			name:           "no faults",
			injector:       NoFaults,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "nil injector",
			injector:       nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "always fail",
			injector:       FaultInjectorFunc(func(*http.Request) bool { return true }),
			expectedStatus: http.StatusInternalServerError,
			expectFaultID:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := FaultInjection(tt.injector, discardLogger())(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			faultID := w.Header().Get(FaultIDHeader)
			if tt.expectFaultID {
				if faultID == "" {
					t.Error("expected fault id header")
				}
				if strings.TrimSpace(w.Body.String()) != "Internal Server Error" {
					t.Errorf("body = %q, want Internal Server Error", w.Body.String())
				}
			} else {
				if faultID != "" {
					t.Errorf("unexpected fault id header %q", faultID)
				}
				if w.Body.String() != "success" {
					t.Errorf("body = %s, want success", w.Body.String())
				}
			}
		})
	}
}
