package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
	"github.com/imrishuroy/go-checkout-summary/internal/metrics"
	"github.com/imrishuroy/go-checkout-summary/internal/pricing"
)

type mockRecorder struct {
	mu        sync.Mutex
	checkouts []int64
	rejected  []string
}

func (m *mockRecorder) RecordCheckout(ctx context.Context, currency string, subtotal, discount, tax, total int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkouts = append(m.checkouts, total)
	return nil
}

func (m *mockRecorder) RecordRejection(ctx context.Context, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, reason)
	return nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *metrics.CheckoutMetrics, *mockRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.NewCheckoutMetrics(prometheus.NewRegistry(), "api")
	rec := &mockRecorder{}

	r := gin.New()
	RegisterHealthRoutes(r)
	RegisterCheckoutRoutes(r, HandlerConfig{
		Calculator: checkout.NewCalculator(pricing.DefaultPolicy()),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:    m,
		Recorder:   rec,
	})
	return r, m, rec
}

func TestCheckoutHandler(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:           "summary",
			body:           `{"user_id":"u1","items":[{"price":100,"qty":2}],"coupon":"SAVE10"}`,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				want := map[string]interface{}{
					"order_id":    "u1-1-X",
					"user_id":     "u1",
					"currency":    "USD",
					"subtotal":    float64(200),
					"discount":    float64(20),
					"tax":         float64(37),
					"total":       float64(217),
					"items_count": float64(1),
				}
				for k, v := range want {
					if body[k] != v {
						t.Errorf("%s = %v, want %v", k, body[k], v)
					}
				}
			},
		},
		{
			name:           "numeric user id echoed",
			body:           `{"user_id":7,"items":[{"price":1,"qty":1}],"currency":"EUR"}`,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["user_id"] != float64(7) {
					t.Errorf("user_id = %v, want 7", body["user_id"])
				}
				if body["order_id"] != "7-1-X" || body["currency"] != "EUR" {
					t.Errorf("unexpected body: %v", body)
				}
			},
		},
		{
			name:           "empty items",
			body:           `{"user_id":"u1","items":[]}`,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "validation_failed" || body["reason"] != "items must not be empty" {
					t.Errorf("unexpected body: %v", body)
				}
			},
		},
		{
			name:           "unknown coupon",
			body:           `{"user_id":"u1","items":[{"price":1,"qty":1}],"coupon":"BOGUS"}`,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["reason"] != "unknown coupon" {
					t.Errorf("unexpected body: %v", body)
				}
			},
		},
		{
			name:           "amount past int64",
			body:           `{"user_id":"u1","items":[{"price":9223372036854775807,"qty":2}],"coupon":"SAVE10"}`,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["reason"] != "amount out of range" {
					t.Errorf("unexpected body: %v", body)
				}
			},
		},
		{
			name:           "invalid JSON",
			body:           `invalid json`,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["reason"] != "invalid request body" {
					t.Errorf("unexpected body: %v", body)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Errorf("expected generated %s header", RequestIDHeader)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			tt.checkResponse(t, body)
		})
	}
}

func TestCheckoutHandler_RecordsOutcomes(t *testing.T) {
	r, m, rec := setupTestRouter(t)

	bodies := []string{
		`{"user_id":"u1","items":[{"price":100,"qty":1}]}`,
		`{"user_id":"u1","items":"nope"}`,
	}
	for _, b := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(b))
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != "req-1" {
			t.Fatalf("request id not propagated, got %q", got)
		}
	}

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("ok", "")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("rejected", "items must be a list")); got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
	if len(rec.checkouts) != 1 || rec.checkouts[0] != 121 {
		t.Errorf("recorded checkouts = %v, want [121]", rec.checkouts)
	}
	if len(rec.rejected) != 1 || rec.rejected[0] != "items must be a list" {
		t.Errorf("recorded rejections = %v", rec.rejected)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestCheckoutHandler_UnreadableBody(t *testing.T) {
	r, m, rec := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", failingReader{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "validation_failed" || body["reason"] != "invalid request body" {
		t.Errorf("unexpected body: %v", body)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("rejected", "invalid request body")); got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("rejected", "internal")); got != 0 {
		t.Errorf("internal count = %v, want 0", got)
	}
	if len(rec.rejected) != 1 || rec.rejected[0] != "invalid request body" {
		t.Errorf("recorded rejections = %v", rec.rejected)
	}
}

func TestHealth(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
