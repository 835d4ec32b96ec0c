package getorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/user"
	"github.com/tecsup/order-svc/internal/transport/http/respond"
)

type stubService struct {
	order *order.Order
	err   error
	gotID int64
}

func (s *stubService) GetOrderByID(_ context.Context, id int64) (*order.Order, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}

	return s.order, nil
}

func get(t *testing.T, svc *stubService, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetOrder(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestGetOrderSuccess(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubService{
		order: &order.Order{
			ID:          5,
			OrderNumber: "ORD-2025-0005",
			UserID:      1,
			User:        &user.User{ID: 1, Name: "John Doe", Email: "john@example.com"},
			TotalAmount: decimal.RequireFromString("42.00"),
			Status:      order.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	w := get(t, svc, "/api/orders/5")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if svc.gotID != 5 {
		t.Errorf("id passed to service = %d, want 5", svc.gotID)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["orderNumber"] != "ORD-2025-0005" {
		t.Errorf("orderNumber = %v", resp["orderNumber"])
	}
	if resp["status"] != "PENDING" {
		t.Errorf("status = %v", resp["status"])
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc := &stubService{err: &errs.NotFoundError{Resource: "order", ID: 99}}

	w := get(t, svc, "/api/orders/99")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp respond.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if resp.Error != "order_not_found" {
		t.Errorf("error code = %q, want order_not_found", resp.Error)
	}
	if resp.Message != "order not found with id: 99" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestGetOrderNonNumericID(t *testing.T) {
	svc := &stubService{}

	w := get(t, svc, "/api/orders/abc")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if svc.gotID != 0 {
		t.Errorf("service was called with id %d, want no call", svc.gotID)
	}
}
