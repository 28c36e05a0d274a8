package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
	"restaurant-platform/internal/services/notification"
)

func newTestMux(prices map[int64]decimal.Decimal) (*http.ServeMux, *Service) {
	log := logger.New("order-service-test")
	svc, _, _, _ := newTestService(prices)
	registry := notification.NewRegistry(log)
	handler := NewHandler(svc, notification.NewWSHandler(registry, log), log)
	return handler.SetupRoutes(), svc
}

func TestHandlerCreateOrder(t *testing.T) {
	mux, _ := newTestMux(map[int64]decimal.Decimal{1: dec("2.500")})

	body := `{"table_id":1,"order_items":[{"item_id":1,"quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
	req.Header.Set("X-Staff-Id", "9")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var order models.OrderSession
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !order.TotalAmount.Equal(dec("5.000")) {
		t.Errorf("total_amount = %s, want 5.000", order.TotalAmount)
	}
	if order.Status != models.OrderOpening {
		t.Errorf("status = %s, want opening", order.Status)
	}
}

func TestHandlerCreateOrderRequiresStaffHeader(t *testing.T) {
	mux, _ := newTestMux(nil)

	body := `{"table_id":1,"order_items":[{"item_id":1,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerGetOrderNotFound(t *testing.T) {
	mux, _ := newTestMux(nil)

	req := httptest.NewRequest(http.MethodGet, "/orders/99/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerUpdateItemForbiddenRole(t *testing.T) {
	mux, svc := newTestMux(nil)

	order, err := svc.CreateOrder(httptest.NewRequest("GET", "/", nil).Context(), &models.CreateOrderRequest{
		TableID:    1,
		OrderItems: []models.OrderItemCreate{{ItemID: 1, Quantity: 1}},
	}, 9, "seed")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		role string
		body string
		want int
	}{
		{"waiter may not mark received", "waiter", `{"status":"received"}`, http.StatusForbidden},
		{"unknown role rejected", "dishwasher", `{"status":"received"}`, http.StatusForbidden},
		{"chef may mark received", "chef", `{"status":"received"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/orders/" + itoa(order.ID) + "/order-items/" + itoa(order.OrderItems[0].ID) + "/"
			req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(tt.body))
			req.Header.Set("X-Staff-Role", tt.role)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandlerCancelTwiceReturns400(t *testing.T) {
	mux, svc := newTestMux(nil)

	order, err := svc.CreateOrder(httptest.NewRequest("GET", "/", nil).Context(), &models.CreateOrderRequest{
		TableID:    1,
		OrderItems: []models.OrderItemCreate{{ItemID: 1, Quantity: 1}},
	}, 9, "seed")
	if err != nil {
		t.Fatal(err)
	}

	cancel := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/orders/"+itoa(order.ID)+"/cancel", nil)
		req.Header.Set("X-Staff-Id", "9")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	if rec := cancel(); rec.Code != http.StatusOK {
		t.Fatalf("first cancel status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if rec := cancel(); rec.Code != http.StatusBadRequest {
		t.Errorf("second cancel status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestHandlerBatchUpdate(t *testing.T) {
	mux, svc := newTestMux(nil)

	order, err := svc.CreateOrder(httptest.NewRequest("GET", "/", nil).Context(), &models.CreateOrderRequest{
		TableID: 1,
		OrderItems: []models.OrderItemCreate{
			{ItemID: 1, Quantity: 1},
			{ItemID: 2, Quantity: 1},
		},
	}, 9, "seed")
	if err != nil {
		t.Fatal(err)
	}

	body := `[
		{"order_id":` + itoa(order.ID) + `,"item_id":` + itoa(order.OrderItems[0].ID) + `,"status":"received"},
		{"order_id":` + itoa(order.ID) + `,"item_id":` + itoa(order.OrderItems[1].ID) + `,"status":"completed"}
	]`
	req := httptest.NewRequest(http.MethodPut, "/orders/batch-update-items", strings.NewReader(body))
	req.Header.Set("X-Staff-Role", "chef")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var updated []models.OrderItem
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if len(updated) != 1 {
		t.Errorf("applied %d entries, want 1 (invalid one skipped)", len(updated))
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
