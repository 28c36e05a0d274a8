package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

func newMenuServer(t *testing.T, prices map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		price, ok := prices[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%s,"name":"dish","price":"%s","is_available":true}`, r.PathValue("id"), price)
	})
	return httptest.NewServer(mux)
}

func TestMenuClientPriceOf(t *testing.T) {
	server := newMenuServer(t, map[string]string{"1": "10.000"})
	defer server.Close()

	client := NewMenuClient(server.URL+"/items", logger.New("test"))

	price := client.PriceOf(context.Background(), 1, 9)
	if !price.Equal(dec("10.000")) {
		t.Errorf("PriceOf(1) = %s, want 10.000", price)
	}
}

func TestMenuClientDegradesToZero(t *testing.T) {
	tests := []struct {
		name    string
		baseURL func(serverURL string) string
	}{
		{"missing item", func(u string) string { return u + "/items" }},
		{"unreachable service", func(u string) string { return "http://127.0.0.1:1/items" }},
	}

	server := newMenuServer(t, nil)
	defer server.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewMenuClient(tt.baseURL(server.URL), logger.New("test"))
			price := client.PriceOf(context.Background(), 42, 9)
			if !price.IsZero() {
				t.Errorf("PriceOf(42) = %s, want 0", price)
			}
		})
	}
}

func TestMenuClientMalformedBodyDegradesToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	client := NewMenuClient(server.URL, logger.New("test"))
	if price := client.PriceOf(context.Background(), 1, 9); !price.IsZero() {
		t.Errorf("PriceOf() on malformed body = %s, want 0", price)
	}
}

func TestMenuClientTotalOf(t *testing.T) {
	server := newMenuServer(t, map[string]string{
		"1": "10.000",
		"2": "5.000",
	})
	defer server.Close()

	client := NewMenuClient(server.URL+"/items", logger.New("test"))
	ctx := context.Background()

	tests := []struct {
		name  string
		items []models.OrderItemCreate
		want  string
	}{
		{
			name: "two items",
			items: []models.OrderItemCreate{
				{ItemID: 1, Quantity: 1},
				{ItemID: 2, Quantity: 2},
			},
			want: "20.000",
		},
		{
			name: "lookup order does not matter",
			items: []models.OrderItemCreate{
				{ItemID: 2, Quantity: 2},
				{ItemID: 1, Quantity: 1},
			},
			want: "20.000",
		},
		{
			name: "failed lookup contributes zero",
			items: []models.OrderItemCreate{
				{ItemID: 1, Quantity: 1},
				{ItemID: 404, Quantity: 5},
			},
			want: "10.000",
		},
		{
			name:  "empty list",
			items: nil,
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := client.TotalOf(ctx, tt.items, 9)
			if !total.Equal(dec(tt.want)) {
				t.Errorf("TotalOf() = %s, want %s", total, tt.want)
			}
		})
	}
}

func TestTableClientSetAvailability(t *testing.T) {
	var gotPath string
	var gotBody models.TableAvailabilityUpdate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTableClient(server.URL+"/tables", logger.New("test"))
	if err := client.SetAvailability(context.Background(), 7, false); err != nil {
		t.Fatalf("SetAvailability() error = %v", err)
	}

	if gotPath != "/tables/7/availability" {
		t.Errorf("path = %s, want /tables/7/availability", gotPath)
	}
	if gotBody.IsAvailable {
		t.Error("body is_available = true, want false")
	}
}

func TestTableClientReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTableClient(server.URL+"/tables", logger.New("test"))
	if err := client.SetAvailability(context.Background(), 7, true); err == nil {
		t.Error("SetAvailability() on 500 should return an error")
	}
}
