package menu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

type fakeRepo struct {
	nextID int64
	items  map[int64]*models.MenuItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]*models.MenuItem)}
}

func (r *fakeRepo) CreateItem(ctx context.Context, name string, price decimal.Decimal, isAvailable bool, imgPath string) (*models.MenuItem, error) {
	r.nextID++
	item := &models.MenuItem{ID: r.nextID, Name: name, Price: price, IsAvailable: isAvailable, ImgPath: imgPath}
	r.items[item.ID] = item
	copied := *item
	return &copied, nil
}

func (r *fakeRepo) GetItem(ctx context.Context, itemID int64) (*models.MenuItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeRepo) ListItems(ctx context.Context, offset, limit int) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeRepo) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, logger.New("menu-service-test")), repo
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateItemDefaultsToAvailable(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		Name:  "Margherita",
		Price: dec("8.500"),
	}, "test")
	if err != nil {
		t.Fatal(err)
	}
	if !item.IsAvailable {
		t.Error("new items should default to available")
	}
	if !item.Price.Equal(dec("8.5")) {
		t.Errorf("price = %s, want 8.5", item.Price)
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  models.CreateMenuItemRequest
	}{
		{"empty name", models.CreateMenuItemRequest{Price: dec("1")}},
		{"negative price", models.CreateMenuItemRequest{Name: "X", Price: dec("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), &tt.req, "test")
			var validationErr models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestUpdateItemPartial(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		Name:  "Carbonara",
		Price: dec("11.000"),
	}, "test")
	if err != nil {
		t.Fatal(err)
	}

	off := false
	updated, err := svc.UpdateItem(context.Background(), item.ID, &models.MenuItemUpdate{IsAvailable: &off}, "test")
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsAvailable {
		t.Error("availability should be off")
	}
	if updated.Name != "Carbonara" || !updated.Price.Equal(dec("11")) {
		t.Error("fields without an update value must be untouched")
	}
}

func TestUpdateMissingItem(t *testing.T) {
	svc, _ := newTestService()

	name := "Ghost"
	_, err := svc.UpdateItem(context.Background(), 42, &models.MenuItemUpdate{Name: &name}, "test")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHandlerPriceSerializedAsString(t *testing.T) {
	svc, _ := newTestService()
	handler := NewHandler(svc, logger.New("menu-service-test"))
	mux := handler.SetupRoutes()

	body := `{"name":"Tiramisu","price":"6.250"}`
	req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	price := string(raw["price"])
	if !strings.HasPrefix(price, `"`) {
		t.Errorf("price serialized as %s, want a quoted string", price)
	}

	var parsed decimal.Decimal
	if err := json.Unmarshal(raw["price"], &parsed); err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(dec("6.25")) {
		t.Errorf("price = %s, want 6.25", parsed)
	}
}
