package staff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

func newTestMux(t *testing.T) (*http.ServeMux, *Service) {
	t.Helper()
	svc, _ := newTestService()
	handler := NewHandler(svc, logger.New("staff-service-test"))
	return handler.SetupRoutes(), svc
}

func seedStaff(t *testing.T, svc *Service) {
	t.Helper()
	_, err := svc.CreateStaff(context.Background(), &models.CreateStaffRequest{
		Name:     "Alice",
		Role:     models.RoleChef,
		Username: "alice",
		Password: "secret1",
	}, "seed")
	if err != nil {
		t.Fatal(err)
	}
}

func TestHandlerLoginJSON(t *testing.T) {
	mux, svc := newTestMux(t)
	seedStaff(t, svc)

	body := `{"username":"alice","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/staffs/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var token models.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatal(err)
	}
	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Errorf("token = %+v, want signed bearer token", token)
	}
}

func TestHandlerLoginForm(t *testing.T) {
	mux, svc := newTestMux(t)
	seedStaff(t, svc)

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "secret1")
	req := httptest.NewRequest(http.MethodPost, "/staffs/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var token models.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatal(err)
	}
	if token.AccessToken == "" {
		t.Error("form login returned no access token")
	}
}

func TestHandlerLoginFormBadPassword(t *testing.T) {
	mux, svc := newTestMux(t)
	seedStaff(t, svc)

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "not-it")
	req := httptest.NewRequest(http.MethodPost, "/staffs/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
