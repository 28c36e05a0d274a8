package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-platform/internal/config"
	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
	"restaurant-platform/internal/services/staff"
)

type capturedRequest struct {
	path   string
	header http.Header
}

func newBackend(t *testing.T) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.header = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestGateway(t *testing.T, backendURL string) *http.ServeMux {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{Secret: "test-secret", TokenTTLMinutes: 30},
		Services: config.ServicesConfig{
			StaffURL: backendURL,
			MenuURL:  backendURL,
			OrderURL: backendURL,
			TableURL: backendURL,
		},
	}
	handler, err := New(cfg, logger.New("gateway-test"))
	if err != nil {
		t.Fatal(err)
	}
	return handler.SetupRoutes()
}

func signToken(t *testing.T, member *models.Staff) string {
	t.Helper()
	auth := config.AuthConfig{Secret: "test-secret", TokenTTLMinutes: 30}
	svc := staff.NewService(nil, auth, logger.New("gateway-test"))
	token, err := svc.IssueToken(member)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestProxyInjectsStaffHeaders(t *testing.T) {
	backend, captured := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	token := signToken(t, &models.Staff{ID: 7, Name: "Alice", Role: models.RoleChef})

	req := httptest.NewRequest(http.MethodGet, "/orders/5/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	// A spoofed identity header must not survive the gateway.
	req.Header.Set("X-Staff-Role", "manager")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if captured.path != "/orders/5/" {
		t.Errorf("backend path = %q, want /orders/5/", captured.path)
	}
	if got := captured.header.Get("X-Staff-Id"); got != "7" {
		t.Errorf("X-Staff-Id = %q, want 7", got)
	}
	if got := captured.header.Get("X-Staff-Role"); got != "chef" {
		t.Errorf("X-Staff-Role = %q, want chef", got)
	}
	if got := captured.header.Get("X-Staff-Name"); got != "Alice" {
		t.Errorf("X-Staff-Name = %q, want Alice", got)
	}
}

func TestProxyRejectsMissingToken(t *testing.T) {
	backend, captured := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if captured.path != "" {
		t.Error("request must not reach the backend without a token")
	}
}

func TestProxyRejectsBadToken(t *testing.T) {
	backend, _ := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/menu/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProxyRejectsUnknownService(t *testing.T) {
	backend, _ := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	token := signToken(t, &models.Staff{ID: 1, Name: "Bob", Role: models.RoleWaiter})

	req := httptest.NewRequest(http.MethodGet, "/payments/refund", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLoginForwardedWithoutToken(t *testing.T) {
	backend, captured := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret1"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.path != "/staffs/login" {
		t.Errorf("backend path = %q, want /staffs/login", captured.path)
	}
}

func TestMenuPathRewrite(t *testing.T) {
	backend, captured := newBackend(t)
	mux := newTestGateway(t, backend.URL)

	token := signToken(t, &models.Staff{ID: 2, Name: "Carol", Role: models.RoleManager})

	req := httptest.NewRequest(http.MethodGet, "/menu/12", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.path != "/items/12" {
		t.Errorf("backend path = %q, want /items/12", captured.path)
	}
}
