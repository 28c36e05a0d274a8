package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-platform/internal/config"
	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/services/staff"
)

// Handler is the API gateway: it verifies bearer tokens and proxies
// requests to the backend services, injecting the staff identity as
// X-Staff-* headers so the backends never parse tokens themselves.
type Handler struct {
	secret  []byte
	proxies map[string]*httputil.ReverseProxy
	logger  *logger.Logger
}

// New builds a gateway from the configured backend base URLs.
func New(cfg *config.Config, log *logger.Logger) (*Handler, error) {
	targets := map[string]string{
		"staffs": cfg.Services.StaffURL + "/staffs",
		"menu":   cfg.Services.MenuURL + "/items",
		"orders": cfg.Services.OrderURL + "/orders",
		"tables": cfg.Services.TableURL + "/tables",
	}

	proxies := make(map[string]*httputil.ReverseProxy, len(targets))
	for name, raw := range targets {
		target, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s service URL %q: %w", name, raw, err)
		}
		proxies[name] = &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(target)
				pr.SetXForwarded()
			},
		}
	}

	return &Handler{
		secret:  []byte(cfg.Auth.Secret),
		proxies: proxies,
		logger:  log,
	}, nil
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("/{service}/{path...}", h.Proxy)

	return mux
}

// Login forwards credentials to the staff service. No token required.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.URL.Path = "/login"
	h.proxies["staffs"].ServeHTTP(w, r)
}

// Proxy routes /{service}/{path} to the matching backend with the
// verified staff identity injected.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	proxy, ok := h.proxies[r.PathValue("service")]
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Unknown service", requestID)
		return
	}

	claims, err := h.verifyToken(r)
	if err != nil {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Invalid or missing token", requestID)
		return
	}

	// Never trust identity headers supplied by the client.
	r.Header.Del("X-Staff-Id")
	r.Header.Del("X-Staff-Role")
	r.Header.Del("X-Staff-Name")
	r.Header.Set("X-Staff-Id", claims.Subject)
	r.Header.Set("X-Staff-Role", string(claims.Role))
	r.Header.Set("X-Staff-Name", claims.Name)

	h.logger.Debug("request_proxied",
		fmt.Sprintf("%s %s as staff %s", r.Method, r.URL.Path, claims.Subject),
		requestID,
		map[string]interface{}{"service": r.PathValue("service"), "role": claims.Role})

	r.URL.Path = "/" + r.PathValue("path")
	proxy.ServeHTTP(w, r)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gateway",
	})
}

func (h *Handler) verifyToken(r *http.Request) (*staff.Claims, error) {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	var claims staff.Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q in token", claims.Role)
	}
	return &claims, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// Run serves the gateway until the context is canceled.
func Run(ctx context.Context, cfg *config.Config, port int, log *logger.Logger) error {
	handler, err := New(cfg, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", fmt.Sprintf("Gateway listening on port %d", port), "", nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
