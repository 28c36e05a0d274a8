package staff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// Handler handles HTTP requests for the staff service.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new staff handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /staffs/{$}", h.withLogging(h.CreateStaff))
	mux.HandleFunc("POST /staffs/login", h.withLogging(h.Login))
	mux.HandleFunc("GET /staffs/{$}", h.withLogging(h.ListStaffs))
	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// CreateStaff handles POST /staffs/.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req models.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	staff, err := h.service.CreateStaff(r.Context(), &req, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, staff)
}

// Login handles POST /staffs/login. Credentials arrive either as a
// JSON body or as form-encoded username/password fields.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	req, err := decodeLoginRequest(r)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid login payload", requestID)
		return
	}

	token, err := h.service.Login(r.Context(), req, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, token)
}

func decodeLoginRequest(r *http.Request) (*models.LoginRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &models.LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListStaffs handles GET /staffs/.
func (h *Handler) ListStaffs(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	staffs, err := h.service.ListStaffs(r.Context(), offset, limit)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}
	if staffs == nil {
		staffs = []models.Staff{}
	}

	h.writeJSON(w, http.StatusOK, staffs)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "staff-service",
	}

	if !h.service.HealthCheck(ctx) {
		response["status"] = "unhealthy"
		h.writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error, requestID string) {
	var validationErr models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.Is(err, ErrInvalidCredentials):
		h.writeErrorResponse(w, http.StatusUnauthorized, err.Error(), requestID)
	default:
		h.logger.Error("request_failed", "Unhandled service error", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
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

func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

type requestIDKey struct{}

func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return id
	}
	return logger.GenerateRequestID()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
