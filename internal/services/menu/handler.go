package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// Handler handles HTTP requests for the menu service.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new menu handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /items/{$}", h.withLogging(h.CreateItem))
	mux.HandleFunc("GET /items/{$}", h.withLogging(h.ListItems))
	mux.HandleFunc("GET /items/{item_id}", h.withLogging(h.GetItem))
	mux.HandleFunc("PUT /items/{item_id}", h.withLogging(h.UpdateItem))
	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// CreateItem handles POST /items/.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req models.CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.CreateItem(r.Context(), &req, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /items/{item_id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	itemID, err := pathID(r, "item_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// ListItems handles GET /items/.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.ListItems(r.Context(), offset, limit)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	h.writeJSON(w, http.StatusOK, items)
}

// UpdateItem handles PUT /items/{item_id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	itemID, err := pathID(r, "item_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var upd models.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), itemID, &upd, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "menu-service",
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
	case errors.Is(err, models.ErrNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Menu item not found", requestID)
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

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
