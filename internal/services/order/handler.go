package order

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
	"restaurant-platform/internal/services/notification"
)

// Handler handles HTTP requests for the order service.
type Handler struct {
	service *Service
	ws      *notification.WSHandler
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, ws *notification.WSHandler, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		ws:      ws,
		logger:  log,
	}
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /orders/{$}", h.withLogging(h.CreateOrder))
	mux.HandleFunc("GET /orders/{$}", h.withLogging(h.ListOrders))
	mux.HandleFunc("GET /orders/{order_id}/{$}", h.withLogging(h.GetOrder))
	mux.HandleFunc("PUT /orders/{order_id}/{$}", h.withLogging(h.UpdateOrder))
	mux.HandleFunc("PUT /orders/{order_id}/extend", h.withLogging(h.ExtendOrder))
	mux.HandleFunc("PUT /orders/{order_id}/order-items/{item_id}/{$}", h.withLogging(h.UpdateOrderItem))
	mux.HandleFunc("PUT /orders/batch-update-items", h.withLogging(h.BatchUpdateItems))
	mux.HandleFunc("PUT /orders/{order_id}/cancel", h.withLogging(h.CancelOrder))
	mux.HandleFunc("GET /ws/{role}", h.ws.ServeWS)
	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// CreateOrder handles POST /orders/.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	serverID, err := staffIDHeader(r)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req, serverID, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /orders/.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := h.service.ListOrders(r.Context(), offset, limit)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}
	if orders == nil {
		orders = []models.OrderSession{}
	}

	h.writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{order_id}/.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	orderID, err := pathID(r, "order_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// UpdateOrder handles PUT /orders/{order_id}/.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	orderID, err := pathID(r, "order_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var upd models.OrderSessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), orderID, &upd, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// ExtendOrder handles PUT /orders/{order_id}/extend.
func (h *Handler) ExtendOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	orderID, err := pathID(r, "order_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var items []models.OrderItemCreate
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	order, err := h.service.ExtendOrder(r.Context(), orderID, items, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// UpdateOrderItem handles PUT /orders/{order_id}/order-items/{item_id}/.
func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	orderID, err := pathID(r, "order_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	role := models.StaffRole(r.Header.Get("X-Staff-Role"))
	if !role.Valid() {
		h.writeErrorResponse(w, http.StatusForbidden, "Unknown staff role", requestID)
		return
	}

	var upd models.OrderItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.UpdateOrderItem(r.Context(), orderID, itemID, &upd, role, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// BatchUpdateItems handles PUT /orders/batch-update-items.
func (h *Handler) BatchUpdateItems(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	role := models.StaffRole(r.Header.Get("X-Staff-Role"))
	if !role.Valid() {
		h.writeErrorResponse(w, http.StatusForbidden, "Unknown staff role", requestID)
		return
	}

	var entries []models.BatchItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	updated := h.service.BatchUpdateItemStatus(r.Context(), entries, role, requestID)
	if updated == nil {
		updated = []models.OrderItem{}
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// CancelOrder handles PUT /orders/{order_id}/cancel.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	orderID, err := pathID(r, "order_id")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if _, err := staffIDHeader(r); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	order, err := h.service.CancelOrder(r.Context(), orderID, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "order-service",
	}

	if !healthy {
		response["status"] = "unhealthy"
		h.writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeDomainError maps domain errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, requestID string) {
	var validationErr models.ValidationError
	var transitionErr *models.InvalidTransitionError
	var forbiddenErr *models.ForbiddenError

	switch {
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.As(err, &transitionErr):
		h.writeErrorResponse(w, http.StatusBadRequest, transitionErr.Error(), requestID)
	case errors.Is(err, models.ErrOrderNotOpen):
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.As(err, &forbiddenErr):
		h.writeErrorResponse(w, http.StatusForbidden, forbiddenErr.Error(), requestID)
	case errors.Is(err, models.ErrNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
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

// writeErrorResponse writes an error response in JSON format.
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// withLogging adds request logging middleware.
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

func staffIDHeader(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-Staff-Id")
	if raw == "" {
		return 0, fmt.Errorf("X-Staff-Id header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("X-Staff-Id header must be a positive integer")
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
