package table

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

// Handler handles HTTP requests for the table service. The service is
// thin enough that handlers talk to the repository directly.
type Handler struct {
	repo   Repository
	logger *logger.Logger
}

// NewHandler creates a new table handler.
func NewHandler(repo Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, logger: log}
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tables/{$}", h.withLogging(h.CreateTable))
	mux.HandleFunc("GET /tables/{$}", h.withLogging(h.ListTables))
	mux.HandleFunc("PUT /tables/{table_id}/availability", h.withLogging(h.SetAvailability))
	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// CreateTable handles POST /tables/.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	table, err := h.repo.CreateTable(r.Context())
	if err != nil {
		h.logger.Error("table_create_failed", "Failed to create table", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, table)
}

// ListTables handles GET /tables/.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	tables, err := h.repo.ListTables(r.Context())
	if err != nil {
		h.logger.Error("table_list_failed", "Failed to list tables", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}

	h.writeJSON(w, http.StatusOK, tables)
}

// SetAvailability handles PUT /tables/{table_id}/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	tableID, err := strconv.ParseInt(r.PathValue("table_id"), 10, 64)
	if err != nil || tableID < 1 {
		h.writeErrorResponse(w, http.StatusBadRequest, "table_id must be a positive integer", requestID)
		return
	}

	var upd models.TableAvailabilityUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.repo.SetAvailability(r.Context(), tableID, upd.IsAvailable); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Table not found", requestID)
			return
		}
		h.logger.Error("table_update_failed", "Failed to update table availability", requestID, err,
			map[string]interface{}{"table_id": tableID})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, models.Table{ID: tableID, IsAvailable: upd.IsAvailable})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "table-service",
	}

	if err := h.repo.Ping(ctx); err != nil {
		response["status"] = "unhealthy"
		h.writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
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
