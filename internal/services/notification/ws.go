package notification

import (
	"net/http"

	"github.com/gorilla/websocket"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// WSHandler upgrades role-scoped websocket requests and keeps the
// registry in sync with connection lifetimes.
type WSHandler struct {
	registry *Registry
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler backed by the registry.
func NewWSHandler(registry *Registry, log *logger.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeWS handles GET /ws/{role}.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	role := models.StaffRole(r.PathValue("role"))
	if !role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws_upgrade_failed", "Failed to upgrade websocket", requestID, err, map[string]interface{}{
			"role": role,
		})
		return
	}

	h.registry.Join(conn, role)

	// Keepalive messages are received and discarded; the first read
	// error means the peer is gone.
	go h.readLoop(conn, role)
}

func (h *WSHandler) readLoop(conn *websocket.Conn, role models.StaffRole) {
	defer func() {
		h.registry.Leave(conn, role)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
