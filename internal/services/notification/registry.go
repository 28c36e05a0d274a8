package notification

import (
	"sync"
	"time"

	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// writeTimeout bounds each push write so a stalled peer (TCP buffers
// full, never erroring) cannot block the broadcast.
const writeTimeout = 10 * time.Second

// Conn is a live push session. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Registry maps staff roles to their live push sessions. One instance
// exists per process and is shared by the websocket handler and the
// event bus listener. The mutex guards membership only and is never
// held across a network write, so a slow peer cannot stall Join/Leave
// or the listener. Writes themselves are serialized by the single
// listener goroutine that performs all broadcasts.
type Registry struct {
	mu     sync.Mutex
	logger *logger.Logger
	conns  map[models.StaffRole]map[Conn]struct{}
}

// NewRegistry creates an empty connection registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		logger: log,
		conns:  make(map[models.StaffRole]map[Conn]struct{}),
	}
}

// Join files a session under its role.
func (r *Registry) Join(c Conn, role models.StaffRole) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conns[role] == nil {
		r.conns[role] = make(map[Conn]struct{})
	}
	r.conns[role][c] = struct{}{}

	r.logger.Debug("client_joined", "Push client joined", "", map[string]interface{}{
		"role":        role,
		"connections": len(r.conns[role]),
	})
}

// Leave removes a session from its role set.
func (r *Registry) Leave(c Conn, role models.StaffRole) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.conns[role]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.conns, role)
		}
	}

	r.logger.Debug("client_left", "Push client left", "", map[string]interface{}{
		"role": role,
	})
}

// BroadcastToRole delivers the message to every session filed under the
// role. A role with no sessions is a no-op. A session whose send fails
// or times out is pruned and closed; the broadcast continues to the
// rest. Membership is snapshotted first so the lock is released before
// any write begins.
func (r *Registry) BroadcastToRole(message interface{}, role models.StaffRole) {
	r.mu.Lock()
	set, ok := r.conns[role]
	if !ok {
		r.mu.Unlock()
		return
	}
	targets := make([]Conn, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	r.mu.Unlock()

	var failed []Conn
	for _, c := range targets {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteJSON(message); err != nil {
			r.logger.Error("push_send_failed", "Dropping unreachable push client", "", err, map[string]interface{}{
				"role": role,
			})
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		r.Leave(c, role)
		c.Close()
	}
}

// Count returns the number of live sessions for a role.
func (r *Registry) Count(role models.StaffRole) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns[role])
}
