package socket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

type event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub pushes fire-and-forget events (likes, super-likes, matches) to a
// user's connected websocket clients. A user with no connection simply
// misses the push; delivery is best-effort.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub initializes the notification hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeWS upgrades the request and registers the connection under the
// caller's user id until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.register(userID, conn)
	h.logger.Info("socket connected", zap.String("userId", userID))

	go func() {
		defer func() {
			h.unregister(userID, conn)
			conn.Close()
			h.logger.Info("socket disconnected", zap.String("userId", userID))
		}()
		// Clients only listen; the read loop just detects the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify sends the event to every connection of the user. Never returns an
// error; failed writes are logged and the connection dropped.
func (h *Hub) Notify(userID, name string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[userID] {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event{Event: name, Payload: payload}); err != nil {
			h.logger.Warn("notification delivery failed",
				zap.String("userId", userID), zap.String("event", name), zap.Error(err))
			conn.Close()
			delete(h.clients[userID], conn)
		}
	}
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}
