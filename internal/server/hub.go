package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/service"
)

// clientMsg is the small control protocol clients speak over the socket
type clientMsg struct {
	Type string `json:"type"`
}

// wsClient serializes writes to a single connection; gorilla/websocket
// allows at most one concurrent writer per conn, and the pong reply in the
// read loop races Broadcast without it.
type wsClient struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans sync progress out to connected websocket clients
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu    sync.RWMutex
	conns map[*wsClient]struct{}
}

// NewHub creates a progress hub. allowOrigin controls the websocket origin
// policy; nil allows same-origin only (the upgrader's default).
func NewHub(allowOrigin func(r *http.Request) bool, logger *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		logger:   logger,
		conns:    make(map[*wsClient]struct{}),
	}
}

// HandleWS upgrades the connection and keeps it registered until the client
// goes away. Clients may send pings; everything else is ignored.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}

	h.mu.Lock()
	h.conns[client] = struct{}{}
	h.mu.Unlock()

	pong, _ := json.Marshal(map[string]string{"type": "pong"})
	for {
		var msg clientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "ping" {
			_ = client.write(pong)
		}
	}

	h.mu.Lock()
	delete(h.conns, client)
	h.mu.Unlock()
}

// Broadcast sends a progress report to every connected client
func (h *Hub) Broadcast(p service.Progress) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	for _, c := range clients {
		_ = c.write(b)
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
