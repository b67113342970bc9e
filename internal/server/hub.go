package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pig-logistics/internal/observability"
	"pig-logistics/internal/scene"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 8
)

// SceneMessage is the frame pushed to websocket clients.
type SceneMessage struct {
	Type    string      `json:"type"`
	Trigger string      `json:"trigger"`
	Scene   scene.Scene `json:"scene"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans scenes out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// NewHub creates a hub accepting connections from any origin in allowed
// ("*" or empty accepts all).
func NewHub(allowed []string, logger *log.Logger) *Hub {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	h := &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowed)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastScene pushes sc to every client. Clients whose buffer is full are dropped.
func (h *Hub) BroadcastScene(trigger string, sc scene.Scene) {
	msg, err := encodeScene(trigger, sc)
	if err != nil {
		h.logger.Printf("encode scene for day %d: %v", sc.Day, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
			observability.RecordScenePushed()
		default:
			h.logger.Printf("websocket client too slow, dropping")
			h.removeLocked(c)
		}
	}
}

// Serve upgrades the request, registers the client and sends the message
// returned by initial (when non-nil). initial runs under the hub lock, so any
// broadcast issued meanwhile reaches the client after it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial func() *SceneMessage) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade: %v", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	observability.UpdateWSClients(len(h.clients))
	if initial != nil {
		if m := initial(); m != nil {
			if msg, err := encodeScene(m.Trigger, m.Scene); err == nil {
				c.send <- msg
				observability.RecordScenePushed()
			}
		}
	}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	observability.UpdateWSClients(len(h.clients))
}

// readPump discards client frames; it only tracks liveness.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("websocket read: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encodeScene(trigger string, sc scene.Scene) ([]byte, error) {
	return json.Marshal(SceneMessage{Type: "scene", Trigger: trigger, Scene: sc})
}
