// Package diag provides an optional diagnostics surface for the reference
// firmware: a websocket hub that pushes live scan/processor state to
// connected browsers, and a checksummed scan-trace ring buffer. None of
// this is consulted by the core scan/process pipeline; it only observes it.
package diag

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// StateMsg is broadcast to every connected client whenever the firmware
// loop reports new state.
type StateMsg struct {
	Type          string   `json:"type"` // always "state"
	CurrentLayer  int      `json:"currentLayer"`
	Modifiers     []string `json:"modifiers"`
	QueueDepth    int      `json:"queueDepth"`
	WaitingCount  int      `json:"waitingCount"`
	TraceSequence uint64   `json:"traceSequence"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts diagnostic messages to every connected websocket client,
// mirroring the teacher's client-registry-plus-non-blocking-send pattern.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]*client
	upgrader websocket.Upgrader
}

// NewHub creates an empty Hub. CORS is left permissive (CheckOrigin always
// true) since this surface is meant for local development, never a
// production host.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ClientCount reports how many websocket clients are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request to a websocket connection and registers
// the resulting client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("diag: upgrade error:", err)
		return
	}
	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, 16)}
	h.register(c)
	defer h.unregister(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	log.Printf("diag: client %s connected, total %d", c.id, len(h.clients))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		log.Printf("diag: client %s disconnected, total %d", c.id, len(h.clients))
	}
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.Close()
}

// readPump only exists to notice client disconnects; the diagnostics
// protocol is broadcast-only, so inbound frames are discarded.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast marshals msg to JSON and fans it out to every connected
// client, dropping the message for any client whose send buffer is full
// rather than blocking the scan loop.
func (h *Hub) Broadcast(msg StateMsg) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Println("diag: marshal error:", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}
