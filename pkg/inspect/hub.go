package inspect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one store write as seen by devtools clients.
type Event struct {
	// Store is the registered store name.
	Store string `json:"store"`

	// Seq orders events across all stores on one inspector.
	Seq uint64 `json:"seq"`

	// State is the full new state value.
	State any `json:"state"`

	// Time is when the inspector observed the write.
	Time time.Time `json:"time"`
}

const (
	// writeTimeout bounds a single frame write to a client.
	writeTimeout = 10 * time.Second

	// clientBuffer is the per-client event queue length. A client that
	// falls further behind than this is dropped.
	clientBuffer = 64
)

// client is one connected WebSocket devtools session.
type client struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

// close shuts the send channel exactly once, ending the write pump.
func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// writePump drains the send queue onto the connection. Runs in its own
// goroutine per client.
func (c *client) writePump(logger *slog.Logger) {
	defer c.conn.Close()

	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(ev); err != nil {
			logger.Error("write error", "error", err)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// hub fans write events out to connected clients.
type hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// broadcast queues ev for every connected client. A client whose queue is
// full is dropped rather than allowed to stall the fan-out.
func (h *hub) broadcast(ev Event) {
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			slow = append(slow, c)
			delete(h.clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow inspector client")
		c.close()
	}
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
