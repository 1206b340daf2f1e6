// internal/realtime/hub.go
package realtime

import (
	"sync"
	"time"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	clientSendSlop = 16 // buffered events per client before drops
)

// Client is one websocket subscriber with a set of tables it cares about.
type Client struct {
	conn   *websocket.Conn
	send   chan ChangeEvent
	tables map[string]bool
}

// Hub fans change events out to websocket clients. It holds one bus
// subscription per table with at least one interested client and drops the
// subscription when the last such client disconnects.
type Hub struct {
	bus    Bus
	logger logger.Logger

	mu        sync.RWMutex
	clients   map[*Client]struct{}
	unsubs    map[string]func()
	tableRefs map[string]int
}

func NewHub(bus Bus, log logger.Logger) *Hub {
	return &Hub{
		bus:       bus,
		logger:    log.WithFields(map[string]interface{}{"component": "realtime-hub"}),
		clients:   make(map[*Client]struct{}),
		unsubs:    make(map[string]func()),
		tableRefs: make(map[string]int),
	}
}

// Register attaches a connection that wants events for the given tables and
// starts its read/write pumps. The client is removed when the peer closes.
func (h *Hub) Register(conn *websocket.Conn, tables []string) *Client {
	c := &Client{
		conn:   conn,
		send:   make(chan ChangeEvent, clientSendSlop),
		tables: make(map[string]bool, len(tables)),
	}
	for _, t := range tables {
		c.tables[t] = true
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	for t := range c.tables {
		h.tableRefs[t]++
		if h.tableRefs[t] == 1 {
			table := t
			h.unsubs[table] = h.bus.Subscribe(table, func(ev ChangeEvent) {
				h.broadcast(ev)
			})
		}
	}
	h.mu.Unlock()

	metrics.WebsocketClientsActive.Inc()
	h.logger.Info("client connected", map[string]interface{}{"tables": tables})

	go c.writePump()
	go h.readPump(c)
	return c
}

// Remove detaches a client and closes its connection. Safe to call for an
// already-removed client.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for t := range c.tables {
		h.tableRefs[t]--
		if h.tableRefs[t] <= 0 {
			if unsub := h.unsubs[t]; unsub != nil {
				unsub()
			}
			delete(h.unsubs, t)
			delete(h.tableRefs, t)
		}
	}
	h.mu.Unlock()

	close(c.send)
	_ = c.conn.Close()
	metrics.WebsocketClientsActive.Dec()
	h.logger.Info("client disconnected", nil)
}

func (h *Hub) broadcast(ev ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.tables[ev.Table] {
			continue
		}
		select {
		case c.send <- ev:
		default:
			// Slow consumer; dropping is acceptable for additive counters.
			h.logger.Warn("dropping event for slow client", map[string]interface{}{
				"table": ev.Table,
			})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; its job is noticing the peer went away.
func (h *Hub) readPump(c *Client) {
	defer h.Remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Shutdown disconnects every client.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.Remove(c)
	}
}
