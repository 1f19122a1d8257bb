// Package realtime pushes per-user events over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/metrics"
)

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// client is a single websocket connection in the hub.
type client struct {
	id     string
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// writePump drains send onto the connection until ctx ends or send closes.
func (c *client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Hub tracks open connections per user. A user may hold several (tabs,
// devices); every one receives each event.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[string]*client
	total   int

	bus *RedisBus
	log *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[string]*client),
		log:     log.With("component", "realtime"),
	}
}

// UseBus routes Publish through Redis so every instance delivers to its own
// connections. Call before serving.
func (h *Hub) UseBus(bus *RedisBus) {
	h.bus = bus
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if !ok {
		conns = make(map[string]*client)
		h.clients[c.userID] = conns
	}
	conns[c.id] = c
	h.total++
	n := h.total
	h.mu.Unlock()

	metrics.SetWebsocketConnections(n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	conns := h.clients[c.userID]
	if _, ok := conns[c.id]; ok {
		close(c.send)
		delete(conns, c.id)
		h.total--
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	n := h.total
	h.mu.Unlock()

	metrics.SetWebsocketConnections(n)
}

// Connections reports how many sockets userID has open.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends msg to every connection of userID. It never blocks.
func (h *Hub) Publish(userID int64, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal event failed", "error", err)
		return
	}

	if h.bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		err := h.bus.Publish(ctx, userID, data)
		if err == nil {
			return
		}
		h.log.Warn("redis publish failed, delivering locally", "error", err)
	}
	h.deliver(userID, data)
}

// deliver fans data out to local connections, dropping it for any client
// whose buffer is full.
func (h *Hub) deliver(userID int64, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, c := range h.clients[userID] {
		select {
		case c.send <- data:
			sent++
		default:
			h.log.Debug("dropping event for slow client", "user_id", userID, "client", c.id)
		}
	}
	return sent
}
