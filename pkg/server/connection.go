// Package server holds the websocket transport: the hub that tracks
// live connections and the per-connection read/write pumps.
package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/pkg/messages"
)

// Connection wraps one live websocket link.
type Connection struct {
	ID uuid.UUID

	ws  *websocket.Conn
	hub *Hub

	send   chan []byte // Buffered channel of outbound messages.
	mu     sync.Mutex  // Guards closed.
	closed bool

	logger *zap.Logger
}

// NewConnection creates a connection around an upgraded websocket
func NewConnection(ws *websocket.Conn, hub *Hub, logger *zap.Logger) *Connection {
	return &Connection{
		ID:     uuid.New(),
		ws:     ws,
		hub:    hub,
		send:   make(chan []byte, 256), // buffered for outgoing messages
		logger: logger,
	}
}

// ReadPump handles inbound messages from the client
func (c *Connection) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	for {
		msgType, msg, err := c.ws.ReadMessage()
		if err != nil {
			c.logger.Debug("read error", zap.Error(err))
			break
		}

		// We only handle text
		if msgType != websocket.TextMessage {
			continue
		}

		var inbound messages.InboundMessage
		if err := json.Unmarshal(msg, &inbound); err != nil {
			c.logger.Error("Failed to parse inbound JSON", zap.Error(err))
			continue
		}

		c.hub.inbound <- InboundHubMessage{
			Conn:    c,
			Message: inbound,
		}
	}
}

// WritePump handles outbound messages to the client
func (c *Connection) WritePump() {
	defer func() {
		c.ws.Close()
	}()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel closed
			return
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			c.logger.Error("write error", zap.Error(err))
			return
		}
	}
}

// SendJSON queues a JSON message for delivery. Sends to a connection
// that is already closed are dropped silently; delivery is best-effort
// by contract.
func (c *Connection) SendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Error marshaling JSON", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message",
			zap.String("connection_id", c.ID.String()))
	}
}

// close shuts the outbound channel exactly once
func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
