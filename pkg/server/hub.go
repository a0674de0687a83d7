package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/castlegate/arena-server/pkg/coordinator"
	"github.com/castlegate/arena-server/pkg/messages"
)

// InboundHubMessage are the messages that the hub receives
type InboundHubMessage struct {
	Conn    *Connection             // who sent it
	Message messages.InboundMessage // decoded envelope
}

// registration pairs a new connection with its authenticated identity.
type registration struct {
	conn     *Connection
	identity string
}

// Hub keeps track of all active connections and routes every inbound
// message to the coordinator. Registration, unregistration and inbound
// traffic all flow through channels into the Run loop.
type Hub struct {
	mu          sync.RWMutex         // Mutex to protect direct access to the connections map.
	connections map[*Connection]bool // Registered connections

	register   chan registration
	unregister chan *Connection
	inbound    chan InboundHubMessage

	coordinator *coordinator.Coordinator
	logger      *zap.Logger
}

// NewHub creates a new hub
func NewHub(coord *coordinator.Coordinator, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan registration),
		unregister:  make(chan *Connection),
		inbound:     make(chan InboundHubMessage),
		coordinator: coord,
		logger:      logger,
	}
}

// Run is the main execution of the hub
func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.registerConnection(reg)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.inbound:
			h.handleInbound(msg)
		}
	}
}

// Register hands an authenticated connection to the hub
func (h *Hub) Register(conn *Connection, identity string) {
	h.register <- registration{conn: conn, identity: identity}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

func (h *Hub) registerConnection(reg registration) {
	h.mu.Lock()
	h.connections[reg.conn] = true
	count := len(h.connections)
	h.mu.Unlock()

	h.logger.Info("connection registered",
		zap.String("connection_id", reg.conn.ID.String()),
		zap.Int("total", count),
	)

	h.coordinator.Connect(reg.conn, reg.identity)
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	_, ok := h.connections[conn]
	if ok {
		delete(h.connections, conn)
	}
	count := len(h.connections)
	h.mu.Unlock()

	if !ok {
		return
	}

	h.coordinator.Disconnect(conn)
	conn.close()

	h.logger.Info("connection unregistered",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("total", count),
	)
}

// handleInbound decodes and routes a message from a client. Every
// rejection goes back to the originating connection only.
func (h *Hub) handleInbound(msg InboundHubMessage) {
	switch msg.Message.Event {
	case messages.EventJoinGame:
		var payload messages.JoinGamePayload
		if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
			h.sendError(msg.Conn, "Invalid join_game payload")
			return
		}
		if err := h.coordinator.Join(msg.Conn, payload.GameType); err != nil {
			h.sendError(msg.Conn, err.Error())
		}

	case messages.EventStopWaiting:
		var payload messages.StopWaitingPayload
		if len(msg.Message.Payload) > 0 {
			if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
				h.sendError(msg.Conn, "Invalid stop_waiting payload")
				return
			}
		}
		if err := h.coordinator.StopWaiting(msg.Conn, payload.GameType); err != nil {
			h.sendError(msg.Conn, err.Error())
		}

	case messages.EventMakeMove:
		var payload messages.MakeMovePayload
		if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
			h.sendError(msg.Conn, "Invalid make_move payload")
			return
		}
		if err := h.coordinator.Move(msg.Conn, payload.GameID, payload.Move); err != nil {
			h.sendError(msg.Conn, err.Error())
		}

	case messages.EventResignGame:
		var payload messages.ResignGamePayload
		if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
			h.sendError(msg.Conn, "Invalid resign_game payload")
			return
		}
		if err := h.coordinator.Resign(msg.Conn, payload.GameID); err != nil {
			h.sendError(msg.Conn, err.Error())
		}

	case messages.EventRequestBoard:
		var payload messages.RequestBoardPayload
		if err := json.Unmarshal(msg.Message.Payload, &payload); err != nil {
			h.sendError(msg.Conn, "Invalid request_board_state payload")
			return
		}
		if err := h.coordinator.BoardState(msg.Conn, payload.GameID); err != nil {
			h.sendError(msg.Conn, err.Error())
		}

	default:
		h.sendError(msg.Conn, "Unknown message type")
	}
}

func (h *Hub) sendError(conn *Connection, msg string) {
	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventError,
		Payload: messages.ErrorPayload{Message: msg},
	})
}

// Shutdown closes every live connection
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.connections))
	for conn := range h.connections {
		conns = append(conns, conn)
	}
	h.connections = make(map[*Connection]bool)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.close()
		conn.ws.Close()
	}
}
