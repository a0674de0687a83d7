// Package coordinator orchestrates matchmaking and game sessions. The
// Coordinator owns the identity registry, the waiting queues and the
// active session registry, and is the single entry point for every
// player-originated event.
package coordinator

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/internal/color"
	"github.com/castlegate/arena-server/pkg/events"
	"github.com/castlegate/arena-server/pkg/game"
	"github.com/castlegate/arena-server/pkg/matchmaking"
	"github.com/castlegate/arena-server/pkg/messages"
	"github.com/castlegate/arena-server/pkg/registry"
	"github.com/castlegate/arena-server/pkg/rules"
)

// Errors routed back to the originating connection.
var (
	ErrGameNotFound      = errors.New("No game found with given game id")
	ErrUnknownConnection = errors.New("Authentication error")
)

// Coordinator routes connection and player events to the right
// component. Each registry carries its own synchronization; the
// coordinator never holds a registry lock while touching a session.
type Coordinator struct {
	identities *registry.IdentityRegistry
	queues     *matchmaking.Queues
	sessions   *registry.SessionRegistry

	publisher *events.Publisher
	logger    *zap.Logger

	grace time.Duration

	// newBoard builds a fresh rules-engine position per session.
	newBoard func() game.Board
}

// New creates a coordinator owning fresh registries. Finished sessions
// stay lookupable for the grace window before removal.
func New(publisher *events.Publisher, logger *zap.Logger, grace time.Duration) *Coordinator {
	c := &Coordinator{
		identities: registry.NewIdentityRegistry(),
		queues:     matchmaking.NewQueues(),
		sessions:   registry.NewSessionRegistry(logger),
		publisher:  publisher,
		logger:     logger,
		grace:      grace,
		newBoard:   func() game.Board { return rules.NewBoard() },
	}

	c.setupEventHandlers()

	return c
}

// setupEventHandlers wires termination to deferred registry removal.
func (c *Coordinator) setupEventHandlers() {
	c.publisher.Subscribe(events.EventGameFinished, func(event events.Event) {
		id, err := uuid.Parse(event.GameID)
		if err != nil {
			c.logger.Error("invalid game id in finished event", zap.Error(err))
			return
		}
		c.sessions.ScheduleRemoval(id, c.grace)
	})
}

// Connect binds an authenticated identity to its live connection,
// superseding any previous connection of the same identity.
func (c *Coordinator) Connect(conn registry.Conn, identity string) {
	c.identities.Bind(conn, identity)

	c.logger.Info("player connected", zap.String("identity", identity))

	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventConnected,
		Payload: messages.ConnectedPayload{Identity: identity},
	})
}

// Disconnect runs the cleanup cascade for a dropped connection: leave
// the waiting queues, or forfeit the active session. A connection that
// was already superseded by a reconnect triggers no cascade.
func (c *Coordinator) Disconnect(conn registry.Conn) {
	identity, wasCurrent := c.identities.Unbind(conn)
	if !wasCurrent {
		return
	}

	c.logger.Info("player disconnected", zap.String("identity", identity))

	if c.queues.RemoveAll(identity) {
		return
	}

	if session, ok := c.sessions.FindByPlayer(identity); ok {
		if opponent, ok := session.OpponentOf(identity); ok {
			session.Terminate(opponent, game.ReasonDisconnection)
		}
	}
}

// Join runs the single-pass matcher: pair with the oldest waiting
// player, or start waiting. A player never gets matched with itself;
// duplicate join requests leave it queued exactly once.
func (c *Coordinator) Join(conn registry.Conn, gameType string) error {
	identity, ok := c.identities.IdentityOf(conn)
	if !ok {
		return ErrUnknownConnection
	}

	category, err := game.ParseCategory(gameType)
	if err != nil {
		return err
	}

	candidate, ok := c.queues.DequeueOldest(category)
	if !ok || candidate == identity {
		c.queues.Enqueue(identity, category)
		conn.SendJSON(messages.OutboundMessage{Event: messages.EventWaiting})
		c.logger.Info("player waiting",
			zap.String("identity", identity),
			zap.String("game_type", gameType),
		)
		return nil
	}

	c.createSession(candidate, identity, category)
	return nil
}

// StopWaiting cancels matchmaking. An empty game type removes the
// identity from every queue.
func (c *Coordinator) StopWaiting(conn registry.Conn, gameType string) error {
	identity, ok := c.identities.IdentityOf(conn)
	if !ok {
		return ErrUnknownConnection
	}

	if gameType == "" {
		c.queues.RemoveAll(identity)
		return nil
	}

	category, err := game.ParseCategory(gameType)
	if err != nil {
		return err
	}
	c.queues.Remove(identity, category)
	return nil
}

// Move routes a move to the session named in the event
func (c *Coordinator) Move(conn registry.Conn, gameID, move string) error {
	identity, session, err := c.resolve(conn, gameID)
	if err != nil {
		return err
	}
	return session.ProcessMove(identity, move)
}

// Resign terminates the session with the resigning player's opponent
// as winner.
func (c *Coordinator) Resign(conn registry.Conn, gameID string) error {
	identity, session, err := c.resolve(conn, gameID)
	if err != nil {
		return err
	}
	return session.Resign(identity)
}

// BoardState sends a point-in-time snapshot to the requester only
func (c *Coordinator) BoardState(conn registry.Conn, gameID string) error {
	_, session, err := c.resolve(conn, gameID)
	if err != nil {
		return err
	}

	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventBoardState,
		Payload: session.Snapshot(),
	})
	return nil
}

// Notify implements game.Notifier: deliver to the identity's current
// connection, skipping identities without one.
func (c *Coordinator) Notify(identity string, msg messages.OutboundMessage) {
	conn, ok := c.identities.ConnectionOf(identity)
	if !ok {
		return
	}
	conn.SendJSON(msg)
}

// ActiveSessions returns the size of the session registry
func (c *Coordinator) ActiveSessions() int {
	return c.sessions.Len()
}

// resolve maps a connection and a game id to the acting identity and
// its session. The registry lock is released before any session work.
func (c *Coordinator) resolve(conn registry.Conn, gameID string) (string, *game.Session, error) {
	identity, ok := c.identities.IdentityOf(conn)
	if !ok {
		return "", nil, ErrUnknownConnection
	}

	id, err := uuid.Parse(gameID)
	if err != nil {
		return "", nil, ErrGameNotFound
	}

	session, ok := c.sessions.Get(id)
	if !ok {
		return "", nil, ErrGameNotFound
	}
	return identity, session, nil
}

// createSession pairs the two identities, assigns colors at random,
// registers the session and starts its clock. Both players learn about
// the match before the clock starts counting.
func (c *Coordinator) createSession(a, b string, category game.Category) {
	white, black := a, b
	if rand.IntN(2) == 0 {
		white, black = black, white
	}

	session := game.NewSession(
		uuid.New(),
		category,
		white, black,
		c.newBoard(),
		c,
		c.publisher,
		c.logger,
	)
	c.sessions.Insert(session)

	c.logger.Info("created new game session",
		zap.String("game_id", session.ID.String()),
		zap.String("game_type", string(category)),
		zap.String("white", white),
		zap.String("black", black),
	)

	c.Notify(white, messages.OutboundMessage{
		Event: messages.EventGameFound,
		Payload: messages.GameFoundPayload{
			GameID:   session.ID.String(),
			Color:    color.White,
			Opponent: messages.OpponentInfo{Identity: black, Color: color.Black},
		},
	})
	c.Notify(black, messages.OutboundMessage{
		Event: messages.EventGameFound,
		Payload: messages.GameFoundPayload{
			GameID:   session.ID.String(),
			Color:    color.Black,
			Opponent: messages.OpponentInfo{Identity: white, Color: color.White},
		},
	})

	c.publisher.Publish(events.Event{
		Type:   events.EventGameCreated,
		GameID: session.ID.String(),
	})

	session.Start()
}
