package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/internal/color"
	"github.com/castlegate/arena-server/pkg/events"
	"github.com/castlegate/arena-server/pkg/messages"
)

// Reason explains why a session terminated.
type Reason string

// Terminal conditions.
const (
	ReasonCheckmate            Reason = "checkmate"
	ReasonStalemate            Reason = "stalemate"
	ReasonInsufficientMaterial Reason = "insufficient material"
	ReasonTimeout              Reason = "timeout"
	ReasonResignation          Reason = "resignation"
	ReasonDisconnection        Reason = "disconnection"
)

// Outcome is set exactly once, when the session terminates.
// Winner is the winning identity, empty on a draw.
type Outcome struct {
	Winner string
	Reason Reason
}

// clockInterval is the cadence of the background clock task.
const clockInterval = time.Second

// timeUpdateEvery throttles the periodic clock broadcast to one every
// five seconds of elapsed thinking time.
const timeUpdateEvery = 5

// Session is a single game between two identities. All mutable state
// (clocks, board, active flag, lastMove) is guarded by mu; move
// processing, clock ticks and termination each hold it for the full
// read-modify-write. Broadcasts happen outside the lock.
type Session struct {
	ID       uuid.UUID
	Category Category
	White    string
	Black    string

	mu        sync.Mutex
	board     Board
	whiteTime int64 // seconds remaining
	blackTime int64
	active    bool
	lastMove  time.Time
	outcome   Outcome

	notifier  Notifier
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewSession creates a session in its pre-active state. Colors are
// already assigned by the caller; both clocks start at the category's
// base duration. Moves are rejected until Start is called.
func NewSession(
	id uuid.UUID,
	category Category,
	white, black string,
	board Board,
	notifier Notifier,
	publisher *events.Publisher,
	logger *zap.Logger,
) *Session {
	return &Session{
		ID:       id,
		Category: category,
		White:    white,
		Black:    black,

		board:     board,
		whiteTime: category.BaseSeconds(),
		blackTime: category.BaseSeconds(),

		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// Start activates the session and spawns its clock task. The clock
// starts counting from this instant, so callers notify both players
// of the match before calling Start.
func (s *Session) Start() {
	s.mu.Lock()
	s.active = true
	s.lastMove = time.Now()
	s.mu.Unlock()

	go s.clockLoop()
}

// HasPlayer reports whether the identity is one of the two players
func (s *Session) HasPlayer(identity string) bool {
	return identity == s.White || identity == s.Black
}

// OpponentOf returns the other player's identity
func (s *Session) OpponentOf(identity string) (string, bool) {
	switch identity {
	case s.White:
		return s.Black, true
	case s.Black:
		return s.White, true
	}
	return "", false
}

// ColorOf returns the color assigned to the identity at creation
func (s *Session) ColorOf(identity string) (color.Color, bool) {
	switch identity {
	case s.White:
		return color.White, true
	case s.Black:
		return color.Black, true
	}
	return "", false
}

// Active reports whether the session has not yet terminated
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Outcome returns the terminal outcome, valid once Active is false
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// ProcessMove validates and applies a move from the given identity.
// The mover's clock is charged for the thinking time since the last
// clock-affecting event. A rejected move leaves board, clocks and the
// active flag untouched. On success either a move broadcast or a
// termination broadcast is emitted, never both.
func (s *Session) ProcessMove(identity, move string) error {
	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return ErrGameOver
	}

	mover, ok := s.ColorOf(identity)
	if !ok {
		s.mu.Unlock()
		return ErrNotInGame
	}

	if mover != s.board.SideToMove() {
		s.mu.Unlock()
		return ErrNotYourTurn
	}

	if !s.board.IsLegal(move) {
		s.mu.Unlock()
		return ErrIllegalMove
	}

	// The move is accepted from here on: charge the mover for the
	// thinking time and commit the new position.
	now := time.Now()
	elapsed := int64(now.Sub(s.lastMove).Seconds())
	s.chargeLocked(mover, elapsed)
	s.lastMove = now

	if err := s.board.ApplyMove(move); err != nil {
		s.mu.Unlock()
		return ErrIllegalMove
	}

	// Terminal checks in fixed priority. A terminating move produces
	// only the game_over broadcast.
	if s.board.IsStalemate() {
		s.terminateLocked("", ReasonStalemate)
		return nil
	}
	if s.board.IsCheckmate() {
		s.terminateLocked(identity, ReasonCheckmate)
		return nil
	}
	if s.board.IsInsufficientMaterial() {
		s.terminateLocked("", ReasonInsufficientMaterial)
		return nil
	}

	payload := messages.MoveMadePayload{
		Move:      move,
		FEN:       s.board.FEN(),
		WhiteTime: s.whiteTime,
		BlackTime: s.blackTime,
		Turn:      s.board.SideToMove(),
	}
	s.mu.Unlock()

	s.logger.Info("move processed",
		zap.String("game_id", s.ID.String()),
		zap.String("move", move),
		zap.String("turn", string(payload.Turn)),
	)

	s.broadcast(messages.OutboundMessage{Event: messages.EventMoveMade, Payload: payload})
	return nil
}

// Resign terminates the session with the resigning player's opponent
// as winner. A resign on an already finished game is a no-op.
func (s *Session) Resign(identity string) error {
	opponent, ok := s.OpponentOf(identity)
	if !ok {
		return ErrNotInGame
	}
	s.Terminate(opponent, ReasonResignation)
	return nil
}

// Snapshot returns the current position and clocks
func (s *Session) Snapshot() messages.BoardStatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	return messages.BoardStatePayload{
		FEN:       s.board.FEN(),
		WhiteTime: s.whiteTime,
		BlackTime: s.blackTime,
		Turn:      s.board.SideToMove(),
	}
}

// Terminate ends the session exactly once. Duplicate calls, including
// races between a move, a clock tick and an external termination, are
// absorbed by the active-flag check under the session lock.
func (s *Session) Terminate(winner string, reason Reason) {
	s.mu.Lock()
	s.terminateLocked(winner, reason)
}

// terminateLocked is the single transition into the terminated state.
// It is entered with mu held and releases it before broadcasting, so
// the lock is never held during I/O. Callers must not touch s after
// calling it without re-acquiring mu.
func (s *Session) terminateLocked(winner string, reason Reason) {
	if !s.active {
		s.mu.Unlock()
		return
	}

	s.active = false
	s.outcome = Outcome{Winner: winner, Reason: reason}
	finalPosition := s.board.FEN()
	s.mu.Unlock()

	s.logger.Info("game over",
		zap.String("game_id", s.ID.String()),
		zap.String("winner", winner),
		zap.String("reason", string(reason)),
	)

	s.broadcast(messages.OutboundMessage{
		Event: messages.EventGameOver,
		Payload: messages.GameOverPayload{
			Winner:        winner,
			Reason:        string(reason),
			FinalPosition: finalPosition,
			GameType:      string(s.Category),
		},
	})

	// Hand the finished game to persistence and registry cleanup.
	// Fire-and-forget: failures there never touch session state.
	s.publisher.Publish(events.Event{
		Type:   events.EventGameFinished,
		GameID: s.ID.String(),
		Payload: events.GameFinishedPayload{
			GameID:        s.ID.String(),
			White:         s.White,
			Black:         s.Black,
			GameType:      string(s.Category),
			Winner:        winner,
			Reason:        string(reason),
			FinalPosition: finalPosition,
		},
	})
}

// clockLoop is the session's background clock task. It self-cancels by
// observing the active flag on every tick.
func (s *Session) clockLoop() {
	ticker := time.NewTicker(clockInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !s.tick() {
			return
		}
	}
}

// tick applies one second of thinking time to whichever color holds
// the turn. Returns false once the session is no longer active.
func (s *Session) tick() bool {
	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return false
	}

	turn := s.board.SideToMove()
	var remaining int64
	if turn == color.White {
		s.whiteTime = floorSub(s.whiteTime, 1)
		remaining = s.whiteTime
	} else {
		s.blackTime = floorSub(s.blackTime, 1)
		remaining = s.blackTime
	}

	if remaining <= 0 {
		winner := s.White
		if turn == color.White {
			winner = s.Black
		}
		s.terminateLocked(winner, ReasonTimeout)
		return false
	}

	// Throttled clock broadcast, keyed to elapsed game time rather
	// than tick count.
	elapsed := int64(time.Since(s.lastMove).Seconds())
	var update *messages.TimeUpdatePayload
	if elapsed > 0 && elapsed%timeUpdateEvery == 0 {
		update = &messages.TimeUpdatePayload{
			WhiteTime: s.whiteTime,
			BlackTime: s.blackTime,
		}
	}
	s.mu.Unlock()

	if update != nil {
		s.broadcast(messages.OutboundMessage{Event: messages.EventTimeUpdate, Payload: *update})
	}
	return true
}

// chargeLocked deducts elapsed seconds from the mover's clock, floored
// at zero. Caller holds mu.
func (s *Session) chargeLocked(mover color.Color, elapsed int64) {
	if mover == color.White {
		s.whiteTime = floorSub(s.whiteTime, elapsed)
	} else {
		s.blackTime = floorSub(s.blackTime, elapsed)
	}
}

// broadcast sends the message to both players. Each delivery is
// independent and best-effort.
func (s *Session) broadcast(msg messages.OutboundMessage) {
	s.notifier.Notify(s.White, msg)
	s.notifier.Notify(s.Black, msg)
}

func floorSub(v, d int64) int64 {
	if v <= d {
		return 0
	}
	return v - d
}
