package game

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/pkg/events"
	"github.com/castlegate/arena-server/pkg/messages"
	"github.com/castlegate/arena-server/pkg/rules"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs map[string][]messages.OutboundMessage
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{msgs: make(map[string][]messages.OutboundMessage)}
}

func (f *fakeNotifier) Notify(identity string, msg messages.OutboundMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs[identity] = append(f.msgs[identity], msg)
}

func (f *fakeNotifier) count(identity, event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, msg := range f.msgs[identity] {
		if msg.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeNotifier) last(identity, event string) (messages.OutboundMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.msgs[identity]) - 1; i >= 0; i-- {
		if f.msgs[identity][i].Event == event {
			return f.msgs[identity][i], true
		}
	}
	return messages.OutboundMessage{}, false
}

// newTestSession builds an active Blitz session without spawning the
// clock task, so tests control time explicitly.
func newTestSession(t *testing.T) (*Session, *fakeNotifier) {
	t.Helper()

	notifier := newFakeNotifier()
	s := NewSession(
		uuid.New(),
		Blitz,
		"white@test", "black@test",
		rules.NewBoard(),
		notifier,
		events.NewPublisher(),
		zap.NewNop(),
	)
	s.active = true
	s.lastMove = time.Now()
	return s, notifier
}

func TestNewSessionInitializesClocks(t *testing.T) {
	s, _ := newTestSession(t)

	snap := s.Snapshot()
	assert.Equal(t, int64(300), snap.WhiteTime)
	assert.Equal(t, int64(300), snap.BlackTime)
	assert.Equal(t, "white", string(snap.Turn))
}

func TestProcessMoveBroadcastsToBothPlayers(t *testing.T) {
	s, notifier := newTestSession(t)

	require.NoError(t, s.ProcessMove("white@test", "e2e4"))

	for _, p := range []string{"white@test", "black@test"} {
		msg, ok := notifier.last(p, messages.EventMoveMade)
		require.True(t, ok, "no move_made for %s", p)

		payload := msg.Payload.(messages.MoveMadePayload)
		assert.Equal(t, "e2e4", payload.Move)
		assert.Equal(t, "black", string(payload.Turn))
	}
}

func TestProcessMoveRejectsOutOfTurn(t *testing.T) {
	s, notifier := newTestSession(t)
	before := s.Snapshot()

	err := s.ProcessMove("black@test", "e7e5")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	assert.Equal(t, before, s.Snapshot())
	assert.True(t, s.Active())
	assert.Zero(t, notifier.count("black@test", messages.EventMoveMade))
}

func TestProcessMoveRejectsIllegalMove(t *testing.T) {
	s, notifier := newTestSession(t)
	before := s.Snapshot()

	err := s.ProcessMove("white@test", "e2e5")
	assert.ErrorIs(t, err, ErrIllegalMove)

	assert.Equal(t, before, s.Snapshot())
	assert.True(t, s.Active())
	assert.Zero(t, notifier.count("white@test", messages.EventMoveMade))
}

func TestProcessMoveRejectsOutsiders(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.ProcessMove("intruder@test", "e2e4")
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestProcessMoveRejectedAfterTermination(t *testing.T) {
	s, _ := newTestSession(t)
	s.Terminate("black@test", ReasonResignation)

	err := s.ProcessMove("white@test", "e2e4")
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestProcessMoveChargesThinkingTime(t *testing.T) {
	s, _ := newTestSession(t)
	s.mu.Lock()
	s.lastMove = time.Now().Add(-3 * time.Second)
	s.mu.Unlock()

	require.NoError(t, s.ProcessMove("white@test", "e2e4"))

	snap := s.Snapshot()
	assert.Equal(t, int64(297), snap.WhiteTime, "white pays for thinking time")
	assert.Equal(t, int64(300), snap.BlackTime, "black does not")
}

func TestTerminateIsIdempotent(t *testing.T) {
	s, notifier := newTestSession(t)

	s.Terminate("white@test", ReasonResignation)
	s.Terminate("black@test", ReasonTimeout)
	s.Terminate("white@test", ReasonResignation)

	assert.False(t, s.Active())
	assert.Equal(t, Outcome{Winner: "white@test", Reason: ReasonResignation}, s.Outcome())

	for _, p := range []string{"white@test", "black@test"} {
		assert.Equal(t, 1, notifier.count(p, messages.EventGameOver), "player %s", p)
	}
}

func TestResignAwardsOpponent(t *testing.T) {
	s, notifier := newTestSession(t)

	require.NoError(t, s.Resign("black@test"))

	assert.False(t, s.Active())
	assert.Equal(t, Outcome{Winner: "white@test", Reason: ReasonResignation}, s.Outcome())

	msg, ok := notifier.last("white@test", messages.EventGameOver)
	require.True(t, ok)
	payload := msg.Payload.(messages.GameOverPayload)
	assert.Equal(t, "white@test", payload.Winner)
	assert.Equal(t, "resignation", payload.Reason)
	assert.Equal(t, "Blitz", payload.GameType)

	// a second resign is absorbed silently
	require.NoError(t, s.Resign("black@test"))
	assert.Equal(t, 1, notifier.count("white@test", messages.EventGameOver))
}

func TestCheckmateMoveEmitsOnlyGameOver(t *testing.T) {
	s, notifier := newTestSession(t)

	moves := []struct{ player, move string }{
		{"white@test", "f2f3"},
		{"black@test", "e7e5"},
		{"white@test", "g2g4"},
		{"black@test", "d8h4"},
	}
	for _, mv := range moves {
		require.NoError(t, s.ProcessMove(mv.player, mv.move))
	}

	assert.False(t, s.Active())
	assert.Equal(t, Outcome{Winner: "black@test", Reason: ReasonCheckmate}, s.Outcome())

	// the mating move itself produces no move broadcast
	assert.Equal(t, 3, notifier.count("white@test", messages.EventMoveMade))
	assert.Equal(t, 1, notifier.count("white@test", messages.EventGameOver))
}

func TestTickDecrementsSideToMove(t *testing.T) {
	s, _ := newTestSession(t)

	assert.True(t, s.tick())

	snap := s.Snapshot()
	assert.Equal(t, int64(299), snap.WhiteTime)
	assert.Equal(t, int64(300), snap.BlackTime)
}

func TestTickTerminatesOnTimeout(t *testing.T) {
	s, notifier := newTestSession(t)
	s.mu.Lock()
	s.whiteTime = 1
	s.mu.Unlock()

	assert.False(t, s.tick())

	assert.False(t, s.Active())
	assert.Equal(t, Outcome{Winner: "black@test", Reason: ReasonTimeout}, s.Outcome())
	assert.Equal(t, 1, notifier.count("black@test", messages.EventGameOver))

	snap := s.Snapshot()
	assert.Zero(t, snap.WhiteTime, "clock floors at zero")
}

func TestTickStopsOnceInactive(t *testing.T) {
	s, _ := newTestSession(t)
	s.Terminate("", ReasonStalemate)

	assert.False(t, s.tick())
}

func TestTickBroadcastsThrottledTimeUpdate(t *testing.T) {
	s, notifier := newTestSession(t)
	s.mu.Lock()
	s.lastMove = time.Now().Add(-5 * time.Second)
	s.mu.Unlock()

	assert.True(t, s.tick())
	assert.Equal(t, 1, notifier.count("white@test", messages.EventTimeUpdate))
	assert.Equal(t, 1, notifier.count("black@test", messages.EventTimeUpdate))

	// one second later the throttle suppresses the update
	s.mu.Lock()
	s.lastMove = time.Now().Add(-6 * time.Second)
	s.mu.Unlock()

	assert.True(t, s.tick())
	assert.Equal(t, 1, notifier.count("white@test", messages.EventTimeUpdate))
}

func TestClockNeverNegative(t *testing.T) {
	s, _ := newTestSession(t)
	s.mu.Lock()
	s.lastMove = time.Now().Add(-1000 * time.Second)
	s.mu.Unlock()

	require.NoError(t, s.ProcessMove("white@test", "e2e4"))
	assert.Zero(t, s.Snapshot().WhiteTime)
}

func TestStartActivatesSession(t *testing.T) {
	notifier := newFakeNotifier()
	s := NewSession(uuid.New(), Bullet, "w", "b", rules.NewBoard(), notifier, events.NewPublisher(), zap.NewNop())

	assert.False(t, s.Active(), "moves are rejected before Start")
	assert.ErrorIs(t, s.ProcessMove("w", "e2e4"), ErrGameOver)

	s.Start()
	assert.True(t, s.Active())
	assert.Equal(t, int64(180), s.Snapshot().WhiteTime)

	s.Terminate("", ReasonStalemate)
}
