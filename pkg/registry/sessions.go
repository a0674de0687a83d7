package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/castlegate/arena-server/pkg/game"
)

// SessionRegistry is the concurrent map of active game sessions. A
// finished session is not removed immediately: removal is scheduled
// after a grace window so events already in flight still find it.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*game.Session
	logger   *zap.Logger
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*game.Session),
		logger:   logger,
	}
}

// Insert registers a newly created session
func (r *SessionRegistry) Insert(s *game.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns a session by id
func (r *SessionRegistry) Get(id uuid.UUID) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// FindByPlayer returns the session the identity is playing in, if any.
// An identity is in at most one active session at a time.
func (r *SessionRegistry) FindByPlayer(identity string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.HasPlayer(identity) && s.Active() {
			return s, true
		}
	}
	return nil, false
}

// Remove deletes a session immediately
func (r *SessionRegistry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// ScheduleRemoval removes the session after the grace window. One-shot:
// it fires once, checks presence and deletes.
func (r *SessionRegistry) ScheduleRemoval(id uuid.UUID, after time.Duration) {
	time.AfterFunc(after, func() {
		r.mu.Lock()
		_, ok := r.sessions[id]
		delete(r.sessions, id)
		r.mu.Unlock()

		if ok {
			r.logger.Info("removed game session", zap.String("game_id", id.String()))
		}
	})
}

// Len returns the number of registered sessions
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
