package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"touristkiosk/internal/model"
)

const (
	// DefaultMaxSessions caps how many sessions are kept at once.
	DefaultMaxSessions = 256
	// DefaultSessionIdle is how long an untouched session survives.
	DefaultSessionIdle = 30 * time.Minute
)

type sessionEntry struct {
	session  *model.Session
	lastSeen time.Time
}

// SessionRepository keeps kiosk sessions in memory, keyed by cookie value.
// Sessions idle for longer than the idle timeout are dropped, and when the
// repository is full the least recently used session makes room.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	limit    int
	idle     time.Duration
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return NewBoundedSessionRepository(DefaultMaxSessions, DefaultSessionIdle)
}

// NewBoundedSessionRepository keeps at most limit sessions, each for at most
// idle since its last use. Non-positive values fall back to the defaults.
func NewBoundedSessionRepository(limit int, idle time.Duration) *SessionRepository {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		limit:    limit,
		idle:     idle,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for idle expiry.
func (r *SessionRepository) WithClock(now func() time.Time) *SessionRepository {
	r.now = now
	return r
}

// Get returns the session for id, creating a fresh one when id is unknown,
// expired or empty. The returned session's ID may therefore differ from id.
func (r *SessionRepository) Get(id string) *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.expire(now)

	if e, ok := r.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return e.session
	}

	if len(r.sessions) >= r.limit {
		r.evictOldest()
	}

	s := model.NewSession(uuid.NewString())
	r.sessions[s.ID] = &sessionEntry{session: s, lastSeen: now}
	return s
}

// Lookup returns the session for id without creating one.
func (r *SessionRepository) Lookup(id string) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || r.now().Sub(e.lastSeen) > r.idle {
		return nil, false
	}
	return e.session, true
}

func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRepository) expire(now time.Time) {
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.sessions, id)
		}
	}
}

func (r *SessionRepository) evictOldest() {
	var oldest string
	var oldestSeen time.Time
	for id, e := range r.sessions {
		if oldest == "" || e.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen = id, e.lastSeen
		}
	}
	delete(r.sessions, oldest)
}
