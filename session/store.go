package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/logging"
)

// DefaultTTL is the idle threshold after which the reaper removes a session.
const DefaultTTL = time.Hour

// Summary is the read-only view returned by Inspect. It never exposes the
// session object itself; callers outside the gateway hold identifiers only.
type Summary struct {
	SessionID   string    `json:"session_id"`
	Mode        core.Mode `json:"mode"`
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"last_updated"`
	TurnCount   int       `json:"message_count"`
}

// Options holds configuration overrides passed to NewStore.
type Options struct {
	// TTL is the idle duration after which Reap removes a session.
	TTL time.Duration
	// Logger receives reap and lifecycle diagnostics.
	Logger logging.Logger
}

// Store is a volatile, TTL-bounded session store. It exclusively owns all
// Session objects and is safe for concurrent access. The store mutex guards
// only map structure (insert, delete, lookup); it is never held across a
// model call — per-session request serialization is the session's own
// concern via BeginTurn/EndTurn.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	ttl      time.Duration
	logger   logging.Logger
}

// NewStore constructs an empty store with optional overrides.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		TTL:    DefaultTTL,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions: make(map[string]*core.Session),
		ttl:      opts.TTL,
		logger:   opts.Logger,
	}
}

// GetOrCreate returns the session for id, creating one seeded with the
// priming turns when id is empty or unknown. The returned bool reports
// whether a new session was created. Reusing a live session with a different
// mode fails fast with core.ErrModeMismatch. Access refreshes the session's
// last-activity timestamp.
func (s *Store) GetOrCreate(id string, mode core.Mode, priming []core.Content) (*core.Session, bool, error) {
	if id != "" {
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok {
			if sess.Mode != mode {
				return nil, false, fmt.Errorf("%w: session %s is %s", core.ErrModeMismatch, id, sess.Mode)
			}
			sess.Touch()
			return sess, false, nil
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock: a concurrent request may have created
	// the same caller-supplied id.
	if sess, ok := s.sessions[id]; ok {
		if sess.Mode != mode {
			return nil, false, fmt.Errorf("%w: session %s is %s", core.ErrModeMismatch, id, sess.Mode)
		}
		sess.Touch()
		return sess, false, nil
	}
	sess := core.NewSession(id, mode, priming)
	s.sessions[id] = sess
	s.logger.Debug("session created", "session_id", id, "mode", mode)
	return sess, true, nil
}

// Get returns an existing session or core.ErrSessionNotFound.
func (s *Store) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return sess, nil
}

// AppendExchange commits one user+model turn pair to the session. It fails
// with core.ErrSessionNotFound if the id is unknown, which is only reachable
// when the reaper removed the session while the request was in flight.
func (s *Store) AppendExchange(id string, user, model core.Content) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	return sess.AppendExchange(user, model)
}

// Reap removes every session idle longer than the TTL and returns how many
// were removed. It is cheap, idempotent, and safe to call concurrently with
// reads and writes; the gateway invokes it opportunistically on every
// inbound request.
func (s *Store) Reap(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.Updated()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("reaped idle sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// Inspect returns a read-only summary for debugging. Unlike GetOrCreate it
// does not refresh the last-activity timestamp.
func (s *Store) Inspect(id string) (Summary, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return Summary{
		SessionID:   sess.ID,
		Mode:        sess.Mode,
		Created:     sess.Created,
		LastUpdated: sess.Updated(),
		TurnCount:   sess.TurnCount(),
	}, nil
}

// Len returns the current number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
