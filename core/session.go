package core

import (
	"fmt"
	"sync"
	"time"
)

// Mode identifies the interaction contract a session was created for. It is
// part of the session's identity: a session primed for free-form conversation
// must not be reused for structured extraction and vice versa.
type Mode string

const (
	// ModeConversational primes the session as a general assistant over the
	// knowledge briefing and returns free-form replies.
	ModeConversational Mode = "conversational"
	// ModeExtraction primes the session to identify action points and
	// consideration points under the enforced output shape.
	ModeExtraction Mode = "extraction"
)

// TurnState tracks where a session is within its request cycle.
type TurnState int

const (
	// StateNew marks a freshly seeded session before its first user turn.
	StateNew TurnState = iota
	// StateAwaitingModel marks a session whose current request is suspended
	// on the model backend.
	StateAwaitingModel
	// StateIdle marks a session between request cycles.
	StateIdle
)

// String returns the string representation of the turn state.
func (s TurnState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateAwaitingModel:
		return "AWAITING_MODEL"
	case StateIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// Session represents one caller-identified dialogue: an ordered turn history
// plus lifecycle timestamps. It is safe for concurrent access.
//
// Contract:
//   - The first two turns are the priming pair injected at creation and are
//     never removed.
//   - Turns strictly alternate user/model; AppendExchange commits exactly one
//     user+model pair per request cycle, so alternation holds structurally.
//   - BeginTurn/EndTurn serialize full request cycles for this session while
//     distinct sessions proceed in parallel.
//   - History returns a defensive copy to avoid external mutation.
type Session struct {
	ID      string
	Mode    Mode
	Created time.Time

	mu      sync.RWMutex
	turns   []Content
	updated time.Time
	state   TurnState

	// turnMu is held for the whole request cycle (user append, model call,
	// model append), never by the store itself.
	turnMu sync.Mutex
}

// NewSession creates a session seeded with the mode-specific priming pair.
func NewSession(id string, mode Mode, priming []Content) *Session {
	now := time.Now().UTC()
	turns := make([]Content, len(priming))
	copy(turns, priming)
	return &Session{
		ID:      id,
		Mode:    mode,
		Created: now,
		turns:   turns,
		updated: now,
		state:   StateNew,
	}
}

// BeginTurn acquires the per-session turn lock and marks the session as
// suspended on the model backend. Callers must pair it with EndTurn.
func (s *Session) BeginTurn() {
	s.turnMu.Lock()
	s.mu.Lock()
	s.state = StateAwaitingModel
	s.mu.Unlock()
}

// EndTurn marks the session idle and releases the turn lock.
func (s *Session) EndTurn() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.turnMu.Unlock()
}

// State returns the session's current turn-cycle state.
func (s *Session) State() TurnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// History returns a copy of the full turn slice to prevent callers from
// mutating internal state.
func (s *Session) History() []Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Content, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// TurnCount returns the number of committed turns including the priming pair.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Updated returns the last-activity timestamp.
func (s *Session) Updated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Touch refreshes the last-activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.updated = time.Now().UTC()
	s.mu.Unlock()
}

// AppendExchange atomically commits one user turn and the model turn that
// answered it. Committing both together guarantees that a failed or aborted
// model call never leaves a dangling user-only turn.
func (s *Session) AppendExchange(user, model Content) error {
	if user.Role != RoleUser {
		return fmt.Errorf("exchange user turn has role %q, want %q", user.Role, RoleUser)
	}
	if model.Role != RoleModel {
		return fmt.Errorf("exchange model turn has role %q, want %q", model.Role, RoleModel)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.turns); n > 0 && s.turns[n-1].Role != RoleModel {
		return fmt.Errorf("turn alternation violated: last committed role is %q", s.turns[n-1].Role)
	}
	s.turns = append(s.turns, user, model)
	s.updated = time.Now().UTC()
	return nil
}
