package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is a single entry in a session's conversational history: either a
// user input or an agent's produced output. Turns are immutable after
// creation.
type Turn struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Role      string    `json:"role"`            // "user" or "assistant"
	Agent     string    `json:"agent,omitempty"` // producing agent for assistant turns
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserTurn creates a user-authored turn bound to a run.
func NewUserTurn(runID, text string) Turn {
	return Turn{ID: NewID(), RunID: runID, Role: "user", Text: text, Timestamp: time.Now().UTC()}
}

// NewAgentTurn creates an agent-authored turn bound to a run.
func NewAgentTurn(runID, agent, text string) Turn {
	return Turn{ID: NewID(), RunID: runID, Role: "assistant", Agent: agent, Text: text, Timestamp: time.Now().UTC()}
}

// NewID generates a unique identifier for runs and turns.
func NewID() string { return uuid.NewString() }

// Session is a conversational container tracking the accumulated State plus
// an ordered turn history. It is created per conversation, threaded
// explicitly through every run, and persisted (or discarded) by its owner;
// there is no process-wide session singleton. Safe for concurrent access.
type Session struct {
	ID       string            `json:"id"`
	State    *State            `json:"state"`
	Turns    []Turn            `json:"turns"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`
	mu       sync.RWMutex
}

// NewSession creates a new session with the given ID and empty state.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, State: NewState(), Turns: []Turn{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// AppendTurn appends a turn to the history updating the Updated timestamp.
func (s *Session) AppendTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = append(s.Turns, t)
	s.Updated = time.Now()
}

// History returns a defensive copy of the full turn slice.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// MergeState merges the delta into the session state, preserving the delta's
// key creation order, and bumps the Updated timestamp.
func (s *Session) MergeState(delta *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State.Merge(delta)
	s.Updated = time.Now()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:       s.ID,
		State:    s.State.Clone(),
		Turns:    make([]Turn, len(s.Turns)),
		Created:  s.Created,
		Updated:  s.Updated,
		Metadata: make(map[string]string, len(s.Metadata)),
	}
	copy(clone.Turns, s.Turns)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// SessionStore persists sessions and their evolving state / turn history.
type SessionStore interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	AppendTurn(sessionID string, turn Turn) error
	ApplyDelta(sessionID string, delta *State) error
}
