// Package memory provides transcript mirror stores. The research loop
// keeps its working transcript in session state; a Store is an optional
// sink that retains a copy per session for later inspection.
package memory

import (
	"context"
	"sync"

	"github.com/scttfrdmn/inquire/agent"
)

// Store persists transcript messages keyed by session ID. Appends must
// preserve order within a session.
type Store interface {
	// Append adds one message to the session's transcript copy.
	Append(ctx context.Context, sessionID string, msg *agent.Message) error

	// List returns the session's messages in append order.
	List(ctx context.Context, sessionID string) ([]*agent.Message, error)

	// Clear removes the session's transcript copy.
	Clear(ctx context.Context, sessionID string) error
}

// InMemoryStore keeps transcripts in process memory. Suitable for
// tests and single-process runs; contents are lost on restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]*agent.Message
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]*agent.Message)}
}

// Append implements Store.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, msg *agent.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

// List implements Store.
func (s *InMemoryStore) List(_ context.Context, sessionID string) ([]*agent.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	out := make([]*agent.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Clear implements Store.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
