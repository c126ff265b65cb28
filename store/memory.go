package store

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/spetersoncode/postflow"
)

// Memory is a thread-safe in-memory session store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*ai.Session
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*ai.Session)}
}

// Create stores a new session.
func (m *Memory) Create(_ context.Context, session *ai.Session) error {
	copied, err := cloneSession(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	m.sessions[session.ID] = copied
	return nil
}

// Get returns a copy of the session.
func (m *Memory) Get(_ context.Context, id string) (*ai.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, &ai.NotFoundError{SessionID: id}
	}
	return cloneSession(session)
}

// Update overwrites an existing session.
func (m *Memory) Update(_ context.Context, session *ai.Session) error {
	copied, err := cloneSession(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return &ai.NotFoundError{SessionID: session.ID}
	}
	m.sessions[session.ID] = copied
	return nil
}

var _ SessionStore = (*Memory)(nil)
