package store

import (
	"context"
	"encoding/json"

	ai "github.com/spetersoncode/postflow"
)

// SessionStore persists workflow sessions. Implementations must make a
// write durable before returning and must never hand out aliased
// session values.
type SessionStore interface {
	// Create stores a new session. It fails if the ID already exists.
	Create(ctx context.Context, session *ai.Session) error
	// Get returns a copy of the session, or a NotFoundError.
	Get(ctx context.Context, id string) (*ai.Session, error)
	// Update overwrites an existing session, or returns a NotFoundError.
	Update(ctx context.Context, session *ai.Session) error
}

// cloneSession deep-copies a session through its JSON form. Sessions are
// small, so the simplicity wins over a field-by-field copy.
func cloneSession(s *ai.Session) (*ai.Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out ai.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
