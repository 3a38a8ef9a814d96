package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session. It stores identity
// pointers and the claim set captured at login, not auth state.
type Session struct {
	SessionID string            // unique session identifier
	UserID    string            // references users.id
	Email     string            // email captured at login, informational
	Claims    map[string]string // claim set from the authentication ticket
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
