package service

import (
	"context"

	"farmferia/internal/domain/entity"
)

// SessionEventType classifies the session changes an identity provider reports.
type SessionEventType string

const (
	// SessionSignedIn is emitted after a successful authentication or registration.
	SessionSignedIn SessionEventType = "signed_in"
	// SessionSignedOut is emitted after the session has been invalidated.
	SessionSignedOut SessionEventType = "signed_out"
	// SessionRefreshed is emitted after tokens were rotated for an existing session.
	SessionRefreshed SessionEventType = "refreshed"
)

// SessionEvent describes a single change to the authentication session.
// Session is nil for SessionSignedOut.
type SessionEvent struct {
	Type    SessionEventType
	Session *entity.Session
}

// RegisterInput carries the material for creating a new account with the provider.
// Metadata is attached to the account verbatim and travels with every session.
type RegisterInput struct {
	Email    string
	Password string
	Metadata map[string]string
}

// IdentityProvider abstracts the authentication backend. Implementations exist
// for a hosted provider reached over HTTP and a local provider backed by the
// credential store. Every call that performs I/O takes a context.
type IdentityProvider interface {
	// Authenticate exchanges credentials for a session.
	Authenticate(ctx context.Context, email, password string) (*entity.Session, error)

	// Register creates a new account and returns its initial session.
	Register(ctx context.Context, input RegisterInput) (*entity.Session, error)

	// Refresh exchanges a refresh token for a new session.
	Refresh(ctx context.Context, refreshToken string) (*entity.Session, error)

	// Invalidate revokes the session identified by the access token.
	Invalidate(ctx context.Context, accessToken string) error

	// OnSessionChange registers a listener for session events. The returned
	// function removes the listener. Events may be delivered from provider
	// internal goroutines; listeners must not block.
	OnSessionChange(fn func(SessionEvent)) (unsubscribe func())
}
