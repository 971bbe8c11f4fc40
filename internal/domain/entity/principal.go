// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Metadata keys attached to a principal at registration time. They allow the
// profile layer to reconstruct a missing profile record from the identity
// provider alone.
const (
	MetadataName = "name"
	MetadataRole = "role"
)

// Principal is the identity issued by the authentication provider. The
// application never mutates it directly; it only reads it and keys its own
// profile records by the principal's ID.
type Principal struct {
	ID            uuid.UUID         // The provider-issued unique identifier.
	Email         string            // The verified login email.
	EmailVerified bool              // Whether the provider has confirmed the email.
	Metadata      map[string]string // Free-form identity metadata set at sign-up.
}

// DisplayName returns the best available human-readable name for the
// principal, falling back to the email address when no name metadata exists.
func (p Principal) DisplayName() string {
	if name, ok := p.Metadata[MetadataName]; ok && name != "" {
		return name
	}

	return p.Email
}

// MetadataRole returns the role recorded in the principal's metadata, or the
// default role when the metadata is missing or invalid.
func (p Principal) MetadataRole() Role {
	role := Role(p.Metadata[MetadataRole])
	if !role.IsValid() {
		return DefaultRole
	}

	return role
}

// Session is the transient association between a principal and its tokens.
// It lives in process memory and is re-derived from a persisted refresh token
// on cold start.
type Session struct {
	Principal    // The authenticated identity this session belongs to.
	AccessToken  string    // Short-lived bearer token presented on API calls.
	RefreshToken string    // Long-lived token used to resume the session.
	ExpiresAt    time.Time // When the access token stops being accepted.
}

// Expired reports whether the session's access token is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
