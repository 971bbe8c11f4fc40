package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential holds the locally stored sign-in material for an account.
// It backs the self-hosted identity provider; hosted providers keep the
// equivalent record on their side.
type Credential struct {
	PrincipalID   uuid.UUID
	Email         string
	EmailVerified bool
	PasswordHash  string
	Metadata      map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Principal projects the credential into the identity view shared with
// hosted providers.
func (c *Credential) Principal() Principal {
	return Principal{
		ID:            c.PrincipalID,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Metadata:      c.Metadata,
	}
}
