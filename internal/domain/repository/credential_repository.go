package repository

import (
	"context"
	"errors"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when no credential matches the lookup.
var ErrCredentialNotFound = errors.New("credential not found")

// ErrCredentialExists is returned when registering an email that is already taken.
var ErrCredentialExists = errors.New("credential already exists")

// CredentialRepository stores sign-in material for the self-hosted identity provider.
type CredentialRepository interface {
	// FindByEmail retrieves a credential by email address.
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)

	// FindByPrincipalID retrieves a credential by the owning account ID.
	FindByPrincipalID(ctx context.Context, id uuid.UUID) (*entity.Credential, error)

	// Create persists a new credential. Returns ErrCredentialExists when the email is taken.
	Create(ctx context.Context, credential *entity.Credential) error

	// Update modifies an existing credential.
	Update(ctx context.Context, credential *entity.Credential) error
}
