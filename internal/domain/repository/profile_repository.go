// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProfileNotFound is a domain-specific error returned when a profile is not found.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when an insert collides with an existing profile row.
var ErrProfileExists = errors.New("profile already exists")

// ProfileRepository defines the standard operations for profile persistence.
// The application layer will depend on this interface, not the concrete implementation.
type ProfileRepository interface {
	// FindByID retrieves a single profile by the owning account ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// FindByEmail retrieves a single profile by email address.
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)

	// Insert persists a new profile. Returns ErrProfileExists when the row is already present.
	Insert(ctx context.Context, profile *entity.Profile) error

	// Update modifies an existing profile.
	Update(ctx context.Context, profile *entity.Profile) error

	// List returns profiles filtered by role. A zero-value role returns every profile.
	List(ctx context.Context, role entity.Role) ([]*entity.Profile, error)

	// CountByRole counts the profiles holding the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
