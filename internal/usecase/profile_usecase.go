// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// EnsureProfile returns the profile for the principal, creating it from the
	// principal's metadata when it does not exist yet. Safe to call repeatedly
	// and from concurrent sign-ins of the same account.
	EnsureProfile(ctx context.Context, principal entity.Principal) (*entity.Profile, error)

	// GetProfile retrieves a profile by account ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// UpdateProfile applies the partial update to the account's profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)

	// ListProfiles returns profiles filtered by role. A zero role lists everyone.
	ListProfiles(ctx context.Context, role entity.Role) ([]*entity.Profile, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the data required to update a profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	PushToken *string `json:"push_token,omitempty"`
}
