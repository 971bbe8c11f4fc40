package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application-level user record, keyed by the principal's ID.
// Exactly one profile exists per principal; the role is fixed at creation and
// no role-change operation exists.
type Profile struct {
	ID        uuid.UUID // Same value as the owning principal's ID.
	Name      string    // Display name shown across the marketplace.
	Email     string    // Contact email, mirrored from the principal.
	Role      Role      // seller, buyer or admin.
	AvatarURL *string   // Optional avatar reference.
	PushToken *string   // Optional device token for push delivery.
	CreatedAt time.Time // Timestamp of when the profile was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// SynthesizeProfile builds a profile from whatever identity metadata the
// principal carries. It is the self-heal path for principals whose profile
// insert was lost during a partially failed sign-up.
func SynthesizeProfile(principal Principal) *Profile {
	return &Profile{
		ID:    principal.ID,
		Name:  principal.DisplayName(),
		Email: principal.Email,
		Role:  principal.MetadataRole(),
	}
}
