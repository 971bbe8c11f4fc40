// Package constants holds shared provider identifiers used by configuration
// driven factories.
package constants

// Pub/Sub provider names accepted by config.
const (
	PubSubProviderGoogle = "google"
	PubSubProviderLocal  = "local"
)

// Identity provider names accepted by config.
const (
	IdentityProviderHosted = "hosted"
	IdentityProviderLocal  = "local"
)

// Notification provider names accepted by config.
const (
	NotificationProviderFirebase = "firebase"
	NotificationProviderNoop     = "noop"
)
