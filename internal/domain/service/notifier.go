package service

import (
	"context"
)

// Severity grades a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a short user-facing message, typically surfaced as a toast
// or push notification on the client.
type Notification struct {
	Severity Severity          `json:"severity"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Data     map[string]string `json:"data,omitempty"`
}

// Notifier delivers user-facing notifications. Notify never returns an error;
// delivery is best-effort and implementations log their own failures. Business
// errors are reported through this channel in addition to the error return so
// the user sees feedback even when the caller swallows the error.
type Notifier interface {
	Notify(ctx context.Context, userID string, notification Notification)
}

// PushSender sends push notifications to registered device tokens. Unlike
// Notifier it reports delivery results so callers can prune invalid tokens.
type PushSender interface {
	// SendBatch sends a push notification to multiple device tokens.
	// Returns success count, failure count, and the list of invalid tokens.
	SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)

	// SendSingle sends a push notification to a single device token.
	SendSingle(ctx context.Context, token, title, body string, data map[string]string) error
}
