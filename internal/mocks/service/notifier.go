package service

import (
	"context"
	"sync"
	"testing"

	"farmferia/internal/domain/service"
)

// RecordingNotifier captures notifications for assertions. Notify never fails,
// so a recording stub reads better in tests than a strict mock.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []SentNotification
}

// SentNotification pairs a notification with its target account.
type SentNotification struct {
	UserID       string
	Notification service.Notification
}

// NewRecordingNotifier creates an empty recorder.
func NewRecordingNotifier(_ *testing.T) *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Notify(_ context.Context, userID string, notification service.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{UserID: userID, Notification: notification})
}

// Sent returns a copy of everything notified so far.
func (n *RecordingNotifier) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]SentNotification, len(n.sent))
	copy(out, n.sent)

	return out
}
