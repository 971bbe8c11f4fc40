package notification

import (
	"context"
	"log/slog"

	"farmferia/internal/domain/service"

	"go.uber.org/fx"
)

const notificationsTable = "notifications"

// feedNotifier delivers user-facing notifications over the in-process change
// feed so connected clients see them live, and mirrors each one to the log.
// Delivery is best-effort: Notify never blocks and never fails the caller.
type feedNotifier struct {
	feed   service.ChangeFeed
	logger *slog.Logger
}

// NotifierParams holds dependencies for Notifier, injected by Fx
type NotifierParams struct {
	fx.In

	Feed   service.ChangeFeed
	Logger *slog.Logger
}

// NewFeedNotifier creates the change-feed backed Notifier.
func NewFeedNotifier(params NotifierParams) service.Notifier {
	return &feedNotifier{
		feed:   params.Feed,
		logger: params.Logger,
	}
}

func (n *feedNotifier) Notify(ctx context.Context, userID string, notification service.Notification) {
	payload := map[string]string{
		"severity": string(notification.Severity),
		"title":    notification.Title,
		"message":  notification.Message,
	}
	for key, value := range notification.Data {
		payload[key] = value
	}

	n.feed.Publish(service.ChangeEvent{
		Table:    notificationsTable,
		Op:       service.ChangeInsert,
		RecordID: userID,
		Payload:  payload,
	})

	level := slog.LevelInfo
	if notification.Severity == service.SeverityError {
		level = slog.LevelWarn
	}
	n.logger.LogAttrs(ctx, level, "User notification",
		slog.String("user_id", userID),
		slog.String("severity", string(notification.Severity)),
		slog.String("title", notification.Title),
		slog.String("message", notification.Message),
	)
}
