// Package notification delivers user-facing messages through the in-process
// change feed and, when configured, Firebase Cloud Messaging pushes.
package notification

import (
	"context"
	"log/slog"

	"farmferia/config"
	"farmferia/internal/domain/constants"
	"farmferia/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopSender is a no-op implementation when push notifications are disabled
type noopSender struct {
	logger *slog.Logger
}

func (s *noopSender) SendSingle(_ context.Context, _, title, _ string, _ map[string]string) error {
	s.logger.Debug("[NoopPush] Push delivery disabled, skipping",
		slog.String("title", title),
	)

	return nil
}

func (s *noopSender) SendBatch(_ context.Context, tokens []string, title, _ string, _ map[string]string) (int, int, []string, error) {
	s.logger.Debug("[NoopPush] Push delivery disabled, skipping batch",
		slog.String("title", title),
		slog.Int("token_count", len(tokens)),
	)

	return 0, 0, nil, nil
}

// SenderParams holds dependencies for PushSender, injected by Fx
type SenderParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewPushSender creates a PushSender based on configuration
func NewPushSender(params SenderParams) (service.PushSender, error) {
	cfg := params.Config.Notification
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.NotificationProviderNoop {
		logger.Info("Push notifications not configured, using no-op sender")

		return &noopSender{logger: logger}, nil
	}

	switch cfg.Provider {
	case constants.NotificationProviderFirebase:
		if cfg.CredentialsPath == "" {
			return nil, errors.New("credentials path is required for firebase provider")
		}
		logger.Info("Using Firebase push sender",
			slog.String("project_id", cfg.ProjectID),
		)

		return NewFirebaseSender(params.Ctx, cfg.CredentialsPath)

	default:
		return nil, errors.Errorf("unknown notification provider: %s", cfg.Provider)
	}
}

// Module provides the notification FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewPushSender,
		NewFeedNotifier,
	),
)
