package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"farmferia/config"
	"farmferia/internal/cart"
	"farmferia/internal/delivery"
	"farmferia/internal/delivery/http"
	"farmferia/internal/delivery/http/middleware"
	"farmferia/internal/delivery/http/router/handler"
	appmiddleware "farmferia/internal/delivery/middleware"
	"farmferia/internal/domain/service"
	"farmferia/internal/infra/auth"
	"farmferia/internal/infra/identity"
	logs "farmferia/internal/infra/log"
	"farmferia/internal/infra/notification"
	"farmferia/internal/infra/persistence/postgres"
	"farmferia/internal/infra/pubsub"
	"farmferia/internal/infra/qrcode"
	"farmferia/internal/realtime"
	"farmferia/internal/session"
	"farmferia/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			session.NewManager,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			realtime.NewHub,
			cart.NewStore,
			newTokenStore,
			newSessionOptions,
		),
		pubsub.Module,
		identity.Module,
		notification.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewProfileRepository,
			postgres.NewProductRepository,
			postgres.NewOrderRepository,
			postgres.NewChatRepository,
			postgres.NewSchemeRepository,
			postgres.NewCredentialRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newTrackingService,
		),
	)
}

// newTrackingService creates a tracking QR service with dependency injection
func newTrackingService(cfg *config.Config) service.TrackingService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewTrackingService(256, "M", "")
	}

	return qrcode.NewTrackingService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

// newTokenStore creates the refresh token store used to resume sessions.
func newTokenStore(cfg *config.Config) session.TokenStore {
	if cfg.Session == nil || cfg.Session.TokenPath == "" {
		return session.NewFileTokenStore(filepath.Join(os.TempDir(), "farmferia_session.json"))
	}

	return session.NewFileTokenStore(cfg.Session.TokenPath)
}

func newSessionOptions(cfg *config.Config) *session.Options {
	if cfg.Session == nil {
		return nil
	}

	return &session.Options{
		ResumeTimeout: cfg.Session.ResumeTimeout,
		SyncTimeout:   cfg.Session.SyncTimeout,
	}
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewProfileService,
			impl.NewProductService,
			impl.NewOrderService,
			impl.NewCartService,
			impl.NewChatService,
			impl.NewSchemeService,
			impl.NewAdminService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			appmiddleware.NewRequestIDMiddleware,
			appmiddleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewProfileHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewChatHandler,
			handler.NewSchemeHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
