// Package identity provides the authentication backends behind the
// service.IdentityProvider interface.
package identity

import (
	"log/slog"

	"farmferia/config"
	"farmferia/internal/domain/constants"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProviderParams holds dependencies for IdentityProvider, injected by Fx
type ProviderParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Credentials repository.CredentialRepository
	Hasher      service.PasswordHasher
	Tokens      service.TokenService
}

// NewIdentityProvider creates an IdentityProvider based on configuration
func NewIdentityProvider(params ProviderParams) (service.IdentityProvider, error) {
	cfg := params.Config.Identity
	logger := params.Logger

	// Default to the self-hosted provider when nothing is configured.
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.IdentityProviderLocal {
		logger.Info("Using local identity provider")

		return NewLocalProvider(params.Credentials, params.Hasher, params.Tokens, logger), nil
	}

	switch cfg.Provider {
	case constants.IdentityProviderHosted:
		if cfg.Endpoint == "" {
			return nil, errors.New("endpoint is required for hosted identity provider")
		}
		if cfg.APIKey == "" {
			return nil, errors.New("api key is required for hosted identity provider")
		}
		logger.Info("Using hosted identity provider",
			slog.String("endpoint", cfg.Endpoint),
		)

		return NewHostedProvider(cfg.Endpoint, cfg.APIKey, logger), nil

	default:
		return nil, errors.Errorf("unknown identity provider: %s", cfg.Provider)
	}
}

// Module provides the identity FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewIdentityProvider),
)
