package impl

import (
	"context"
	"log/slog"

	deliverycontext "farmferia/internal/delivery/context"
	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"
	"farmferia/internal/errors"
	"farmferia/internal/usecase"

	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface on top of the configured
// identity provider.
type authService struct {
	provider service.IdentityProvider
	profiles usecase.ProfileUsecase
	hasher   service.PasswordHasher
	notifier service.Notifier
	logger   *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Provider service.IdentityProvider
	Profiles usecase.ProfileUsecase
	Hasher   service.PasswordHasher
	Notifier service.Notifier
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		provider: params.Provider,
		profiles: params.Profiles,
		hasher:   params.Hasher,
		notifier: params.Notifier,
		logger:   params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignIn exchanges credentials for a session. A rejection is both returned
// and pushed as a notification.
func (srv *authService) SignIn(ctx context.Context, input usecase.SignInInput) (*usecase.SignInOutput, error) {
	session, err := srv.provider.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		srv.log(ctx).Info("sign in rejected", slog.String("email", input.Email), slog.Any("error", err))
		srv.notifyAuthFailure(ctx, "Sign in failed", err)

		return nil, err
	}

	return &usecase.SignInOutput{Session: session}, nil
}

// SignUp registers a new account in two phases. Phase one creates the account
// with the identity provider, carrying the display name and role as session
// metadata. Phase two creates the profile row. A phase-two failure does not
// roll the account back; the profile is healed on the next sign-in, but the
// registration itself is reported as failed to the caller.
func (srv *authService) SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	role := input.Role
	if role == "" {
		role = entity.DefaultRole
	}
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role " + role.String())
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	session, err := srv.provider.Register(ctx, service.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Metadata: map[string]string{
			entity.MetadataName: input.Name,
			entity.MetadataRole: role.String(),
		},
	})
	if err != nil {
		srv.log(ctx).Warn("registration rejected", slog.String("email", input.Email), slog.Any("error", err))
		srv.notifyAuthFailure(ctx, "Sign up failed", err)

		return nil, err
	}

	if _, err := srv.profiles.EnsureProfile(ctx, session.Principal); err != nil {
		// The account exists; only the profile row is missing. It is healed on
		// the next sign-in, so the account is left in place, but the caller
		// still has to hear that the registration did not complete.
		srv.log(ctx).Error("profile creation failed after registration",
			slog.String("user_id", session.ID.String()),
			slog.Any("error", err),
		)
		srv.notifier.Notify(ctx, session.ID.String(), service.Notification{
			Severity: service.SeverityWarning,
			Title:    "Account created",
			Message:  "Your account was created but the profile could not be saved yet. Sign in to retry.",
		})

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage(err.Error())
	}

	return &usecase.SignUpOutput{Session: session}, nil
}

// notifyAuthFailure pushes an authentication failure as a notification. There
// is no authenticated user at this point, so the notification carries an
// empty user id.
func (srv *authService) notifyAuthFailure(ctx context.Context, title string, err error) {
	message := err.Error()
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message()
	}
	srv.notifier.Notify(ctx, "", service.Notification{
		Severity: service.SeverityError,
		Title:    title,
		Message:  message,
	})
}

// SignOut invalidates the session on the identity provider.
func (srv *authService) SignOut(ctx context.Context, accessToken string) error {
	if err := srv.provider.Invalidate(ctx, accessToken); err != nil {
		srv.log(ctx).Warn("session invalidation failed", slog.Any("error", err))

		return err
	}

	return nil
}

// Refresh exchanges a refresh token for a new session.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	session, err := srv.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return session, nil
}
