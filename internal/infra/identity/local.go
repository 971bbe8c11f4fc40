package identity

import (
	"context"
	"log/slog"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// localProvider implements IdentityProvider on top of the credential store
// and the JWT token service, for deployments without a hosted auth backend.
type localProvider struct {
	credentials repository.CredentialRepository
	hasher      service.PasswordHasher
	tokens      service.TokenService
	logger      *slog.Logger
	*listeners
}

// NewLocalProvider creates the self-hosted identity provider.
func NewLocalProvider(
	credentials repository.CredentialRepository,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	logger *slog.Logger,
) service.IdentityProvider {
	return &localProvider{
		credentials: credentials,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		listeners:   newListeners(),
	}
}

func (p *localProvider) Authenticate(ctx context.Context, email, password string) (*entity.Session, error) {
	credential, err := p.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load credential")
	}

	if !p.hasher.Check(password, credential.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	session, err := p.issueSession(credential)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: session})

	return session, nil
}

func (p *localProvider) Register(ctx context.Context, input service.RegisterInput) (*entity.Session, error) {
	hash, err := p.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	credential := &entity.Credential{
		PrincipalID:  uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		Metadata:     input.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.credentials.Create(ctx, credential); err != nil {
		if errors.Is(err, repository.ErrCredentialExists) {
			return nil, domainerrors.ErrRegistrationFailed.WrapMessage("email is already registered")
		}

		return nil, errors.Wrap(err, "failed to store credential")
	}

	session, err := p.issueSession(credential)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: session})

	return session, nil
}

func (p *localProvider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	claims, err := p.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrSessionExpired.WrapMessage(err.Error())
	}

	credential, err := p.credentials.FindByPrincipalID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, domainerrors.ErrSessionExpired
		}

		return nil, errors.Wrap(err, "failed to load credential")
	}

	session, err := p.issueSession(credential)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionRefreshed, Session: session})

	return session, nil
}

// Invalidate has no server-side state to revoke; tokens simply age out. The
// signed-out event still fires so every observer drops the session.
func (p *localProvider) Invalidate(_ context.Context, _ string) error {
	p.emit(service.SessionEvent{Type: service.SessionSignedOut})

	return nil
}

func (p *localProvider) OnSessionChange(fn func(service.SessionEvent)) func() {
	return p.add(fn)
}

func (p *localProvider) issueSession(credential *entity.Credential) (*entity.Session, error) {
	principal := credential.Principal()
	role := principal.MetadataRole()

	accessToken, refreshToken, err := p.tokens.GenerateTokens(principal.ID, principal.Email, []string{role.String()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens")
	}

	return &entity.Session{
		Principal:    principal,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(p.tokens.GetAccessTokenDuration()),
	}, nil
}
