package identity

import (
	"context"
	"testing"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"
	mockrepo "farmferia/internal/mocks/repository"
	mockservice "farmferia/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type localFixture struct {
	provider    service.IdentityProvider
	credentials *mockrepo.MockCredentialRepository
	hasher      *mockservice.MockPasswordHasher
	tokens      *mockservice.MockTokenService
	events      *[]service.SessionEvent
}

func newLocalFixture(t *testing.T) *localFixture {
	t.Helper()

	credentials := mockrepo.NewMockCredentialRepository(t)
	hasher := mockservice.NewMockPasswordHasher(t)
	tokens := mockservice.NewMockTokenService(t)
	provider := NewLocalProvider(credentials, hasher, tokens, testLogger())

	events := new([]service.SessionEvent)
	unsubscribe := provider.OnSessionChange(func(event service.SessionEvent) {
		*events = append(*events, event)
	})
	t.Cleanup(unsubscribe)

	return &localFixture{
		provider:    provider,
		credentials: credentials,
		hasher:      hasher,
		tokens:      tokens,
		events:      events,
	}
}

func storedCredential() *entity.Credential {
	return &entity.Credential{
		PrincipalID:  uuid.New(),
		Email:        "asha@farm.test",
		PasswordHash: "$2a$10$stored",
		Metadata: map[string]string{
			entity.MetadataName: "Asha",
			entity.MetadataRole: "seller",
		},
	}
}

func TestLocalProviderAuthenticate(t *testing.T) {
	f := newLocalFixture(t)
	credential := storedCredential()

	f.credentials.On("FindByEmail", mock.Anything, "asha@farm.test").Return(credential, nil)
	f.hasher.On("Check", "secret123", credential.PasswordHash).Return(true)
	f.tokens.On("GenerateTokens", credential.PrincipalID, credential.Email, []string{"seller"}).
		Return("access-token", "refresh-token", nil)
	f.tokens.On("GetAccessTokenDuration").Return(15 * time.Minute)

	session, err := f.provider.Authenticate(context.Background(), "asha@farm.test", "secret123")

	require.NoError(t, err)
	assert.Equal(t, credential.PrincipalID, session.ID)
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, "refresh-token", session.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), session.ExpiresAt, time.Second)

	require.Len(t, *f.events, 1)
	assert.Equal(t, service.SessionSignedIn, (*f.events)[0].Type)
}

func TestLocalProviderAuthenticateUnknownEmail(t *testing.T) {
	f := newLocalFixture(t)

	f.credentials.On("FindByEmail", mock.Anything, "ghost@farm.test").
		Return(nil, repository.ErrCredentialNotFound)

	_, err := f.provider.Authenticate(context.Background(), "ghost@farm.test", "secret123")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Empty(t, *f.events)
}

func TestLocalProviderAuthenticateWrongPassword(t *testing.T) {
	f := newLocalFixture(t)
	credential := storedCredential()

	f.credentials.On("FindByEmail", mock.Anything, "asha@farm.test").Return(credential, nil)
	f.hasher.On("Check", "wrong", credential.PasswordHash).Return(false)

	_, err := f.provider.Authenticate(context.Background(), "asha@farm.test", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLocalProviderRegister(t *testing.T) {
	f := newLocalFixture(t)

	f.hasher.On("Hash", "secret123").Return("$2a$10$new", nil)
	f.credentials.On("Create", mock.Anything, mock.MatchedBy(func(credential *entity.Credential) bool {
		return credential.Email == "asha@farm.test" &&
			credential.PasswordHash == "$2a$10$new" &&
			credential.Metadata[entity.MetadataRole] == "buyer"
	})).Return(nil)
	f.tokens.On("GenerateTokens", mock.Anything, "asha@farm.test", []string{"buyer"}).
		Return("access-token", "refresh-token", nil)
	f.tokens.On("GetAccessTokenDuration").Return(15 * time.Minute)

	session, err := f.provider.Register(context.Background(), service.RegisterInput{
		Email:    "asha@farm.test",
		Password: "secret123",
		Metadata: map[string]string{
			entity.MetadataName: "Asha",
			entity.MetadataRole: "buyer",
		},
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, "Asha", session.DisplayName())

	require.Len(t, *f.events, 1)
	assert.Equal(t, service.SessionSignedIn, (*f.events)[0].Type)
}

func TestLocalProviderRegisterDuplicateEmail(t *testing.T) {
	f := newLocalFixture(t)

	f.hasher.On("Hash", "secret123").Return("$2a$10$new", nil)
	f.credentials.On("Create", mock.Anything, mock.Anything).
		Return(repository.ErrCredentialExists)

	_, err := f.provider.Register(context.Background(), service.RegisterInput{
		Email:    "asha@farm.test",
		Password: "secret123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Empty(t, *f.events)
}

func TestLocalProviderRefresh(t *testing.T) {
	f := newLocalFixture(t)
	credential := storedCredential()

	f.tokens.On("ValidateRefreshToken", "old-refresh-token").
		Return(&service.Claims{UserID: credential.PrincipalID, Email: credential.Email}, nil)
	f.credentials.On("FindByPrincipalID", mock.Anything, credential.PrincipalID).
		Return(credential, nil)
	f.tokens.On("GenerateTokens", credential.PrincipalID, credential.Email, []string{"seller"}).
		Return("new-access", "new-refresh", nil)
	f.tokens.On("GetAccessTokenDuration").Return(15 * time.Minute)

	session, err := f.provider.Refresh(context.Background(), "old-refresh-token")

	require.NoError(t, err)
	assert.Equal(t, "new-access", session.AccessToken)
	assert.Equal(t, "new-refresh", session.RefreshToken)

	require.Len(t, *f.events, 1)
	assert.Equal(t, service.SessionRefreshed, (*f.events)[0].Type)
}

func TestLocalProviderRefreshExpiredToken(t *testing.T) {
	f := newLocalFixture(t)

	f.tokens.On("ValidateRefreshToken", "stale").
		Return(nil, assert.AnError)

	_, err := f.provider.Refresh(context.Background(), "stale")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)
}

func TestLocalProviderInvalidateAlwaysSignsOut(t *testing.T) {
	f := newLocalFixture(t)

	err := f.provider.Invalidate(context.Background(), "access-token")

	require.NoError(t, err)
	require.Len(t, *f.events, 1)
	assert.Equal(t, service.SessionSignedOut, (*f.events)[0].Type)
}
