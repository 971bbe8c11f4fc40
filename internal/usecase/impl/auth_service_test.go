package impl

import (
	"context"
	"testing"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"
	mockSvc "farmferia/internal/mocks/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	usecase.ProfileUsecase

	profile *entity.Profile
	err     error
	calls   int
}

func (s *stubProfiles) EnsureProfile(_ context.Context, principal entity.Principal) (*entity.Profile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.profile != nil {
		return s.profile, nil
	}

	return entity.SynthesizeProfile(principal), nil
}

func newAuthFixture(t *testing.T) (*authService, *mockSvc.MockIdentityProvider, *stubProfiles, *mockSvc.MockPasswordHasher, *mockSvc.RecordingNotifier) {
	provider := mockSvc.NewMockIdentityProvider(t)
	profiles := &stubProfiles{}
	hasher := mockSvc.NewMockPasswordHasher(t)
	notifier := mockSvc.NewRecordingNotifier(t)
	svc := &authService{
		provider: provider,
		profiles: profiles,
		hasher:   hasher,
		notifier: notifier,
		logger:   testLogger(),
	}

	return svc, provider, profiles, hasher, notifier
}

func providerSession(role entity.Role) *entity.Session {
	return &entity.Session{
		Principal: entity.Principal{
			ID:    uuid.New(),
			Email: "farmer@example.com",
			Metadata: map[string]string{
				entity.MetadataName: "Farmer Singh",
				entity.MetadataRole: role.String(),
			},
		},
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func TestAuthService_SignIn(t *testing.T) {
	svc, provider, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	sess := providerSession(entity.RoleBuyer)

	provider.On("Authenticate", ctx, "farmer@example.com", "pw").Return(sess, nil)

	out, err := svc.SignIn(ctx, usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Same(t, sess, out.Session)
}

func TestAuthService_SignIn_BadCredentials(t *testing.T) {
	svc, provider, _, _, notifier := newAuthFixture(t)
	ctx := context.Background()

	provider.On("Authenticate", ctx, "farmer@example.com", "wrong").
		Return(nil, domainerrors.ErrInvalidCredentials)

	_, err := svc.SignIn(ctx, usecase.SignInInput{Email: "farmer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// The rejection is returned and pushed as a notification.
	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, service.SeverityError, notifier.Sent()[0].Notification.Severity)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.Message(), notifier.Sent()[0].Notification.Message)
}

func TestAuthService_SignUp_CarriesNameAndRoleAsMetadata(t *testing.T) {
	svc, provider, profiles, hasher, _ := newAuthFixture(t)
	ctx := context.Background()
	sess := providerSession(entity.RoleSeller)

	hasher.On("ValidatePasswordStrength", "strong-pw-1").Return(nil)
	provider.On("Register", ctx, mock.MatchedBy(func(input service.RegisterInput) bool {
		return input.Email == "farmer@example.com" &&
			input.Metadata[entity.MetadataName] == "Farmer Singh" &&
			input.Metadata[entity.MetadataRole] == "seller"
	})).Return(sess, nil)

	out, err := svc.SignUp(ctx, usecase.SignUpInput{
		Name:     "Farmer Singh",
		Email:    "farmer@example.com",
		Password: "strong-pw-1",
		Role:     entity.RoleSeller,
	})
	require.NoError(t, err)
	assert.Same(t, sess, out.Session)
	assert.Equal(t, 1, profiles.calls)
}

func TestAuthService_SignUp_DefaultsRoleToBuyer(t *testing.T) {
	svc, provider, _, hasher, _ := newAuthFixture(t)
	ctx := context.Background()

	hasher.On("ValidatePasswordStrength", "strong-pw-1").Return(nil)
	provider.On("Register", ctx, mock.MatchedBy(func(input service.RegisterInput) bool {
		return input.Metadata[entity.MetadataRole] == "buyer"
	})).Return(providerSession(entity.RoleBuyer), nil)

	_, err := svc.SignUp(ctx, usecase.SignUpInput{
		Name:     "Plain Buyer",
		Email:    "buyer@example.com",
		Password: "strong-pw-1",
	})
	require.NoError(t, err)
}

func TestAuthService_SignUp_RejectsWeakPassword(t *testing.T) {
	svc, _, profiles, hasher, _ := newAuthFixture(t)
	ctx := context.Background()

	hasher.On("ValidatePasswordStrength", "123").Return(errors.New("too short"))

	_, err := svc.SignUp(ctx, usecase.SignUpInput{Email: "x@example.com", Password: "123"})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
	assert.Equal(t, 0, profiles.calls)
}

func TestAuthService_SignUp_ProviderConflict(t *testing.T) {
	svc, provider, profiles, hasher, notifier := newAuthFixture(t)
	ctx := context.Background()

	hasher.On("ValidatePasswordStrength", "strong-pw-1").Return(nil)
	provider.On("Register", ctx, mock.AnythingOfType("service.RegisterInput")).
		Return(nil, domainerrors.ErrRegistrationFailed)

	_, err := svc.SignUp(ctx, usecase.SignUpInput{Email: "taken@example.com", Password: "strong-pw-1"})
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Equal(t, 0, profiles.calls)

	// The rejection is returned and pushed as a notification.
	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, service.SeverityError, notifier.Sent()[0].Notification.Severity)
}

func TestAuthService_SignUp_ProfileFailureDoesNotRollBackAccount(t *testing.T) {
	svc, provider, profiles, hasher, notifier := newAuthFixture(t)
	ctx := context.Background()
	sess := providerSession(entity.RoleSeller)
	profiles.err = errors.New("profiles table unavailable")

	hasher.On("ValidatePasswordStrength", "strong-pw-1").Return(nil)
	provider.On("Register", ctx, mock.AnythingOfType("service.RegisterInput")).Return(sess, nil)

	// Phase two failed. The account stays in place so the profile can heal on
	// the next sign-in, but the caller is told the registration failed.
	out, err := svc.SignUp(ctx, usecase.SignUpInput{Email: "farmer@example.com", Password: "strong-pw-1"})
	require.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Nil(t, out)

	// Register ran exactly once and was not compensated; only the profile row
	// is missing.
	provider.AssertNumberOfCalls(t, "Register", 1)
	provider.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	assert.Equal(t, 1, profiles.calls)

	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, service.SeverityWarning, notifier.Sent()[0].Notification.Severity)
}

func TestAuthService_SignOut_PropagatesProviderError(t *testing.T) {
	svc, provider, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	provider.On("Invalidate", ctx, "access").Return(errors.New("network down"))

	err := svc.SignOut(ctx, "access")
	assert.Error(t, err)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, provider, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	sess := providerSession(entity.RoleBuyer)

	provider.On("Refresh", ctx, "refresh").Return(sess, nil)

	got, err := svc.Refresh(ctx, "refresh")
	require.NoError(t, err)
	assert.Same(t, sess, got)
}
