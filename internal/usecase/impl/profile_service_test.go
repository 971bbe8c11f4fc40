package impl

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	mockRepo "farmferia/internal/mocks/repository"
	mockSvc "farmferia/internal/mocks/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProfileService(repo repository.ProfileRepository, feed *mockSvc.RecordingChangeFeed) usecase.ProfileUsecase {
	return &profileService{
		profileRepo: repo,
		feed:        feed,
		logger:      testLogger(),
	}
}

func sellerPrincipal() entity.Principal {
	return entity.Principal{
		ID:    uuid.New(),
		Email: "farmer@example.com",
		Metadata: map[string]string{
			entity.MetadataName: "Farmer Singh",
			entity.MetadataRole: entity.RoleSeller.String(),
		},
	}
}

func TestProfileService_EnsureProfile_ExistingRow(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	principal := sellerPrincipal()
	existing := &entity.Profile{ID: principal.ID, Name: "Farmer Singh", Role: entity.RoleSeller}

	repo.On("FindByID", ctx, principal.ID).Return(existing, nil)

	profile, err := service.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	assert.Same(t, existing, profile)
	assert.Empty(t, feed.Published())
}

func TestProfileService_EnsureProfile_CreatesFromMetadata(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	principal := sellerPrincipal()

	repo.On("FindByID", ctx, principal.ID).Return(nil, repository.ErrProfileNotFound)
	repo.On("Insert", ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)

	profile, err := service.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, profile.ID)
	assert.Equal(t, "Farmer Singh", profile.Name)
	assert.Equal(t, entity.RoleSeller, profile.Role)
	require.Len(t, feed.Published(), 1)
	assert.Equal(t, "profiles", feed.Published()[0].Table)
}

func TestProfileService_EnsureProfile_MissingMetadataFallsBackToBuyer(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	principal := entity.Principal{ID: uuid.New(), Email: "plain@example.com"}

	repo.On("FindByID", ctx, principal.ID).Return(nil, repository.ErrProfileNotFound)
	repo.On("Insert", ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)

	profile, err := service.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, profile.Role)
	// Display name falls back to the email when no name metadata exists.
	assert.Equal(t, "plain@example.com", profile.Name)
}

func TestProfileService_EnsureProfile_LostInsertRaceReturnsWinner(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	principal := sellerPrincipal()
	winner := &entity.Profile{ID: principal.ID, Name: "Winner", Role: entity.RoleSeller}

	repo.On("FindByID", ctx, principal.ID).Return(nil, repository.ErrProfileNotFound).Once()
	repo.On("Insert", ctx, mock.AnythingOfType("*entity.Profile")).Return(repository.ErrProfileExists)
	repo.On("FindByID", ctx, principal.ID).Return(winner, nil).Once()

	profile, err := service.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	assert.Same(t, winner, profile)
	assert.Empty(t, feed.Published())
}

func TestProfileService_EnsureProfile_RepositoryFailure(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	principal := sellerPrincipal()

	repo.On("FindByID", ctx, principal.ID).Return(nil, errors.New("connection refused"))

	_, err := service.EnsureProfile(ctx, principal)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProfileSyncFailed)
}

func TestProfileService_UpdateProfile_PartialUpdate(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	userID := uuid.New()
	avatar := "https://example.com/old.png"
	existing := &entity.Profile{ID: userID, Name: "Old Name", Role: entity.RoleBuyer, AvatarURL: &avatar}

	repo.On("FindByID", ctx, userID).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)

	newName := "New Name"
	profile, err := service.UpdateProfile(ctx, userID, &usecase.UpdateProfileInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)
	// Fields not present in the input stay untouched.
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, avatar, *profile.AvatarURL)
	require.Len(t, feed.Published(), 1)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	repo := mockRepo.NewMockProfileRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	service := newProfileService(repo, feed)

	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindByID", ctx, userID).Return(nil, repository.ErrProfileNotFound)

	_, err := service.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, domainerrors.ErrProfileNotFound)
}
