// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "farmferia/internal/delivery/context"
	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const profilesTable = "profiles"

// profileService implements the ProfileUsecase interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	feed        service.ChangeFeed
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	ProfileRepo repository.ProfileRepository
	Feed        service.ChangeFeed
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		profileRepo: params.ProfileRepo,
		feed:        params.Feed,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// EnsureProfile returns the principal's profile, creating it from session
// metadata when the row is missing. A lost insert race is tolerated by
// re-reading the winner's row, so concurrent sign-ins of the same account
// all converge on one profile.
func (srv *profileService) EnsureProfile(ctx context.Context, principal entity.Principal) (*entity.Profile, error) {
	profile, err := srv.profileRepo.FindByID(ctx, principal.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, domainerrors.ErrProfileSyncFailed.WrapMessage(err.Error())
	}

	synthesized := entity.SynthesizeProfile(principal)
	srv.log(ctx).Info("profile missing, creating from session metadata",
		slog.String("user_id", principal.ID.String()),
		slog.String("role", synthesized.Role.String()),
	)

	err = srv.profileRepo.Insert(ctx, synthesized)
	if err == nil {
		srv.feed.Publish(service.ChangeEvent{
			Table:    profilesTable,
			Op:       service.ChangeInsert,
			RecordID: synthesized.ID.String(),
		})

		return synthesized, nil
	}
	if !errors.Is(err, repository.ErrProfileExists) {
		return nil, domainerrors.ErrProfileSyncFailed.WrapMessage(err.Error())
	}

	// Another sign-in of the same account inserted first. Its row wins.
	winner, err := srv.profileRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, domainerrors.ErrProfileSyncFailed.WrapMessage(err.Error())
	}

	return winner, nil
}

// GetProfile retrieves a profile by account ID.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := srv.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domainerrors.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

// UpdateProfile applies the partial update and fans the change out.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	profile, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.PushToken != nil {
		profile.PushToken = input.PushToken
	}
	profile.UpdatedAt = time.Now()

	if err := srv.profileRepo.Update(ctx, profile); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    profilesTable,
		Op:       service.ChangeUpdate,
		RecordID: profile.ID.String(),
	})

	return profile, nil
}

// ListProfiles returns profiles filtered by role.
func (srv *profileService) ListProfiles(ctx context.Context, role entity.Role) ([]*entity.Profile, error) {
	profiles, err := srv.profileRepo.List(ctx, role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list profiles")
	}

	return profiles, nil
}
