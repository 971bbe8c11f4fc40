package impl

import (
	"context"
	"strings"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const schemesTable = "government_schemes"

// schemeService implements the SchemeUsecase interface.
type schemeService struct {
	schemeRepo repository.SchemeRepository
	feed       service.ChangeFeed
}

// SchemeServiceParams holds dependencies for SchemeService, injected by Fx.
type SchemeServiceParams struct {
	fx.In

	SchemeRepo repository.SchemeRepository
	Feed       service.ChangeFeed
}

// NewSchemeService is the constructor for schemeService.
func NewSchemeService(params SchemeServiceParams) usecase.SchemeUsecase {
	return &schemeService{
		schemeRepo: params.SchemeRepo,
		feed:       params.Feed,
	}
}

// CreateScheme publishes a new scheme announcement.
func (srv *schemeService) CreateScheme(ctx context.Context, input *usecase.SchemeInput) (*entity.GovernmentScheme, error) {
	lastDate, err := parseSchemeDate(input.LastDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("title is required")
	}

	now := time.Now()
	scheme := &entity.GovernmentScheme{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Eligibility: input.Eligibility,
		LastDate:    lastDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := srv.schemeRepo.Create(ctx, scheme); err != nil {
		return nil, errors.Wrap(err, "failed to create scheme")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    schemesTable,
		Op:       service.ChangeInsert,
		RecordID: scheme.ID.String(),
	})

	return scheme, nil
}

// UpdateScheme replaces the announcement's content.
func (srv *schemeService) UpdateScheme(ctx context.Context, schemeID uuid.UUID, input *usecase.SchemeInput) (*entity.GovernmentScheme, error) {
	scheme, err := srv.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, err
	}

	lastDate, err := parseSchemeDate(input.LastDate)
	if err != nil {
		return nil, err
	}

	scheme.Title = input.Title
	scheme.Description = input.Description
	scheme.Eligibility = input.Eligibility
	scheme.LastDate = lastDate
	scheme.UpdatedAt = time.Now()

	if err := srv.schemeRepo.Update(ctx, scheme); err != nil {
		return nil, errors.Wrap(err, "failed to update scheme")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    schemesTable,
		Op:       service.ChangeUpdate,
		RecordID: scheme.ID.String(),
	})

	return scheme, nil
}

// DeleteScheme removes the announcement.
func (srv *schemeService) DeleteScheme(ctx context.Context, schemeID uuid.UUID) error {
	if _, err := srv.GetScheme(ctx, schemeID); err != nil {
		return err
	}

	if err := srv.schemeRepo.Delete(ctx, schemeID); err != nil {
		return errors.Wrap(err, "failed to delete scheme")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    schemesTable,
		Op:       service.ChangeDelete,
		RecordID: schemeID.String(),
	})

	return nil
}

// GetScheme retrieves a single scheme.
func (srv *schemeService) GetScheme(ctx context.Context, schemeID uuid.UUID) (*entity.GovernmentScheme, error) {
	scheme, err := srv.schemeRepo.FindByID(ctx, schemeID)
	if err != nil {
		if errors.Is(err, repository.ErrSchemeNotFound) {
			return nil, domainerrors.ErrSchemeNotFound
		}

		return nil, errors.Wrap(err, "failed to find scheme")
	}

	return scheme, nil
}

// ListSchemes returns every published scheme.
func (srv *schemeService) ListSchemes(ctx context.Context) ([]*entity.GovernmentScheme, error) {
	schemes, err := srv.schemeRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list schemes")
	}

	return schemes, nil
}

func parseSchemeDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		// Accept plain dates as well.
		parsed, err = time.Parse("2006-01-02", *raw)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("last_date must be RFC 3339 or YYYY-MM-DD")
		}
	}

	return &parsed, nil
}
