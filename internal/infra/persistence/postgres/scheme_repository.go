package postgres

import (
	"context"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// schemeRepository implements the domain.SchemeRepository interface using GORM.
type schemeRepository struct {
	db *gorm.DB
}

// NewSchemeRepository is the constructor for schemeRepository.
func NewSchemeRepository(db *gorm.DB) repository.SchemeRepository {
	return &schemeRepository{db: db}
}

// FindByID retrieves a single scheme by its unique ID.
func (repo *schemeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GovernmentScheme, error) {
	var schemeM model.GovernmentSchemeModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&schemeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSchemeNotFound
		}

		return nil, errors.Wrap(err, "failed to find scheme by id")
	}

	return toSchemeDomain(&schemeM), nil
}

// Create persists a new scheme.
func (repo *schemeRepository) Create(ctx context.Context, scheme *entity.GovernmentScheme) error {
	schemeM := fromSchemeDomain(scheme)

	if err := repo.db.WithContext(ctx).Create(schemeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create scheme")
	}

	scheme.ID = schemeM.ID
	scheme.CreatedAt = schemeM.CreatedAt
	scheme.UpdatedAt = schemeM.UpdatedAt

	return nil
}

// Update modifies an existing scheme.
func (repo *schemeRepository) Update(ctx context.Context, scheme *entity.GovernmentScheme) error {
	result := repo.db.WithContext(ctx).
		Model(&model.GovernmentSchemeModel{}).
		Where("id = ?", scheme.ID).
		Updates(map[string]any{
			"title":       scheme.Title,
			"description": scheme.Description,
			"eligibility": scheme.Eligibility,
			"last_date":   scheme.LastDate,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update scheme")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSchemeNotFound
	}

	return nil
}

// Delete removes a scheme.
func (repo *schemeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.GovernmentSchemeModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete scheme")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSchemeNotFound
	}

	return nil
}

// List returns every scheme, most recently published first.
func (repo *schemeRepository) List(ctx context.Context) ([]*entity.GovernmentScheme, error) {
	var schemeMs []*model.GovernmentSchemeModel
	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&schemeMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list schemes")
	}

	schemes := make([]*entity.GovernmentScheme, 0, len(schemeMs))
	for _, schemeM := range schemeMs {
		schemes = append(schemes, toSchemeDomain(schemeM))
	}

	return schemes, nil
}

func toSchemeDomain(schemeM *model.GovernmentSchemeModel) *entity.GovernmentScheme {
	return &entity.GovernmentScheme{
		ID:          schemeM.ID,
		Title:       schemeM.Title,
		Description: schemeM.Description,
		Eligibility: schemeM.Eligibility,
		LastDate:    schemeM.LastDate,
		CreatedAt:   schemeM.CreatedAt,
		UpdatedAt:   schemeM.UpdatedAt,
	}
}

func fromSchemeDomain(scheme *entity.GovernmentScheme) *model.GovernmentSchemeModel {
	return &model.GovernmentSchemeModel{
		ID:          scheme.ID,
		Title:       scheme.Title,
		Description: scheme.Description,
		Eligibility: scheme.Eligibility,
		LastDate:    scheme.LastDate,
		CreatedAt:   scheme.CreatedAt,
		UpdatedAt:   scheme.UpdatedAt,
	}
}
