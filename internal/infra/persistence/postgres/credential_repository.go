package postgres

import (
	"context"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// credentialRepository implements the domain.CredentialRepository interface using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByEmail retrieves a credential by email address.
func (repo *credentialRepository) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	var credentialM model.CredentialModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&credentialM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by email")
	}

	return toCredentialDomain(&credentialM), nil
}

// FindByPrincipalID retrieves a credential by the owning account ID.
func (repo *credentialRepository) FindByPrincipalID(ctx context.Context, id uuid.UUID) (*entity.Credential, error) {
	var credentialM model.CredentialModel
	if err := repo.db.WithContext(ctx).
		Where("principal_id = ?", id).
		First(&credentialM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by principal id")
	}

	return toCredentialDomain(&credentialM), nil
}

// Create persists a new credential. Returns ErrCredentialExists when the email is taken.
func (repo *credentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	credentialM := fromCredentialDomain(credential)

	if err := repo.db.WithContext(ctx).Create(credentialM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrCredentialExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	credential.PrincipalID = credentialM.PrincipalID
	credential.CreatedAt = credentialM.CreatedAt
	credential.UpdatedAt = credentialM.UpdatedAt

	return nil
}

// Update modifies an existing credential.
func (repo *credentialRepository) Update(ctx context.Context, credential *entity.Credential) error {
	credentialM := fromCredentialDomain(credential)

	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("principal_id = ?", credential.PrincipalID).
		Updates(map[string]any{
			"email":          credentialM.Email,
			"email_verified": credentialM.EmailVerified,
			"password_hash":  credentialM.PasswordHash,
			"metadata":       credentialM.Metadata,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update credential")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

func toCredentialDomain(credentialM *model.CredentialModel) *entity.Credential {
	return &entity.Credential{
		PrincipalID:   credentialM.PrincipalID,
		Email:         credentialM.Email,
		EmailVerified: credentialM.EmailVerified,
		PasswordHash:  credentialM.PasswordHash,
		Metadata:      credentialM.Metadata.Data(),
		CreatedAt:     credentialM.CreatedAt,
		UpdatedAt:     credentialM.UpdatedAt,
	}
}

func fromCredentialDomain(credential *entity.Credential) *model.CredentialModel {
	return &model.CredentialModel{
		PrincipalID:   credential.PrincipalID,
		Email:         credential.Email,
		EmailVerified: credential.EmailVerified,
		PasswordHash:  credential.PasswordHash,
		Metadata:      datatypes.NewJSONType(credential.Metadata),
		CreatedAt:     credential.CreatedAt,
		UpdatedAt:     credential.UpdatedAt,
	}
}
