package repository

import (
	"context"
	"errors"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSchemeNotFound is returned when a scheme lookup matches no row.
var ErrSchemeNotFound = errors.New("scheme not found")

// SchemeRepository defines the operations for government scheme persistence.
type SchemeRepository interface {
	// FindByID retrieves a single scheme by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.GovernmentScheme, error)

	// Create persists a new scheme.
	Create(ctx context.Context, scheme *entity.GovernmentScheme) error

	// Update modifies an existing scheme.
	Update(ctx context.Context, scheme *entity.GovernmentScheme) error

	// Delete removes a scheme.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns every scheme, most recently published first.
	List(ctx context.Context) ([]*entity.GovernmentScheme, error)
}
