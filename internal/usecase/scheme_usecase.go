package usecase

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// SchemeUsecase defines the interface for government scheme announcements.
// Schemes are published by admins and readable by every signed-in account.
type SchemeUsecase interface {
	CreateScheme(ctx context.Context, input *SchemeInput) (*entity.GovernmentScheme, error)
	UpdateScheme(ctx context.Context, schemeID uuid.UUID, input *SchemeInput) (*entity.GovernmentScheme, error)
	DeleteScheme(ctx context.Context, schemeID uuid.UUID) error
	GetScheme(ctx context.Context, schemeID uuid.UUID) (*entity.GovernmentScheme, error)
	ListSchemes(ctx context.Context) ([]*entity.GovernmentScheme, error)
}

// SchemeInput defines the data required to publish or update a scheme.
type SchemeInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Eligibility string  `json:"eligibility"`
	LastDate    *string `json:"last_date,omitempty"` // RFC 3339 date, optional.
}
