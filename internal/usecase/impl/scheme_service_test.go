package impl

import (
	"context"
	"testing"

	domainerrors "farmferia/internal/domain/errors"
	mockRepo "farmferia/internal/mocks/repository"
	mockSvc "farmferia/internal/mocks/service"
	"farmferia/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSchemeFixture(t *testing.T) (*schemeService, *mockRepo.MockSchemeRepository, *mockSvc.RecordingChangeFeed) {
	schemeRepo := mockRepo.NewMockSchemeRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	svc := &schemeService{schemeRepo: schemeRepo, feed: feed}

	return svc, schemeRepo, feed
}

func TestSchemeService_CreateScheme(t *testing.T) {
	svc, schemeRepo, feed := newSchemeFixture(t)
	ctx := context.Background()

	schemeRepo.On("Create", ctx, mock.AnythingOfType("*entity.GovernmentScheme")).Return(nil)

	lastDate := "2026-12-31"
	scheme, err := svc.CreateScheme(ctx, &usecase.SchemeInput{
		Title:       "Drip irrigation subsidy",
		Description: "Subsidy for drip irrigation equipment.",
		Eligibility: "Registered sellers",
		LastDate:    &lastDate,
	})
	require.NoError(t, err)
	require.NotNil(t, scheme.LastDate)
	assert.Equal(t, 2026, scheme.LastDate.Year())
	require.Len(t, feed.Published(), 1)
}

func TestSchemeService_CreateScheme_Validation(t *testing.T) {
	svc, _, _ := newSchemeFixture(t)
	ctx := context.Background()

	_, err := svc.CreateScheme(ctx, &usecase.SchemeInput{Title: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	bad := "next year sometime"
	_, err = svc.CreateScheme(ctx, &usecase.SchemeInput{Title: "x", LastDate: &bad})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
