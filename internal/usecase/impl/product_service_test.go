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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc      *productService
	products *mockRepo.MockProductRepository
	profiles *mockRepo.MockProfileRepository
	feed     *mockSvc.RecordingChangeFeed
	notifier *mockSvc.RecordingNotifier
}

func newProductFixture(t *testing.T) *productFixture {
	f := &productFixture{
		products: mockRepo.NewMockProductRepository(t),
		profiles: mockRepo.NewMockProfileRepository(t),
		feed:     mockSvc.NewRecordingChangeFeed(t),
		notifier: mockSvc.NewRecordingNotifier(t),
	}
	f.svc = &productService{
		productRepo: f.products,
		profileRepo: f.profiles,
		feed:        f.feed,
		notifier:    f.notifier,
		logger:      testLogger(),
	}

	return f
}

func TestProductService_CreateProduct_StartsPending(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	sellerID := uuid.New()

	f.profiles.On("FindByID", ctx, sellerID).
		Return(&entity.Profile{ID: sellerID, Name: "Farmer Singh", Role: entity.RoleSeller}, nil)
	f.products.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	product, err := f.svc.CreateProduct(ctx, sellerID, &usecase.CreateProductInput{
		Name:     "Tomatoes",
		Price:    3.50,
		Unit:     "kg",
		Quantity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductPending, product.Status)
	assert.Equal(t, "Farmer Singh", product.SellerName)
	require.Len(t, f.feed.Published(), 1)
}

func TestProductService_CreateProduct_RejectsNonPositivePrice(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.CreateProduct(context.Background(), uuid.New(), &usecase.CreateProductInput{
		Name:  "Tomatoes",
		Price: 0,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_UpdateProduct_OwnershipEnforced(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	product := &entity.Product{ID: uuid.New(), SellerID: owner, Status: entity.ProductApproved}

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)

	name := "Renamed"
	_, err := f.svc.UpdateProduct(ctx, intruder, product.ID, &usecase.UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestProductService_UpdateProduct_SellerWithdrawsListing(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	sellerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), SellerID: sellerID, Status: entity.ProductApproved}

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.products.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	status := entity.ProductUnavailable.String()
	updated, err := f.svc.UpdateProduct(ctx, sellerID, product.ID, &usecase.UpdateProductInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductUnavailable, updated.Status)
}

func TestProductService_UpdateProduct_SellerCannotSelfApprove(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	sellerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), SellerID: sellerID, Status: entity.ProductPending}

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)

	status := entity.ProductApproved.String()
	_, err := f.svc.UpdateProduct(ctx, sellerID, product.ID, &usecase.UpdateProductInput{Status: &status})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_Review_Approve(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	sellerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), Name: "Tomatoes", SellerID: sellerID, Status: entity.ProductPending}

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.products.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	reviewed, err := f.svc.Review(ctx, product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductApproved, reviewed.Status)
	require.Len(t, f.notifier.Sent(), 1)
	assert.Equal(t, sellerID.String(), f.notifier.Sent()[0].UserID)
}

func TestProductService_Review_OnlyPendingReviewable(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	product := &entity.Product{ID: uuid.New(), Status: entity.ProductApproved}

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)

	_, err := f.svc.Review(ctx, product.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestProductService_ListApproved_FiltersStatus(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	f.products.On("List", ctx, repository.ProductFilter{Status: entity.ProductApproved, Category: "vegetables"}).
		Return([]*entity.Product{}, nil)

	_, err := f.svc.ListApproved(ctx, "vegetables")
	require.NoError(t, err)
}
