package impl

import (
	"context"
	"fmt"
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

const productsTable = "products"

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo repository.ProductRepository
	profileRepo repository.ProfileRepository
	feed        service.ChangeFeed
	notifier    service.Notifier
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	ProfileRepo repository.ProfileRepository
	Feed        service.ChangeFeed
	Notifier    service.Notifier
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		profileRepo: params.ProfileRepo,
		feed:        params.Feed,
		notifier:    params.Notifier,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProduct registers a new listing in the pending status.
func (srv *productService) CreateProduct(ctx context.Context, sellerID uuid.UUID, input *usecase.CreateProductInput) (*entity.Product, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price must be positive")
	}

	sellerName := ""
	seller, err := srv.profileRepo.FindByID(ctx, sellerID)
	if err == nil {
		sellerName = seller.Name
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, errors.Wrap(err, "failed to load seller profile")
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Unit:        input.Unit,
		Quantity:    input.Quantity,
		Images:      input.Images,
		Category:    input.Category,
		SellerID:    sellerID,
		SellerName:  sellerName,
		Status:      entity.ProductPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    productsTable,
		Op:       service.ChangeInsert,
		RecordID: product.ID.String(),
	})
	srv.log(ctx).Info("product listed, awaiting review",
		slog.String("product_id", product.ID.String()),
		slog.String("seller_id", sellerID.String()),
	)

	return product, nil
}

// UpdateProduct modifies a product owned by the seller.
func (srv *productService) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("price must be positive")
		}
		product.Price = *input.Price
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Status != nil {
		if err := srv.applySellerStatus(product, entity.ProductStatus(*input.Status)); err != nil {
			return nil, err
		}
	}
	product.UpdatedAt = time.Now()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    productsTable,
		Op:       service.ChangeUpdate,
		RecordID: product.ID.String(),
	})

	return product, nil
}

// applySellerStatus restricts seller-initiated status changes to withdrawing
// an approved listing and re-listing a withdrawn one. Moderation statuses stay
// admin-only.
func (srv *productService) applySellerStatus(product *entity.Product, status entity.ProductStatus) error {
	switch {
	case status == entity.ProductUnavailable && product.Status == entity.ProductApproved:
		product.Status = entity.ProductUnavailable
	case status == entity.ProductApproved && product.Status == entity.ProductUnavailable:
		product.Status = entity.ProductApproved
	default:
		return domainerrors.ErrValidationFailed.WrapMessage(
			fmt.Sprintf("cannot change product status from %s to %s", product.Status, status))
	}

	return nil
}

// DeleteProduct removes a product owned by the seller.
func (srv *productService) DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error {
	if _, err := srv.ownedProduct(ctx, sellerID, productID); err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, productID); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    productsTable,
		Op:       service.ChangeDelete,
		RecordID: productID.String(),
	})

	return nil
}

// GetProduct retrieves a single product.
func (srv *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// ListApproved returns the buyer-facing catalog.
func (srv *productService) ListApproved(ctx context.Context, category string) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		Status:   entity.ProductApproved,
		Category: category,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// ListBySeller returns the seller's own catalog in every status.
func (srv *productService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{SellerID: sellerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller products")
	}

	return products, nil
}

// ListPending returns products awaiting review.
func (srv *productService) ListPending(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{Status: entity.ProductPending})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending products")
	}

	return products, nil
}

// Review approves or rejects a pending product and tells the seller.
func (srv *productService) Review(ctx context.Context, productID uuid.UUID, approve bool) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.ProductPending {
		return nil, domainerrors.ErrConflict.WrapMessage("product is not awaiting review")
	}

	if approve {
		product.Status = entity.ProductApproved
	} else {
		product.Status = entity.ProductRejected
	}
	product.UpdatedAt = time.Now()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product status")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    productsTable,
		Op:       service.ChangeUpdate,
		RecordID: product.ID.String(),
		Payload:  map[string]string{"status": product.Status.String()},
	})

	title, message := "Product approved", "Your product \""+product.Name+"\" is now visible to buyers."
	severity := service.SeverityInfo
	if !approve {
		title, message = "Product rejected", "Your product \""+product.Name+"\" was rejected by the marketplace."
		severity = service.SeverityWarning
	}
	srv.notifier.Notify(ctx, product.SellerID.String(), service.Notification{
		Severity: severity,
		Title:    title,
		Message:  message,
		Data:     map[string]string{"product_id": product.ID.String()},
	})

	return product, nil
}

func (srv *productService) ownedProduct(ctx context.Context, sellerID, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, domainerrors.ErrForbidden.WrapMessage("product belongs to another seller")
	}

	return product, nil
}
