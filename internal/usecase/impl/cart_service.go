package impl

import (
	"context"
	"log/slog"

	"farmferia/internal/cart"
	deliverycontext "farmferia/internal/delivery/context"
	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface over the in-memory store.
type cartService struct {
	store    *cart.Store
	products usecase.ProductUsecase
	orders   usecase.OrderUsecase
	logger   *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	Store    *cart.Store
	Products usecase.ProductUsecase
	Orders   usecase.OrderUsecase
	Logger   *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		store:    params.Store,
		products: params.Products,
		orders:   params.Orders,
		logger:   params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddItem snapshots the product's current price into the buyer's cart.
func (srv *cartService) AddItem(ctx context.Context, buyerID, productID uuid.UUID, quantity int) (cart.Cart, error) {
	if quantity < 1 {
		return srv.store.Get(buyerID), domainerrors.ErrValidationFailed.WrapMessage("quantity must be at least 1")
	}

	product, err := srv.products.GetProduct(ctx, productID)
	if err != nil {
		return srv.store.Get(buyerID), err
	}
	if product.Status != entity.ProductApproved {
		return srv.store.Get(buyerID), domainerrors.ErrProductNotOrderable.WrapMessage(product.Name)
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	line := cart.Item{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Quantity:   quantity,
		ImageURL:   image,
		SellerID:   product.SellerID,
		SellerName: product.SellerName,
	}

	return srv.store.Update(buyerID, func(c cart.Cart) cart.Cart {
		return c.Add(line)
	}), nil
}

// UpdateQuantity sets the quantity for a cart line; below one removes it.
func (srv *cartService) UpdateQuantity(_ context.Context, buyerID, productID uuid.UUID, quantity int) (cart.Cart, error) {
	return srv.store.Update(buyerID, func(c cart.Cart) cart.Cart {
		return c.SetQuantity(productID, quantity)
	}), nil
}

// RemoveItem drops a cart line.
func (srv *cartService) RemoveItem(_ context.Context, buyerID, productID uuid.UUID) (cart.Cart, error) {
	return srv.store.Update(buyerID, func(c cart.Cart) cart.Cart {
		return c.Remove(productID)
	}), nil
}

// Get returns the buyer's current cart.
func (srv *cartService) Get(_ context.Context, buyerID uuid.UUID) cart.Cart {
	return srv.store.Get(buyerID)
}

// Clear empties the buyer's cart.
func (srv *cartService) Clear(_ context.Context, buyerID uuid.UUID) {
	srv.store.Clear(buyerID)
}

// Checkout places an order from the cart's current snapshot. The cart is only
// cleared after the order landed; a failed order leaves the cart untouched so
// the buyer can retry.
func (srv *cartService) Checkout(ctx context.Context, buyerID uuid.UUID, shippingAddress string) (*entity.Order, error) {
	snapshot := srv.store.Get(buyerID)
	if snapshot.IsEmpty() {
		return nil, domainerrors.ErrEmptyOrder
	}

	sellerID, ok := snapshot.SellerID()
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("cart holds items from more than one seller")
	}

	items := make([]usecase.OrderItemInput, 0, snapshot.Len())
	for _, line := range snapshot.Items() {
		items = append(items, usecase.OrderItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	order, err := srv.orders.CreateOrder(ctx, &usecase.CreateOrderInput{
		BuyerID:         buyerID,
		SellerID:        sellerID,
		Items:           items,
		ShippingAddress: shippingAddress,
	})
	if err != nil {
		return nil, err
	}

	srv.store.Clear(buyerID)
	srv.log(ctx).Info("cart checked out",
		slog.String("buyer_id", buyerID.String()),
		slog.String("order_id", order.ID.String()),
	)

	return order, nil
}
