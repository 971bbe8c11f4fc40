package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"farmferia/config"
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

const ordersTable = "orders"

const defaultDeliveryDays = 5

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	tracking     service.TrackingService
	feed         service.ChangeFeed
	notifier     service.Notifier
	deliveryDays int
	logger       *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Tracking    service.TrackingService
	Feed        service.ChangeFeed
	Notifier    service.Notifier
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	deliveryDays := defaultDeliveryDays
	if params.Config != nil && params.Config.Orders != nil && params.Config.Orders.EstimatedDeliveryDays > 0 {
		deliveryDays = params.Config.Orders.EstimatedDeliveryDays
	}

	return &orderService{
		orderRepo:    params.OrderRepo,
		productRepo:  params.ProductRepo,
		tracking:     params.Tracking,
		feed:         params.Feed,
		notifier:     params.Notifier,
		deliveryDays: deliveryDays,
		logger:       params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder places an order. Each line keeps the unit price it carried when
// it was added to the cart; the product's current price is only used to
// validate the line, never to reprice it. The header and item rows are
// written as two independent statements; when the item write fails after the
// header landed, the order is left behind in its partial shape and the
// failure is reported as such.
func (srv *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}

	items := make([]entity.OrderItem, 0, len(input.Items))
	for _, requested := range input.Items {
		if requested.Quantity < 1 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("item quantity must be at least 1")
		}
		if requested.Price < 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("item price must not be negative")
		}

		product, err := srv.productRepo.FindByID(ctx, requested.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, domainerrors.ErrProductNotFound
			}

			return nil, errors.Wrap(err, "failed to load product for order")
		}
		if product.Status != entity.ProductApproved {
			return nil, domainerrors.ErrProductNotOrderable.WrapMessage(product.Name)
		}
		if product.SellerID != input.SellerID {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("product does not belong to the order's seller")
		}

		// The line keeps the price it was added to the cart at, even when the
		// product was repriced since.
		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    requested.Quantity,
			Price:       requested.Price,
		})
	}

	now := time.Now()
	estimated := now.AddDate(0, 0, srv.deliveryDays)
	order := &entity.Order{
		ID:                uuid.New(),
		BuyerID:           input.BuyerID,
		SellerID:          input.SellerID,
		Items:             items,
		Status:            entity.OrderPending,
		ShippingAddress:   input.ShippingAddress,
		TrackingNumber:    newTrackingNumber(),
		EstimatedDelivery: &estimated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	order.TotalAmount = order.ItemsTotal()

	if err := srv.orderRepo.CreateHeader(ctx, order); err != nil {
		srv.log(ctx).Error("order header write failed",
			slog.String("buyer_id", input.BuyerID.String()),
			slog.Any("error", err),
		)
		srv.notifyOrderFailure(ctx, input.BuyerID, domainerrors.ErrInternalError.Message())

		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := srv.orderRepo.InsertItems(ctx, order.ID, items); err != nil {
		// The header row exists without its items. Report the partial state
		// instead of pretending the order failed cleanly.
		srv.log(ctx).Error("order item write failed after header",
			slog.String("order_id", order.ID.String()),
			slog.Any("error", err),
		)
		srv.notifyOrderFailure(ctx, input.BuyerID, domainerrors.ErrPartialOrderFailure.Message())

		return nil, domainerrors.ErrPartialOrderFailure.WrapMessage(err.Error())
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    ordersTable,
		Op:       service.ChangeInsert,
		RecordID: order.ID.String(),
	})
	srv.notifier.Notify(ctx, input.SellerID.String(), service.Notification{
		Severity: service.SeverityInfo,
		Title:    "New order",
		Message:  fmt.Sprintf("You received a new order of %d items.", len(items)),
		Data:     map[string]string{"order_id": order.ID.String()},
	})

	srv.log(ctx).Info("order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("tracking_number", order.TrackingNumber),
		slog.Float64("total", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order with its items.
func (srv *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// ListByBuyer returns the buyer's orders.
func (srv *orderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list buyer orders")
	}

	return orders, nil
}

// ListBySeller returns the seller's incoming orders.
func (srv *orderService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller orders")
	}

	return orders, nil
}

// UpdateStatus moves an order along its lifecycle and tells the buyer.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order status " + status.String())
	}

	order, err := srv.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, domainerrors.ErrOrderTransition.WrapMessage(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := srv.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}
	order.Status = status
	order.UpdatedAt = time.Now()

	srv.feed.Publish(service.ChangeEvent{
		Table:    ordersTable,
		Op:       service.ChangeUpdate,
		RecordID: order.ID.String(),
		Payload:  map[string]string{"status": status.String()},
	})
	srv.notifier.Notify(ctx, order.BuyerID.String(), service.Notification{
		Severity: service.SeverityInfo,
		Title:    "Order update",
		Message:  fmt.Sprintf("Your order %s is now %s.", order.TrackingNumber, status),
		Data:     map[string]string{"order_id": order.ID.String()},
	})

	return order, nil
}

// TrackingQR renders the QR code image for an order's tracking number.
func (srv *orderService) TrackingQR(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.tracking.GenerateTrackingQR(order.ID, order.TrackingNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render tracking QR")
	}

	return png, nil
}

func (srv *orderService) notifyOrderFailure(ctx context.Context, buyerID uuid.UUID, message string) {
	srv.notifier.Notify(ctx, buyerID.String(), service.Notification{
		Severity: service.SeverityError,
		Title:    "Order failed",
		Message:  message,
	})
}

// newTrackingNumber builds a short human-readable tracking code.
func newTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")

	return "FARM-" + strings.ToUpper(raw[:10])
}
