package handler

import (
	"net/http"

	"farmferia/internal/delivery/http/response"
	"farmferia/internal/domain/entity"
	"farmferia/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create places an order directly, without going through the cart.
func (h *OrderHandler) Create(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var input usecase.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	input.BuyerID = buyerID

	order, err := h.uc.CreateOrder(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// Get returns an order with its items. Buyers and sellers may only read their
// own orders.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return response.Forbidden(c, "FORBIDDEN", "Order belongs to another account")
	}

	return response.Success(c, http.StatusOK, order, "")
}

// ListMine returns the authenticated buyer's orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	orders, err := h.uc.ListByBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// ListIncoming returns the authenticated seller's incoming orders.
func (h *OrderHandler) ListIncoming(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	orders, err := h.uc.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// UpdateStatus moves an order along its fulfilment workflow. Only the seller
// who received the order may move it.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status := entity.OrderStatus(req.Status)
	if !status.IsValid() {
		return response.BadRequest(c, "INVALID_INPUT", "Unknown order status")
	}

	current, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}
	if current.SellerID != sellerID {
		return response.Forbidden(c, "FORBIDDEN", "Order belongs to another seller")
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), orderID, status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}

// TrackingQR streams the order's tracking QR code as a PNG image.
func (h *OrderHandler) TrackingQR(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return response.Forbidden(c, "FORBIDDEN", "Order belongs to another account")
	}

	png, err := h.uc.TrackingQR(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
