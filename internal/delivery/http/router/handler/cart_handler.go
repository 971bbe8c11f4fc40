package handler

import (
	"net/http"

	"farmferia/internal/cart"
	"farmferia/internal/delivery/http/response"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler holds dependencies for cart-related handlers.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// cartResponse is the wire shape of a cart snapshot.
type cartResponse struct {
	Items []cart.Item `json:"items"`
	Total float64     `json:"total"`
}

func toCartResponse(snapshot cart.Cart) cartResponse {
	return cartResponse{
		Items: snapshot.Items(),
		Total: snapshot.Total(),
	}
}

// Get returns the authenticated buyer's cart.
func (h *CartHandler) Get(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	snapshot := h.uc.Get(c.Request().Context(), buyerID)

	return response.Success(c, http.StatusOK, toCartResponse(snapshot), "")
}

// AddItem puts a product into the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snapshot, err := h.uc.AddItem(c.Request().Context(), buyerID, req.ProductID, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(snapshot), "Item added to cart")
}

// UpdateQuantity sets the quantity of a cart line. A quantity below one
// removes the line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}

	snapshot, err := h.uc.UpdateQuantity(c.Request().Context(), buyerID, productID, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(snapshot), "Cart updated")
}

// RemoveItem drops a cart line.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}

	snapshot, err := h.uc.RemoveItem(c.Request().Context(), buyerID, productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(snapshot), "Item removed from cart")
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	h.uc.Clear(c.Request().Context(), buyerID)

	return response.Success(c, http.StatusOK, toCartResponse(cart.New()), "Cart cleared")
}

// Checkout places an order from the cart and empties it on success.
func (h *CartHandler) Checkout(c echo.Context) error {
	buyerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.uc.Checkout(c.Request().Context(), buyerID, req.ShippingAddress)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}
