package handler

import (
	"net/http"

	"farmferia/internal/delivery/http/response"
	"farmferia/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for product-related handlers.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type reviewRequest struct {
	Approve bool `json:"approve"`
}

// ListApproved returns the public catalog of approved products.
func (h *ProductHandler) ListApproved(c echo.Context) error {
	products, err := h.uc.ListApproved(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// Get returns a single product.
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// Create registers a new product for the authenticated seller.
func (h *ProductHandler) Create(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var input usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), sellerID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product submitted for review")
}

// Update modifies a product owned by the authenticated seller.
func (h *ProductHandler) Update(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), sellerID, productID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// Delete removes a product owned by the authenticated seller.
func (h *ProductHandler) Delete(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), sellerID, productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": productID.String()}, "Product deleted successfully")
}

// ListMine returns the authenticated seller's catalog in every status.
func (h *ProductHandler) ListMine(c echo.Context) error {
	sellerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	products, err := h.uc.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// ListPending returns products awaiting review. Admin only.
func (h *ProductHandler) ListPending(c echo.Context) error {
	products, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// Review approves or rejects a pending product. Admin only.
func (h *ProductHandler) Review(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	product, err := h.uc.Review(c.Request().Context(), productID, req.Approve)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Product rejected"
	if req.Approve {
		message = "Product approved"
	}

	return response.Success(c, http.StatusOK, product, message)
}
