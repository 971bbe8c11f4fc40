package handler

import (
	"net/http"

	"farmferia/internal/delivery/http/response"
	"farmferia/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SchemeHandler holds dependencies for government scheme handlers.
type SchemeHandler struct {
	uc usecase.SchemeUsecase
}

// NewSchemeHandler is the constructor for SchemeHandler, injected by Fx.
func NewSchemeHandler(uc usecase.SchemeUsecase) *SchemeHandler {
	return &SchemeHandler{uc: uc}
}

// List returns every published scheme, newest first.
func (h *SchemeHandler) List(c echo.Context) error {
	schemes, err := h.uc.ListSchemes(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, schemes, "")
}

// Get returns a single scheme.
func (h *SchemeHandler) Get(c echo.Context) error {
	schemeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	scheme, err := h.uc.GetScheme(c.Request().Context(), schemeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, scheme, "")
}

// Create publishes a new scheme. Admin only.
func (h *SchemeHandler) Create(c echo.Context) error {
	var input usecase.SchemeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid scheme input")
	}

	scheme, err := h.uc.CreateScheme(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, scheme, "Scheme published")
}

// Update modifies an existing scheme. Admin only.
func (h *SchemeHandler) Update(c echo.Context) error {
	schemeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.SchemeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid scheme input")
	}

	scheme, err := h.uc.UpdateScheme(c.Request().Context(), schemeID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, scheme, "Scheme updated")
}

// Delete removes a scheme. Admin only.
func (h *SchemeHandler) Delete(c echo.Context) error {
	schemeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteScheme(c.Request().Context(), schemeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": schemeID.String()}, "Scheme deleted")
}
