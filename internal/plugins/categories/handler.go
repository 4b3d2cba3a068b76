package categories

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronospace/internal/validation"
)

// Handler serves the category JSON endpoints. Handlers are thin: bind,
// call the service, render.
type Handler struct {
	service CategoryService
}

// NewHandler creates a new category handler.
func NewHandler(service CategoryService) *Handler {
	return &Handler{service: service}
}

// Create handles POST /categories.
func (h *Handler) Create(c echo.Context) error {
	var req CategoryCreate
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// List handles GET /categories.
func (h *Handler) List(c echo.Context) error {
	page, err := validation.BindPage(c)
	if err != nil {
		return err
	}
	cats, err := h.service.List(c.Request().Context(), page.Skip, page.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /categories/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := validation.PathID(c, "category_id")
	if err != nil {
		return err
	}
	cat, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /categories/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := validation.PathID(c, "category_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
