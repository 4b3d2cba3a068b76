package epochs

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronospace/internal/validation"
)

// Handler serves the epoch JSON endpoints. Handlers are thin: bind,
// call the service, render.
type Handler struct {
	service EpochService
}

// NewHandler creates a new epoch handler.
func NewHandler(service EpochService) *Handler {
	return &Handler{service: service}
}

// Create handles POST /epochs.
func (h *Handler) Create(c echo.Context) error {
	var req EpochCreate
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	epoch, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epoch)
}

// List handles GET /epochs.
func (h *Handler) List(c echo.Context) error {
	page, err := validation.BindPage(c)
	if err != nil {
		return err
	}
	epochs, err := h.service.List(c.Request().Context(), page.Skip, page.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epochs)
}

// Get handles GET /epochs/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := validation.PathID(c, "epoch_id")
	if err != nil {
		return err
	}
	epoch, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, epoch)
}

// Delete handles DELETE /epochs/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := validation.PathID(c, "epoch_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
