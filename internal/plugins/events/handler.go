package events

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronospace/internal/validation"
)

// Handler serves the event JSON endpoints.
type Handler struct {
	service EventService
}

// NewHandler creates a new event handler.
func NewHandler(service EventService) *Handler {
	return &Handler{service: service}
}

// Create handles POST /events.
func (h *Handler) Create(c echo.Context) error {
	var req EventCreate
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// List handles GET /events with optional category_id, epoch_id,
// start_date and end_date filters.
func (h *Handler) List(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return err
	}
	events, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := validation.PathID(c, "event_id")
	if err != nil {
		return err
	}
	event, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := validation.PathID(c, "event_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// bindFilter reads paging and filter query parameters.
func bindFilter(c echo.Context) (ListFilter, error) {
	var f ListFilter
	page, err := validation.BindPage(c)
	if err != nil {
		return f, err
	}
	f.Skip, f.Limit = page.Skip, page.Limit

	if f.CategoryID, err = validation.QueryInt64(c, "category_id"); err != nil {
		return f, err
	}
	if f.EpochID, err = validation.QueryInt64(c, "epoch_id"); err != nil {
		return f, err
	}
	if f.StartDate, err = validation.QueryTime(c, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = validation.QueryTime(c, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}
