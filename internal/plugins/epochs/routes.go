package epochs

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the epoch endpoints on the API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/epochs", h.Create)
	g.GET("/epochs", h.List)
	g.GET("/epochs/:id", h.Get)
	g.DELETE("/epochs/:id", h.Delete)
}
