package categories

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the category endpoints on the API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/categories", h.Create)
	g.GET("/categories", h.List)
	g.GET("/categories/:id", h.Get)
	g.DELETE("/categories/:id", h.Delete)
}
