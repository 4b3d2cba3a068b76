package events

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the event endpoints on the API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/events", h.Create)
	g.GET("/events", h.List)
	g.GET("/events/:id", h.Get)
	g.DELETE("/events/:id", h.Delete)
}
