package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-reservation/internal/handler"
	"github.com/iliyamo/store-reservation/internal/middleware"
)

// RegisterUser registers customer-scoped endpoints under /user/reserve.  All
// routes require a valid JWT and the USER role.  Customers book
// reservations, inspect and cancel their own, and leave a review once the
// kiosk has confirmed their visit.
func RegisterUser(e *echo.Echo, h *handler.UserReservationHandler, jwtSecret string) {
	g := e.Group(
		"/user/reserve",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER"),
	)

	// POST books at the store named by :id; the remaining verbs address an
	// existing reservation by its own id.
	g.POST("/:id", h.Reserve)
	g.GET("/:id", h.View)
	g.DELETE("/:id", h.Cancel)
	// Write or overwrite the review (stars 1..5) after the visit.
	g.PUT("/:id", h.Review)
}
