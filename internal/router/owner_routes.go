package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-reservation/internal/handler"
	"github.com/iliyamo/store-reservation/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /store.
// All routes require a valid JWT and the OWNER role.  Owners manage their
// stores and decide the reservations made against them.
func RegisterOwner(e *echo.Echo, st *handler.OwnerStoreHandler, rs *handler.OwnerReservationHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/store",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// Store CRUD.  Name+address pairs are unique across the platform; the
	// repository surfaces a conflict as STORE_ALREADY_ADDED.
	g.GET("", st.List)
	g.POST("", st.Add)
	g.PUT("/:id", st.Edit)
	g.DELETE("/:id", st.Delete)

	// Incoming reservations across all of the owner's stores.
	g.GET("/reservation", rs.List)
	// Confirm or reject a single reservation.
	g.PUT("/reservation/:id", rs.Decide)
}
