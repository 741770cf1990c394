package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/store-reservation/internal/handler"    // handlers implementing the business logic
	"github.com/iliyamo/store-reservation/internal/middleware" // response cache middleware for public listings
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring poll this endpoint to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterSearch registers the public store discovery endpoints: keyword
// search plus the two paginated listings (alphabetical and by average
// rating).  No JWT is required; guests browse stores before signing up.
// All three routes sit behind the Redis response cache so repeated
// identical queries are served without touching MySQL.
func RegisterSearch(e *echo.Echo, s *handler.SearchHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/search", cache)
	// Keyword match against name, address and description: /search?keyword=...
	g.GET("", s.Search)
	// Ten stores per page, sorted by name ascending.
	g.GET("/by-name/:page", s.ByName)
	// Ten stores per page, best rated first; unreviewed stores come last.
	g.GET("/by-stars/:page", s.ByStars)
}

// RegisterKiosk registers the on-site arrival endpoint.  The kiosk device
// is co-located with the store and identifies the reservation by the
// (store, time, contact) triple instead of a JWT.
func RegisterKiosk(e *echo.Echo, k *handler.KioskHandler) {
	e.PUT("/kiosk/arrival", k.ConfirmArrival)
}

// RegisterAuth registers account endpoints.  Sign-up, sign-in and token
// refresh are open; withdrawal requires a valid access token for the
// account being withdrawn.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Register a POST endpoint to create a new OWNER or USER account.
	e.POST("/signup", a.SignUp)
	// Register a POST endpoint to exchange credentials for a token pair.
	e.POST("/signin", a.SignIn)
	// Register a POST endpoint to rotate a refresh token and mint a new pair.
	e.POST("/auth/refresh", a.Refresh)

	// Withdrawal is protected: any signed-in role may withdraw, but only
	// itself; the handler rejects a mismatched id.
	g := e.Group("/account", middleware.JWTAuth(jwtSecret))
	g.DELETE("/:id", a.Deactivate)
}
