package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/apperr"
)

// writeError serializes err to the client.  Domain errors carry their own
// code, message and status; anything else is logged and reported as a
// generic internal error so storage failures never leak details.
func writeError(c echo.Context, log zerolog.Logger, err error) error {
	if ae, ok := apperr.As(err); ok {
		return c.JSON(ae.Status, ae)
	}
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error_code":    "INTERNAL_ERROR",
		"error_message": "internal error",
	})
}
