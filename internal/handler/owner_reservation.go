package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/middleware"
	"github.com/iliyamo/store-reservation/internal/model"
	"github.com/iliyamo/store-reservation/internal/queue"
	"github.com/iliyamo/store-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/store-reservation/internal/service"
)

// OwnerReservationHandler exposes the store owner's side of the
// reservation lifecycle: listing incoming reservations and deciding them.
type OwnerReservationHandler struct {
	Log          zerolog.Logger
	Reservations *repository.ReservationRepo
}

func NewOwnerReservationHandler(log zerolog.Logger, r *repository.ReservationRepo) *OwnerReservationHandler {
	return &OwnerReservationHandler{Log: log, Reservations: r}
}

// List returns every reservation across all of the owner's stores, newest
// store first, then newest reservation time first.
func (h *OwnerReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Reservations.ListForOwner(ctx, middleware.AccountID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}

type decideReq struct {
	State string `json:"state"` // ACCEPTED | REJECTED
}

// Decide confirms or rejects a pending reservation.  Canceled reservations
// cannot be decided; anything else is overwritten with the requested
// state.  A confirmation publishes a reservation.confirmed event for
// downstream consumers (notification log, analytics).
func (h *OwnerReservationHandler) Decide(c echo.Context) error {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	state := strings.ToUpper(strings.TrimSpace(req.State))
	if state != model.StateAccepted && state != model.StateRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "state must be ACCEPTED or REJECTED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID := middleware.AccountID(c)
	dec, err := h.Reservations.Decide(ctx, ownerID, reservationID, state)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().
		Uint64("owner_id", ownerID).
		Uint64("reservation_id", reservationID).
		Str("state", state).
		Msg("reservation decided")

	if state == model.StateAccepted {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: reservationID,
			StoreID:       dec.StoreID,
			StoreName:     dec.View.StoreName,
			AccountID:     dec.AccountID,
			ReservedAt:    dec.View.ReservedAt,
			Contact:       dec.Contact,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort: a broker outage must not fail the confirmation.
		_ = queue_publisher.PublishReservationConfirmed(ctx, ev, h.Log)
	}

	return c.JSON(http.StatusOK, dec.View)
}
