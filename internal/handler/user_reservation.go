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
	"github.com/iliyamo/store-reservation/internal/repository"
	"github.com/iliyamo/store-reservation/internal/utils"
)

// UserReservationHandler exposes the customer's side of the reservation
// lifecycle: booking, viewing, canceling and reviewing.
type UserReservationHandler struct {
	Log          zerolog.Logger
	Loc          *time.Location
	Reservations *repository.ReservationRepo
}

func NewUserReservationHandler(log zerolog.Logger, loc *time.Location, r *repository.ReservationRepo) *UserReservationHandler {
	return &UserReservationHandler{Log: log, Loc: loc, Reservations: r}
}

type reserveReq struct {
	ReservedAt string `json:"reserved_at"` // yyyy-MM-dd HH:mm
	Contact    string `json:"contact"`
}

type reviewReq struct {
	Stars  int    `json:"stars"`
	Review string `json:"review"`
}

// Reserve books a reservation at the store in the path.  At most one
// reservation may exist per (account, store, time) triple; a second
// booking for the identical slot fails with DUPLICATED_RESERVATION.
func (h *UserReservationHandler) Reserve(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || storeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Contact = strings.TrimSpace(req.Contact)
	if req.Contact == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact required"})
	}
	at, err := utils.ParseReserveTime(req.ReservedAt, h.Loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID := middleware.AccountID(c)
	view, err := h.Reservations.Create(ctx, accountID, storeID, at, req.Contact)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().
		Uint64("account_id", accountID).
		Uint64("store_id", storeID).
		Str("reserved_at", view.ReservedAt).
		Msg("reservation created")

	return c.JSON(http.StatusCreated, view)
}

// View returns a single reservation belonging to the caller.
func (h *UserReservationHandler) View(c echo.Context) error {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Reservations.GetForAccount(ctx, middleware.AccountID(c), reservationID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Cancel sets the caller's reservation to CANCELED.
func (h *UserReservationHandler) Cancel(c echo.Context) error {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID := middleware.AccountID(c)
	view, err := h.Reservations.Cancel(ctx, accountID, reservationID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().
		Uint64("account_id", accountID).
		Uint64("reservation_id", reservationID).
		Msg("reservation canceled")

	return c.JSON(http.StatusOK, view)
}

// Review writes or overwrites the review on a visited reservation.
func (h *UserReservationHandler) Review(c echo.Context) error {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Reservations.WriteReview(ctx, middleware.AccountID(c), reservationID, req.Stars, req.Review)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, view)
}
