package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/repository"
	"github.com/iliyamo/store-reservation/internal/utils"
)

// KioskHandler performs on-site arrival confirmation.  The kiosk is a
// trusted co-located device: there is no authentication beyond knowledge
// of the (store, time, contact) triple.
type KioskHandler struct {
	Log          zerolog.Logger
	Loc          *time.Location
	Cutoff       time.Duration
	Reservations *repository.ReservationRepo
}

func NewKioskHandler(log zerolog.Logger, loc *time.Location, cutoff time.Duration, r *repository.ReservationRepo) *KioskHandler {
	return &KioskHandler{Log: log, Loc: loc, Cutoff: cutoff, Reservations: r}
}

type arrivalReq struct {
	StoreID    uint64 `json:"store_id"`
	ReservedAt string `json:"reserved_at"` // yyyy-MM-dd HH:mm
	Contact    string `json:"contact"`
}

// ConfirmArrival checks a customer in.  The reservation must be ACCEPTED
// and the check-in must happen before the cutoff ahead of the reservation
// time (default ten minutes); afterwards the window is closed for good.
func (h *KioskHandler) ConfirmArrival(c echo.Context) error {
	var req arrivalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Contact = strings.TrimSpace(req.Contact)
	if req.StoreID == 0 || req.Contact == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "store_id/contact required"})
	}
	at, err := utils.ParseReserveTime(req.ReservedAt, h.Loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now().In(h.Loc)
	view, err := h.Reservations.ConfirmArrival(ctx, req.StoreID, at, req.Contact, now, h.Cutoff)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().
		Uint64("store_id", req.StoreID).
		Str("reserved_at", view.ReservedAt).
		Msg("arrival confirmed")

	return c.JSON(http.StatusOK, view)
}
