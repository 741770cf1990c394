package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/repository"
)

// SearchHandler serves the public, unauthenticated store projections:
// keyword search and the sorted listings.  These routes sit behind the
// Redis response cache.
type SearchHandler struct {
	Log    zerolog.Logger
	Stores *repository.StoreRepo
}

func NewSearchHandler(log zerolog.Logger, s *repository.StoreRepo) *SearchHandler {
	return &SearchHandler{Log: log, Stores: s}
}

type storePage struct {
	Page   int                          `json:"page"`
	Size   int                          `json:"size"`
	Total  int64                        `json:"total"`
	Stores []repository.StoreListingRow `json:"stores"`
}

// Search matches the keyword against store name, address and description.
func (h *SearchHandler) Search(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "keyword required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Stores.Search(ctx, keyword)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ByName lists stores sorted by name ascending, ten per page.
func (h *SearchHandler) ByName(c echo.Context) error {
	return h.listPage(c, h.Stores.ListByName)
}

// ByStars lists stores sorted by average rating descending, ten per page.
// Stores without any review come last.
func (h *SearchHandler) ByStars(c echo.Context) error {
	return h.listPage(c, h.Stores.ListByStars)
}

func (h *SearchHandler) listPage(c echo.Context, fetch func(context.Context, int) ([]repository.StoreListingRow, int64, error)) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 0 {
		page = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stores, total, err := fetch(ctx, page)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, storePage{
		Page:   page,
		Size:   repository.StoreListPageSize,
		Total:  total,
		Stores: stores,
	})
}
