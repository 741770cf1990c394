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
	"github.com/iliyamo/store-reservation/internal/repository"
)

// OwnerStoreHandler exposes store CRUD for owner accounts.
type OwnerStoreHandler struct {
	Log    zerolog.Logger
	Stores *repository.StoreRepo
}

func NewOwnerStoreHandler(log zerolog.Logger, s *repository.StoreRepo) *OwnerStoreHandler {
	return &OwnerStoreHandler{Log: log, Stores: s}
}

type storeReq struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type storeResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func toStoreResp(s *model.Store) storeResp {
	return storeResp{ID: s.ID, Name: s.Name, Address: s.Address, Description: s.Description}
}

// List returns all stores owned by the authenticated owner.
func (h *OwnerStoreHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stores, err := h.Stores.ListByOwner(ctx, middleware.AccountID(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]storeResp, 0, len(stores))
	for _, s := range stores {
		out = append(out, toStoreResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Add registers a new store owned by the authenticated owner.
func (h *OwnerStoreHandler) Add(c echo.Context) error {
	var req storeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID := middleware.AccountID(c)
	st, err := h.Stores.Create(ctx, ownerID, req.Name, req.Address, req.Description)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().Uint64("owner_id", ownerID).Str("store", st.Name).Msg("store added")

	return c.JSON(http.StatusCreated, toStoreResp(st))
}

// Edit replaces the store's name, address and description.
func (h *OwnerStoreHandler) Edit(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || storeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
	}
	var req storeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID := middleware.AccountID(c)
	st, err := h.Stores.Update(ctx, ownerID, storeID, req.Name, req.Address, req.Description)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().Uint64("owner_id", ownerID).Uint64("store_id", storeID).Msg("store edited")

	return c.JSON(http.StatusOK, toStoreResp(st))
}

// Delete removes the store.  Deletion is unconditional: reservations that
// reference the store are left in place.
func (h *OwnerStoreHandler) Delete(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || storeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID := middleware.AccountID(c)
	if err := h.Stores.Delete(ctx, ownerID, storeID); err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().Uint64("owner_id", ownerID).Uint64("store_id", storeID).Msg("store deleted")

	return c.NoContent(http.StatusNoContent)
}
