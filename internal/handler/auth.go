package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/store-reservation/internal/apperr"
	"github.com/iliyamo/store-reservation/internal/config"
	"github.com/iliyamo/store-reservation/internal/middleware"
	"github.com/iliyamo/store-reservation/internal/model"
	"github.com/iliyamo/store-reservation/internal/repository"
	"github.com/iliyamo/store-reservation/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints: sign-up, sign-in,
// token refresh and withdrawal.
type AuthHandler struct {
	Cfg      config.Config
	Log      zerolog.Logger
	Accounts *repository.AccountRepo
	Tokens   *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, log zerolog.Logger, a *repository.AccountRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Log: log, Accounts: a, Tokens: t}
}

// ----- DTOs -----

type signUpReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // OWNER | USER
}
type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// SignUp creates an account.  Store owners and customers share the same
// endpoint and differ only in the role field; anything but OWNER signs up
// as a regular USER.  New accounts are active immediately.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if req.Password == "" {
		return writeError(c, h.Log, apperr.PasswordCannotBeNull)
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleOwner {
		role = model.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().Str("email", req.Email).Str("role", role).Msg("account signed up")

	return c.JSON(http.StatusCreated, accountPart{ID: id, Email: req.Email, Role: role})
}

// SignIn verifies credentials and returns a token pair.  Deactivated
// accounts are refused even with the correct password.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return writeError(c, h.Log, apperr.PasswordIsIncorrect)
	}
	if !a.IsActive {
		return writeError(c, h.Log, apperr.UnactivatedAccount)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Email, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return writeError(c, h.Log, err)
	}
	h.Log.Info().Str("email", a.Email).Str("role", a.Role).Msg("account signed in")

	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{ID: a.ID, Email: a.Email, Role: a.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair.  A deactivated account cannot refresh its way back in.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if !a.IsActive {
		return writeError(c, h.Log, apperr.UnactivatedAccount)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Email, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return writeError(c, h.Log, err)
	}

	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{ID: a.ID, Email: a.Email, Role: a.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// Deactivate withdraws the authenticated account (soft delete).  Accounts
// may only withdraw themselves.  Owners are blocked while they still have
// stores, users while they still have reservations on record; the guard
// runs atomically in the repository.  All refresh sessions are revoked.
func (h *AuthHandler) Deactivate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	if id != middleware.AccountID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Deactivate(ctx, id); err != nil {
		return writeError(c, h.Log, err)
	}
	_ = h.Tokens.RevokeAllForAccount(ctx, id)
	h.Log.Info().Uint64("account_id", id).Msg("account deactivated")

	return c.NoContent(http.StatusNoContent)
}
