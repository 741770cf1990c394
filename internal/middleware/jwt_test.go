package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-reservation/internal/utils"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", 7, "user@example.com", "USER", 60)
	require.NoError(t, err)

	rec, c := doRequest(t, JWTAuth("test-secret"), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), AccountID(c))
	assert.Equal(t, "user@example.com", c.Get("email"))
	assert.Equal(t, "USER", c.Get("role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, _ := doRequest(t, JWTAuth("test-secret"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "user@example.com", "USER", 60)
	require.NoError(t, err)

	rec, _ := doRequest(t, JWTAuth("test-secret"), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", 7, "user@example.com", "USER", -1)
	require.NoError(t, err)

	rec, _ := doRequest(t, JWTAuth("test-secret"), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountID_Unauthenticated(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, uint64(0), AccountID(c))
}
