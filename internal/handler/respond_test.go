package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-reservation/internal/apperr"
)

func TestWriteError_DomainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, writeError(c, zerolog.Nop(), apperr.DuplicatedReservation))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error_code":"DUPLICATED_RESERVATION","error_message":"a reservation for the same store and time already exists"}`,
		rec.Body.String())
}

func TestWriteError_UnknownErrorIsOpaque(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, writeError(c, zerolog.Nop(), errors.New("dial tcp: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Infrastructure details must not reach the client.
	assert.NotContains(t, rec.Body.String(), "dial tcp")
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
