package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranie/livechat/internal/domain"
)

func performWithHandler(handler echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/test", handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NoError(t *testing.T) {
	rec := performWithHandler(func(c echo.Context) error {
		return c.String(http.StatusOK, "fine")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fine", rec.Body.String())
}

func TestMiddleware_StructuredError(t *testing.T) {
	rec := performWithHandler(func(c echo.Context) error {
		return ValidationError("name is required")
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name is required","type":"validation"}`, rec.Body.String())
}

func TestMiddleware_DomainSentinel(t *testing.T) {
	rec := performWithHandler(func(c echo.Context) error {
		return domain.ErrDuplicateComment
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"conflict"`)
}

func TestMiddleware_PlainError(t *testing.T) {
	rec := performWithHandler(func(c echo.Context) error {
		return assert.AnError
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"internal"`)
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec := performWithHandler(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
