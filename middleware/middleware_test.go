package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/rwat-deployer/base/ctx"
)

func TestIsValidAddress(t *testing.T) {
	e := echo.New()
	h := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	cases := []struct {
		addr string
		code int
	}{
		{"0x5FbDB2315678afecb367f032d93F642f64180aa3", http.StatusOK},
		{"0x5FbDB2315678afecb367f032d93F642f64180aa", http.StatusBadRequest},
		{"rwat", http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		ec := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		ec.SetParamNames("address")
		ec.SetParamValues(c.addr)
		require.NoError(t, IsValidAddress("address")(h)(ec))
		require.Equal(t, c.code, rec.Code, c.addr)
	}
}

func TestAddContext(t *testing.T) {
	e := echo.New()
	m := InitMiddleware()
	rec := httptest.NewRecorder()
	ec := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ec.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	var got interface{}
	h := func(c echo.Context) error {
		got = c.Get("ctx")
		return nil
	}
	require.NoError(t, m.AddContext()(h)(ec))
	_, ok := got.(ctx.Ctx)
	require.True(t, ok)

	require.NoError(t, m.ResponseLogger()(h)(ec))
}
