package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/coingecko"
)

func TestGetCoin(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "matic-network" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":"matic-network","symbol":"matic","name":"Polygon","current_price":0.85}]`))
	}))
	defer srv.Close()

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	New(e, coingecko.NewClient(&coingecko.ClientCfg{BaseUrl: srv.URL, Currency: "usd"}), "usd")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coins/matic", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"data":{"symbol":"MATIC","currency":"USD","price":"0.85"},"status":"success"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coins/doge", nil))
	req.Equal(http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coins/bnb", nil))
	req.Equal(http.StatusInternalServerError, rec.Code)
}
