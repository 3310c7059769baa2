package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	hcdomain "github.com/x-xyz/rwat-deployer/domain/healthcheck"
	"github.com/x-xyz/rwat-deployer/domain/healthcheck/mocks"
	"github.com/x-xyz/rwat-deployer/stores/healthcheck/usecase"
)

func newEcho(deps ...hcdomain.Dependency) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	New(e, usecase.New(deps...))
	return e
}

func TestHealthy(t *testing.T) {
	req := require.New(t)
	dep := &mocks.Dependency{}
	dep.On("Name").Return("mongo")
	dep.On("Ping", mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	newEcho(dep).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"data":{"mongo":"ok"},"status":"success"}`, rec.Body.String())
}

func TestUnhealthy(t *testing.T) {
	req := require.New(t)
	dep := &mocks.Dependency{}
	dep.On("Name").Return("redis")
	dep.On("Ping", mock.Anything).Return(errors.New("i/o timeout"))

	rec := httptest.NewRecorder()
	newEcho(dep).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	req.Equal(http.StatusServiceUnavailable, rec.Code)
	req.JSONEq(`{"data":{"redis":"i/o timeout"},"status":"fail"}`, rec.Body.String())
}
