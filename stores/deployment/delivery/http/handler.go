package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/delivery"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/middleware"
)

type handler struct {
	repo deployment.Repo
}

func New(e *echo.Echo, repo deployment.Repo, cacheTtl time.Duration) {
	h := &handler{
		repo: repo,
	}

	g := e.Group("/deployments")
	g.GET("", h.getDeployments, middleware.CacheHttp(cacheTtl))
	g.GET("/:network/:contract/latest", h.getLatest, middleware.CacheHttp(cacheTtl))
}

func (h *handler) getDeployments(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Network  string `query:"network" validate:"required"`
		Contract string `query:"contract"`
		Address  string `query:"address" validate:"omitempty,eth_addr"`
		Limit    int32  `query:"limit" validate:"gte=0,lte=1000"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	opts := []deployment.FindAllOptionsFunc{deployment.WithNetwork(p.Network)}
	if p.Contract != "" {
		opts = append(opts, deployment.WithContract(p.Contract))
	}
	if p.Address != "" {
		opts = append(opts, deployment.WithAddress(domain.Address(p.Address)))
	}
	if p.Limit > 0 {
		opts = append(opts, deployment.WithLimit(p.Limit))
	}

	res, err := h.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getLatest(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Network  string `param:"network" validate:"required"`
		Contract string `param:"contract" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	res, err := h.repo.FindLatest(ctx, p.Network, p.Contract)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
