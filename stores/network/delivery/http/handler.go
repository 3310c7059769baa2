package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/delivery"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

type handler struct {
	registry network.Registry
}

type networksResp struct {
	Default  string            `json:"default"`
	Compiler network.Compiler  `json:"compiler"`
	Networks []network.Profile `json:"networks"`
	// Invalid maps a network name to why it could not be resolved.
	Invalid map[string]string `json:"invalid,omitempty"`
}

func New(e *echo.Echo, registry network.Registry) {
	h := &handler{
		registry: registry,
	}

	e.GET("/networks", h.getNetworks)
	e.GET("/networks/:network", h.getNetwork)
}

func (h *handler) getNetworks(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res := networksResp{
		Default:  h.registry.Default(),
		Compiler: h.registry.Compiler(),
		Networks: []network.Profile{},
		Invalid:  map[string]string{},
	}
	for _, name := range h.registry.Names() {
		p, err := h.registry.Network(name)
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "network": name}).Warn("registry.Network failed")
			res.Invalid[name] = err.Error()
			continue
		}
		res.Networks = append(res.Networks, p.Redacted())
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getNetwork(c echo.Context) error {
	p, err := h.registry.Network(c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, p.Redacted())
}
