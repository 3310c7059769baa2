package http

import (
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/delivery"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/middleware"
)

type handler struct {
	resolver rwat.Resolver
}

type ownerResp struct {
	TokenId string         `json:"tokenId"`
	Owner   domain.Address `json:"owner"`
}

type adminResp struct {
	Account domain.Address `json:"account"`
	Admin   bool           `json:"admin"`
}

type mintedResp struct {
	AssetId     string `json:"assetId"`
	TotalMinted string `json:"totalMinted"`
}

func New(e *echo.Echo, resolver rwat.Resolver, cacheTtl time.Duration) {
	h := &handler{
		resolver: resolver,
	}

	g := e.Group("/rwat/:network/:address", middleware.IsValidAddress("address"), middleware.CacheHttp(cacheTtl))
	g.GET("/tokens/:tokenId/owner", h.getOwner)
	g.GET("/owners/:owner/tokens", h.getHoldings, middleware.IsValidAddress("owner"))
	g.GET("/owners/:owner/nfts", h.getAllNFTs, middleware.IsValidAddress("owner"))
	g.GET("/assets/:assetId/minted", h.getTotalMinted)
	g.GET("/admins/:account", h.getIsAdmin, middleware.IsValidAddress("account"))
}

func parseUint(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, domain.ErrBadParamInput
	}
	return n, nil
}

func (h *handler) getOwner(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokenId, err := parseUint(c.Param("tokenId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid tokenId")
	}
	uc, err := h.resolver.UseCase(ctx, c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	owner, err := uc.OwnerOf(ctx, domain.Address(c.Param("address")), tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, ownerResp{TokenId: tokenId.String(), Owner: owner})
}

func (h *handler) getHoldings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	uc, err := h.resolver.UseCase(ctx, c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res, err := uc.Holdings(ctx, domain.Address(c.Param("address")), domain.Address(c.Param("owner")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAllNFTs(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	uc, err := h.resolver.UseCase(ctx, c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	ids, err := uc.AllNFTsOfOwner(ctx, domain.Address(c.Param("address")), domain.Address(c.Param("owner")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = id.String()
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getTotalMinted(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	assetId, err := parseUint(c.Param("assetId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid assetId")
	}
	uc, err := h.resolver.UseCase(ctx, c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	total, err := uc.TotalMinted(ctx, domain.Address(c.Param("address")), assetId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, mintedResp{AssetId: assetId.String(), TotalMinted: total.String()})
}

func (h *handler) getIsAdmin(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	uc, err := h.resolver.UseCase(ctx, c.Param("network"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	account := domain.Address(c.Param("account"))
	ok, err := uc.IsAdmin(ctx, domain.Address(c.Param("address")), account)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, adminResp{Account: account.ToLower(), Admin: ok})
}
