package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/delivery"
	"github.com/x-xyz/rwat-deployer/service/coingecko"
)

type handler struct {
	client   coingecko.Client
	currency string
}

type priceResp struct {
	Symbol   string          `json:"symbol"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
}

// New serves gas token prices, the ones the gas reporter converts with.
func New(e *echo.Echo, coingeckoClient coingecko.Client, currency string) {
	h := &handler{
		client:   coingeckoClient,
		currency: strings.ToUpper(currency),
	}

	g := e.Group("/coins")
	g.GET("/:symbol", h.getCoin)
}

func (h *handler) getCoin(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Symbol string `param:"symbol" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	val, err := h.client.GetTokenPrice(ctx, p.Symbol)
	if errors.Is(err, coingecko.ErrUnknownSymbol) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, priceResp{
		Symbol:   strings.ToUpper(p.Symbol),
		Currency: h.currency,
		Price:    val,
	})
}
