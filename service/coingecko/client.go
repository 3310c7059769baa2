package coingecko

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

const DefaultApi = "https://api.coingecko.com/api/v3"

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrMarketsLen      = errors.New("len(markets) != 1")
	ErrUnknownSymbol   = errors.New("unknown token symbol")
)

// coinIds maps gas token symbols to coingecko ids.
var coinIds = map[string]string{
	"BNB":   "binancecoin",
	"MATIC": "matic-network",
	"ETH":   "ethereum",
}

// CoinId returns the coingecko id of a gas token symbol.
func CoinId(symbol string) (string, error) {
	id, ok := coinIds[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return "", ErrUnknownSymbol
	}
	return id, nil
}

type Client interface {
	// GetPrice returns the price of a coingecko id in the configured currency.
	GetPrice(ctx bCtx.Ctx, id string) (decimal.Decimal, error)
	// GetTokenPrice resolves symbol (BNB, MATIC, ETH) with CoinId first.
	GetTokenPrice(ctx bCtx.Ctx, symbol string) (decimal.Decimal, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	// BaseUrl defaults to DefaultApi
	BaseUrl string
	// Currency defaults to usd
	Currency string
	CacheTtl time.Duration
}

type Markets []Market

type Market struct {
	Id           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}
