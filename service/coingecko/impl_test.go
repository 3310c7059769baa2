package coingecko

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

func newServer(t *testing.T, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.Equal(t, "/coins/markets", r.URL.Path)
		require.Equal(t, "twd", r.URL.Query().Get("vs_currency"))
		switch r.URL.Query().Get("ids") {
		case "binancecoin":
			w.Write([]byte(`[{"id":"binancecoin","symbol":"bnb","name":"BNB","current_price":9876.54}]`))
		case "matic-network":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
}

func TestCoinId(t *testing.T) {
	req := require.New(t)
	id, err := CoinId("bnb")
	req.NoError(err)
	req.Equal("binancecoin", id)
	id, err = CoinId("MATIC")
	req.NoError(err)
	req.Equal("matic-network", id)
	id, err = CoinId(" ETH ")
	req.NoError(err)
	req.Equal("ethereum", id)
	_, err = CoinId("DOGE")
	req.ErrorIs(err, ErrUnknownSymbol)
}

func TestGetTokenPrice(t *testing.T) {
	req := require.New(t)
	var calls int32
	srv := newServer(t, &calls)
	defer srv.Close()

	c := NewClient(&ClientCfg{
		HttpClient: http.Client{},
		Timeout:    5 * time.Second,
		BaseUrl:    srv.URL + "/",
		Currency:   "TWD",
	})
	ctx := bCtx.Background()

	price, err := c.GetTokenPrice(ctx, "BNB")
	req.NoError(err)
	req.True(decimal.RequireFromString("9876.54").Equal(price), price.String())

	// cached
	price, err = c.GetPrice(ctx, "binancecoin")
	req.NoError(err)
	req.True(decimal.RequireFromString("9876.54").Equal(price))
	req.Equal(int32(1), atomic.LoadInt32(&calls))

	_, err = c.GetTokenPrice(ctx, "MATIC")
	req.ErrorIs(err, ErrMarketsLen)

	_, err = c.GetPrice(ctx, "ethereum")
	req.ErrorIs(err, ErrStatusCodeNotOk)

	_, err = c.GetTokenPrice(ctx, "DOGE")
	req.ErrorIs(err, ErrUnknownSymbol)
}
