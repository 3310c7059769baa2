package coingecko

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/keys"
	"github.com/x-xyz/rwat-deployer/service/cache"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/primitive"
)

func NewClient(cfg *ClientCfg) Client {
	api := strings.TrimSuffix(cfg.BaseUrl, "/")
	if api == "" {
		api = DefaultApi
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTtl
	if ttl == 0 {
		ttl = time.Minute
	}
	return &client{
		client:   cfg.HttpClient,
		timeout:  timeout,
		api:      api,
		currency: currency,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxCoingecko,
			Cache: primitive.NewPrimitive(keys.PfxCoingecko, 4),
		}),
	}
}

type client struct {
	client   http.Client
	timeout  time.Duration
	api      string
	currency string
	cache    cache.Service
}

func (c *client) GetTokenPrice(ctx bCtx.Ctx, symbol string) (decimal.Decimal, error) {
	id, err := CoinId(symbol)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "symbol": symbol}).Error("CoinId failed")
		return decimal.Zero, err
	}
	return c.GetPrice(ctx, id)
}

func (c *client) GetPrice(ctx bCtx.Ctx, id string) (decimal.Decimal, error) {
	key := keys.RedisKey(id, c.currency)
	var price decimal.Decimal
	if err := c.cache.GetByFunc(ctx, key, &price, func() (interface{}, error) {
		if res, err := c.getPrice(ctx, id); err != nil {
			return &decimal.Zero, err
		} else {
			return res, nil
		}
	}); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

func (c *client) getPrice(ctx bCtx.Ctx, id string) (*decimal.Decimal, error) {
	params := url.Values{
		"vs_currency": {c.currency},
		"ids":         {id},
	}
	url := fmt.Sprintf("%s/coins/markets?%s", c.api, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return &decimal.Zero, err
	}
	resp := &Markets{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return &decimal.Zero, err
	}
	if len(*resp) != 1 {
		ctx.WithFields(log.Fields{"id": id, "len": len(*resp)}).Error(ErrMarketsLen)
		return &decimal.Zero, ErrMarketsLen
	}
	price := (*resp)[0].CurrentPrice
	return &price, nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
