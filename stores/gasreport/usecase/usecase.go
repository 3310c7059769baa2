package usecase

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"math/big"
	"net/http"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/gasreport"
	"github.com/x-xyz/rwat-deployer/domain/keys"
	"github.com/x-xyz/rwat-deployer/service/cache"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/primitive"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/coingecko"
)

var gwei = decimal.New(1, 9)

type UsecaseCfg struct {
	Network  string
	Token    string
	Currency string
	// GasPrice in gwei wins over GasPriceApi when set.
	GasPrice    float64
	GasPriceApi string
	HttpClient  http.Client
	Timeout     time.Duration
	// CacheTtl keeps a fetched gas price, defaults to a minute.
	CacheTtl time.Duration
	// Coingecko is optional, without it the fiat column stays zero.
	Coingecko coingecko.Client
	// Chain supplies eth_gasPrice when neither GasPrice nor GasPriceApi is set.
	Chain chain.Client
}

type key struct {
	contract string
	method   string
}

type stat struct {
	calls int
	min   uint64
	max   uint64
	total uint64
}

type impl struct {
	cfg   UsecaseCfg
	cache cache.Service

	mu    sync.Mutex
	stats map[key]*stat
}

func New(cfg *UsecaseCfg) gasreport.UseCase {
	c := *cfg
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.CacheTtl <= 0 {
		c.CacheTtl = time.Minute
	}
	im := &impl{
		cfg:   c,
		stats: map[key]*stat{},
		cache: cache.New(cache.ServiceConfig{
			Ttl:   c.CacheTtl,
			Pfx:   keys.PfxGasPrice,
			Cache: primitive.NewPrimitive(keys.PfxGasPrice, 1),
		}),
	}
	if c.Chain != nil {
		c.Chain.Observe(func(ctx bCtx.Ctx, info chain.TxInfo) {
			im.Record(ctx, info.Contract, info.Method, info.GasUsed)
		})
	}
	return im
}

func (im *impl) Record(ctx bCtx.Ctx, contract, method string, gasUsed uint64) {
	if contract == "" {
		contract = "unknown"
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	k := key{contract, method}
	s, ok := im.stats[k]
	if !ok {
		s = &stat{min: gasUsed, max: gasUsed}
		im.stats[k] = s
	}
	s.calls++
	s.total += gasUsed
	if gasUsed < s.min {
		s.min = gasUsed
	}
	if gasUsed > s.max {
		s.max = gasUsed
	}
}

func (im *impl) Report(ctx bCtx.Ctx) (*gasreport.Report, error) {
	price, err := im.gasPrice(ctx)
	if err != nil {
		return nil, err
	}
	r := &gasreport.Report{
		Network:    im.cfg.Network,
		Token:      im.cfg.Token,
		Currency:   strings.ToUpper(im.cfg.Currency),
		GasPrice:   price,
		TokenPrice: decimal.Zero,
		Rows:       []gasreport.Row{},
	}
	if im.cfg.Coingecko != nil && im.cfg.Token != "" {
		// the fiat column is optional, a failed price lookup leaves it empty
		if p, err := im.cfg.Coingecko.GetTokenPrice(ctx, im.cfg.Token); err != nil {
			ctx.WithFields(log.Fields{"err": err, "token": im.cfg.Token}).Warn("coingecko.GetTokenPrice failed")
		} else {
			r.TokenPrice = p
		}
	}

	im.mu.Lock()
	for k, s := range im.stats {
		avg := s.total / uint64(s.calls)
		cost := decimal.NewFromInt(int64(avg)).Mul(price).Div(gwei)
		r.Rows = append(r.Rows, gasreport.Row{
			Contract: k.contract,
			Method:   k.method,
			Calls:    s.calls,
			Min:      s.min,
			Max:      s.max,
			Avg:      avg,
			Cost:     cost,
			Fiat:     cost.Mul(r.TokenPrice),
		})
	}
	im.mu.Unlock()

	sort.Slice(r.Rows, func(i, j int) bool {
		if r.Rows[i].Contract != r.Rows[j].Contract {
			return r.Rows[i].Contract < r.Rows[j].Contract
		}
		return r.Rows[i].Method < r.Rows[j].Method
	})
	return r, nil
}

// gasPrice returns gwei from config, the gas price api, or the chain.
func (im *impl) gasPrice(ctx bCtx.Ctx) (decimal.Decimal, error) {
	if im.cfg.GasPrice > 0 {
		return decimal.NewFromFloat(im.cfg.GasPrice), nil
	}
	if im.cfg.GasPriceApi != "" {
		var price decimal.Decimal
		if err := im.cache.GetByFunc(ctx, keys.MD5(im.cfg.GasPriceApi), &price, func() (interface{}, error) {
			wei, err := im.fetchGasPrice(ctx)
			if err != nil {
				return &decimal.Zero, err
			}
			p := decimal.NewFromBigInt(wei, 0).Div(gwei)
			return &p, nil
		}); err != nil {
			return decimal.Zero, err
		}
		return price, nil
	}
	if im.cfg.Chain != nil {
		wei, err := im.cfg.Chain.Backend().SuggestGasPrice(ctx)
		if err != nil {
			ctx.WithField("err", err).Error("backend.SuggestGasPrice failed")
			return decimal.Zero, err
		}
		return decimal.NewFromBigInt(wei, 0).Div(gwei), nil
	}
	return decimal.Zero, nil
}

type rpcResult struct {
	Result string `json:"result"`
}

func (im *impl) fetchGasPrice(ctx bCtx.Ctx) (*big.Int, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, im.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, im.cfg.GasPriceApi, nil)
	if err != nil {
		ctx.WithField("err", err).Error("NewRequestWithContext failed")
		return nil, err
	}
	resp, err := im.cfg.HttpClient.Do(req)
	if err != nil {
		ctx.WithField("err", err).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithField("statusCode", resp.StatusCode).Error("resp.StatusCode != 200")
		return nil, fmt.Errorf("gas price api returned %d", resp.StatusCode)
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithField("err", err).Error("failed to read body")
		return nil, err
	}
	res := rpcResult{}
	if err := json.Unmarshal(body, &res); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	wei, err := hexutil.DecodeBig(res.Result)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "result": res.Result}).Error("hexutil.DecodeBig failed")
		return nil, err
	}
	return wei, nil
}

func (im *impl) Write(w io.Writer, r *gasreport.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "network: %s\tgas price: %s gwei\t%s: %s %s\t\n", r.Network, r.GasPrice.StringFixed(2), r.Token, r.TokenPrice.StringFixed(2), r.Currency)
	fmt.Fprintf(tw, "contract\tmethod\tmin\tmax\tavg\tcalls\t%s (avg)\t%s (avg)\t\n", r.Token, r.Currency)
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
			row.Contract, row.Method, row.Min, row.Max, row.Avg, row.Calls, row.Cost.StringFixed(6), row.Fiat.StringFixed(2))
	}
	return tw.Flush()
}
