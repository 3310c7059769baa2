package etherscan

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
)

func NewClient(cfg *ClientCfg) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &client{
		client:  cfg.HttpClient,
		timeout: timeout,
		api:     cfg.ApiUrl,
		key:     cfg.ApiKey,
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	api     string
	key     string
}

func (c *client) VerifySource(ctx bCtx.Ctx, req VerifySourceRequest) (string, error) {
	optimization := "0"
	if req.OptimizationUsed {
		optimization = "1"
	}
	form := url.Values{
		"module":           {"contract"},
		"action":           {"verifysourcecode"},
		"contractaddress":  {req.Address.Hex()},
		"sourceCode":       {req.SourceCode},
		"codeformat":       {CodeFormatStandardJson},
		"contractname":     {req.ContractName},
		"compilerversion":  {req.CompilerVersion},
		"optimizationUsed": {optimization},
		"runs":             {strconv.Itoa(req.Runs)},
	}
	// the explorer api spells it this way
	form.Set("constructorArguements", strings.TrimPrefix(req.ConstructorArgs, "0x"))
	res, err := c.do(ctx, http.MethodPost, form)
	if err != nil {
		return "", err
	}
	if res.Status != "1" {
		msg := res.text()
		if strings.Contains(strings.ToLower(msg), "already verified") {
			return "", ErrAlreadyVerified
		}
		err := fmt.Errorf("verifysourcecode %s: %s: %w", req.Address.Hex(), msg, domain.ErrVerificationFailed)
		ctx.WithFields(log.Fields{"err": err, "address": req.Address.Hex()}).Error("verifysourcecode rejected")
		return "", err
	}
	return res.text(), nil
}

func (c *client) CheckVerifyStatus(ctx bCtx.Ctx, guid string) (Status, error) {
	res, err := c.do(ctx, http.MethodGet, url.Values{
		"module": {"contract"},
		"action": {"checkverifystatus"},
		"guid":   {guid},
	})
	if err != nil {
		return Status{}, err
	}
	return parseStatus(res), nil
}

func (c *client) VerifyProxy(ctx bCtx.Ctx, proxy, expectedImplementation common.Address) (string, error) {
	form := url.Values{
		"module":  {"contract"},
		"action":  {"verifyproxycontract"},
		"address": {proxy.Hex()},
	}
	if expectedImplementation != (common.Address{}) {
		form.Set("expectedimplementation", expectedImplementation.Hex())
	}
	res, err := c.do(ctx, http.MethodPost, form)
	if err != nil {
		return "", err
	}
	if res.Status != "1" {
		err := fmt.Errorf("verifyproxycontract %s: %s: %w", proxy.Hex(), res.text(), domain.ErrVerificationFailed)
		ctx.WithFields(log.Fields{"err": err, "address": proxy.Hex()}).Error("verifyproxycontract rejected")
		return "", err
	}
	return res.text(), nil
}

func (c *client) CheckProxyVerification(ctx bCtx.Ctx, guid string) (Status, error) {
	res, err := c.do(ctx, http.MethodGet, url.Values{
		"module": {"contract"},
		"action": {"checkproxyverification"},
		"guid":   {guid},
	})
	if err != nil {
		return Status{}, err
	}
	return parseStatus(res), nil
}

func (c *client) IsVerified(ctx bCtx.Ctx, addr common.Address) (bool, error) {
	res, err := c.do(ctx, http.MethodGet, url.Values{
		"module":  {"contract"},
		"action":  {"getsourcecode"},
		"address": {addr.Hex()},
	})
	if err != nil {
		return false, err
	}
	if res.Status != "1" {
		return false, nil
	}
	sources := []sourceCode{}
	if err := json.Unmarshal(res.Result, &sources); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": addr.Hex()}).Error("json.Unmarshal failed")
		return false, err
	}
	return len(sources) > 0 && sources[0].SourceCode != "", nil
}

func parseStatus(res *response) Status {
	msg := res.text()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "pending in queue"):
		return Status{Pending: true, Message: msg}
	case strings.Contains(lower, "already verified"):
		return Status{Ok: true, Message: msg}
	}
	return Status{Ok: res.Status == "1", Message: msg}
}

func (c *client) do(ctx bCtx.Ctx, method string, params url.Values) (*response, error) {
	if c.api == "" {
		return nil, ErrMissingApiUrl
	}
	if c.key == "" {
		return nil, ErrMissingApiKey
	}
	params.Set("apikey", c.key)

	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	fields := log.Fields{"url": c.api, "action": params.Get("action")}

	var req *http.Request
	var err error
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, c.api, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.api+"?"+params.Encode(), nil)
	}
	if err != nil {
		ctx.WithFields(fields).WithField("err", err).Error("NewRequestWithContext failed")
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(fields).WithField("err", err).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(fields).WithField("statusCode", resp.StatusCode).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(fields).WithField("err", err).Error("failed to read body")
		return nil, err
	}

	res := &response{}
	if err := json.Unmarshal(body, res); err != nil {
		ctx.WithFields(fields).WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return res, nil
}
