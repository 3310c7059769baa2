package etherscan

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

const CodeFormatStandardJson = "solidity-standard-json-input"

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrMissingApiKey   = errors.New("missing explorer api key")
	ErrMissingApiUrl   = errors.New("missing explorer api url")
	// ErrAlreadyVerified is returned by VerifySource when the explorer
	// already holds the source of the address.
	ErrAlreadyVerified = errors.New("contract source code already verified")
)

// Client talks to an etherscan-family explorer (bscscan, polygonscan).
type Client interface {
	// VerifySource submits a verification and returns its guid.
	VerifySource(ctx bCtx.Ctx, req VerifySourceRequest) (string, error)
	CheckVerifyStatus(ctx bCtx.Ctx, guid string) (Status, error)
	// VerifyProxy links proxy to its implementation on the explorer and
	// returns the guid to poll with CheckProxyVerification.
	VerifyProxy(ctx bCtx.Ctx, proxy, expectedImplementation common.Address) (string, error)
	CheckProxyVerification(ctx bCtx.Ctx, guid string) (Status, error)
	IsVerified(ctx bCtx.Ctx, addr common.Address) (bool, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	ApiUrl     string
	ApiKey     string
}

type VerifySourceRequest struct {
	Address common.Address
	// SourceCode is the standard-json compiler input.
	SourceCode string
	// ContractName is fully qualified: contracts/RWAT.sol:RWAT
	ContractName     string
	CompilerVersion  string
	OptimizationUsed bool
	Runs             int
	// ConstructorArgs is the abi encoded argument data without 0x.
	ConstructorArgs string
}

// Status is the state of a submitted verification.
type Status struct {
	Pending bool
	Ok      bool
	Message string
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// text returns the result when it is a plain string.
func (r response) text() string {
	s := ""
	if err := json.Unmarshal(r.Result, &s); err != nil {
		return string(r.Result)
	}
	return s
}

type sourceCode struct {
	SourceCode   string `json:"SourceCode"`
	ContractName string `json:"ContractName"`
}
