package gasreport

import (
	"io"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

// Row aggregates every confirmed call of one contract method.
type Row struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Calls    int    `json:"calls"`
	Min      uint64 `json:"min"`
	Max      uint64 `json:"max"`
	Avg      uint64 `json:"avg"`
	// Cost is the average cost in the gas token, Fiat in Report.Currency.
	Cost decimal.Decimal `json:"cost"`
	Fiat decimal.Decimal `json:"fiat"`
}

type Report struct {
	Network  string          `json:"network"`
	Token    string          `json:"token"`
	Currency string          `json:"currency"`
	GasPrice decimal.Decimal `json:"gasPriceGwei"`
	// TokenPrice is zero when no price could be fetched.
	TokenPrice decimal.Decimal `json:"tokenPrice"`
	Rows       []Row           `json:"rows"`
}

type UseCase interface {
	Record(ctx bCtx.Ctx, contract, method string, gasUsed uint64)
	// Report prices the recorded rows, sorted by contract then method.
	Report(ctx bCtx.Ctx) (*Report, error)
	Write(w io.Writer, r *Report) error
}
