package smoke

import (
	"time"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

const (
	ScenarioMulticallProxy = "multicall-proxy"
	ScenarioRWATProxy      = "rwat-proxy-grant-admin"
	ScenarioMintAsset      = "rwat-create-mint"
	ScenarioSendShares     = "rwat-whitelist-send-shares"
)

// Scenarios lists every scenario in run order.
var Scenarios = []string{
	ScenarioMulticallProxy,
	ScenarioRWATProxy,
	ScenarioMintAsset,
	ScenarioSendShares,
}

type Result struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Detail   string        `json:"detail,omitempty"`
	Err      string        `json:"err,omitempty"`
	Duration time.Duration `json:"duration"`
}

type Report struct {
	RunId     string    `json:"runId"`
	Network   string    `json:"network"`
	StartedAt time.Time `json:"startedAt"`
	Results   []Result  `json:"results"`
}

// Passed is false when any scenario failed or none ran.
func (r *Report) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

type Runner interface {
	// Run executes the named scenarios in order, all of them when names is
	// empty. A failing scenario does not stop the next one.
	Run(ctx bCtx.Ctx, names ...string) (*Report, error)
}
