package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/goroutine"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/base/metrics"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/smoke"
	"github.com/x-xyz/rwat-deployer/stores/smoke/fixture"
)

type scenarioFunc func(ctx bCtx.Ctx, r *runner) (string, error)

type runner struct {
	deps      fixture.Deps
	met       metrics.Service
	scenarios map[string]scenarioFunc
}

func New(deps fixture.Deps) smoke.Runner {
	r := &runner{
		deps: deps,
		met:  metrics.New("smoke"),
	}
	r.scenarios = map[string]scenarioFunc{
		smoke.ScenarioMulticallProxy: multicallProxy,
		smoke.ScenarioRWATProxy:      rwatProxy,
		smoke.ScenarioMintAsset:      mintAsset,
		smoke.ScenarioSendShares:     sendShares,
	}
	return r
}

func (r *runner) Run(ctx bCtx.Ctx, names ...string) (*smoke.Report, error) {
	if len(names) == 0 {
		names = smoke.Scenarios
	}
	for _, n := range names {
		if _, ok := r.scenarios[n]; !ok {
			return nil, fmt.Errorf("scenario %q: %w", n, domain.ErrBadParamInput)
		}
	}

	report := &smoke.Report{
		RunId:     uuid.NewString(),
		Network:   r.deps.Chain.Network().Name,
		StartedAt: time.Now(),
		Results:   []smoke.Result{},
	}
	ctx = bCtx.WithFields(ctx, log.Fields{"runId": report.RunId, "network": report.Network})
	ctx.WithField("scenarios", names).Info("smoke run started")

	for _, n := range names {
		if err := ctx.Err(); err != nil {
			ctx.WithField("err", err).Warn("smoke run cancelled")
			return report, err
		}
		res := r.runOne(bCtx.WithValue(ctx, "scenario", n), n)
		report.Results = append(report.Results, res)
	}

	ctx.WithField("passed", report.Passed()).Info("smoke run finished")
	return report, nil
}

// runOne turns a panic inside a scenario into a failed result.
func (r *runner) runOne(ctx bCtx.Ctx, name string) smoke.Result {
	defer r.met.BumpTime("scenario.time", "scenario", name).End()

	res := smoke.Result{Name: name}
	start := time.Now()
	var (
		detail string
		err    error
	)
	panicChan := goroutine.RecoverableGo(func() {
		detail, err = r.scenarios[name](ctx, r)
	}, goroutine.WithLogger(ctx.Logger))
	if p := <-panicChan; p != nil {
		err = fmt.Errorf("panic: %v", p.Panic)
	}
	res.Duration = time.Since(start)
	res.Detail = detail
	if err != nil {
		res.Err = err.Error()
		r.met.BumpSum("scenario.fail", 1, "scenario", name)
		ctx.WithFields(log.Fields{"err": err, "detail": detail}).Error("scenario failed")
		return res
	}
	res.Passed = true
	ctx.WithField("detail", detail).Info("scenario passed")
	return res
}
