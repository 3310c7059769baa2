package usecase

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/x-xyz/rwat-deployer/base/abiarg"
	"github.com/x-xyz/rwat-deployer/base/backoff"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/domain/verification"
	"github.com/x-xyz/rwat-deployer/service/etherscan"
)

type UsecaseCfg struct {
	Network   network.Profile
	Compiler  network.Compiler
	Artifacts artifact.Repository
	Repo      deployment.Repo
	Explorer  etherscan.Client
	// PollInterval and PollLimit bound the status backoff, Timeout the whole wait.
	PollInterval time.Duration
	PollLimit    time.Duration
	Timeout      time.Duration
}

type impl struct {
	cfg UsecaseCfg
}

func New(cfg *UsecaseCfg) verification.UseCase {
	c := *cfg
	if c.PollInterval <= 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.PollLimit <= 0 {
		c.PollLimit = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Minute
	}
	return &impl{cfg: c}
}

func (im *impl) Verify(ctx bCtx.Ctx, req verification.Request) ([]verification.Result, error) {
	ctx = bCtx.WithFields(ctx, log.Fields{"network": im.cfg.Network.Name, "contract": req.Contract, "address": req.Address})

	d, err := im.target(ctx, req)
	if err != nil {
		return nil, err
	}

	a, err := im.cfg.Artifacts.FindByName(ctx, d.Contract)
	if err != nil {
		ctx.WithField("err", err).Error("artifacts.FindByName failed")
		return nil, err
	}
	bi, err := im.cfg.Artifacts.BuildInfo(ctx, a)
	if err != nil {
		ctx.WithField("err", err).Error("artifacts.BuildInfo failed")
		return nil, err
	}
	if bi.SolcVersion != im.cfg.Compiler.Version {
		err := fmt.Errorf("%s was compiled with solc %s, configured %s: %w", a.ContractName, bi.SolcVersion, im.cfg.Compiler.Version, domain.ErrVerificationFailed)
		ctx.WithField("err", err).Error("compiler version mismatch")
		return nil, err
	}

	// proxied implementations are initialized through the proxy, only plain
	// deployments carry constructor arguments
	args := ""
	if !d.Kind.IsProxy() && len(d.InitArgs) > 0 {
		if args, err = constructorArgs(a, d.InitArgs); err != nil {
			ctx.WithField("err", err).Error("constructorArgs failed")
			return nil, err
		}
	}

	source, err := standardJson(bi.Input)
	if err != nil {
		ctx.WithField("err", err).Error("standardJson failed")
		return nil, err
	}

	results := []verification.Result{}
	res, err := im.verifySource(ctx, verification.Result{Contract: a.FullyQualifiedName(), Address: d.Implementation}, etherscan.VerifySourceRequest{
		Address:          d.Implementation.ToCommon(),
		SourceCode:       source,
		ContractName:     a.FullyQualifiedName(),
		CompilerVersion:  "v" + bi.SolcLongVersion,
		OptimizationUsed: im.cfg.Compiler.Optimizer.Enabled,
		Runs:             im.cfg.Compiler.Optimizer.Runs,
		ConstructorArgs:  args,
	})
	if err != nil {
		return nil, err
	}
	results = append(results, res)

	if d.Kind.IsProxy() && !d.Proxy.IsEmpty() {
		res, err := im.linkProxy(ctx, d)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (im *impl) target(ctx bCtx.Ctx, req verification.Request) (*deployment.Deployment, error) {
	if req.Address.IsEmpty() {
		if req.Contract == "" {
			return nil, fmt.Errorf("contract or address required: %w", domain.ErrBadParamInput)
		}
		d, err := im.cfg.Repo.FindLatest(ctx, im.cfg.Network.Name, req.Contract)
		if err != nil {
			ctx.WithField("err", err).Error("repo.FindLatest failed")
			return nil, err
		}
		return d, nil
	}

	opts := []deployment.FindAllOptionsFunc{
		deployment.WithNetwork(im.cfg.Network.Name),
		deployment.WithAddress(req.Address),
	}
	if req.Contract != "" {
		opts = append(opts, deployment.WithContract(req.Contract))
	}
	ds, err := im.cfg.Repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	if len(ds) > 0 {
		d := ds[len(ds)-1]
		// an implementation address verifies on its own
		if d.Kind.IsProxy() && d.Implementation.Equals(req.Address) {
			d.Kind, d.Proxy, d.InitArgs = deployment.KindNone, "", nil
		}
		return &d, nil
	}
	if req.Contract == "" {
		return nil, fmt.Errorf("no deployment recorded at %s, contract required: %w", req.Address, domain.ErrNotFound)
	}
	return &deployment.Deployment{
		Network:        im.cfg.Network.Name,
		Contract:       req.Contract,
		Kind:           deployment.KindNone,
		Implementation: req.Address,
	}, nil
}

func constructorArgs(a *artifact.Artifact, raw []string) (string, error) {
	parsed, err := a.ABI()
	if err != nil {
		return "", err
	}
	values, err := abiarg.Parse(parsed.Constructor.Inputs, raw)
	if err != nil {
		return "", err
	}
	packed, err := parsed.Pack("", values...)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(packed), nil
}

// standardJson compacts the compiler input, build info files are often indented.
func standardJson(input json.RawMessage) (string, error) {
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (im *impl) verifySource(ctx bCtx.Ctx, res verification.Result, req etherscan.VerifySourceRequest) (verification.Result, error) {
	verified, err := im.cfg.Explorer.IsVerified(ctx, req.Address)
	if err != nil {
		ctx.WithField("err", err).Warn("explorer.IsVerified failed, submitting anyway")
	} else if verified {
		ctx.WithField("address", req.Address.Hex()).Info("source already verified, skip submission")
		res.Status = verification.StatusAlreadyVerified
		return res, nil
	}

	guid, err := im.cfg.Explorer.VerifySource(ctx, req)
	if errors.Is(err, etherscan.ErrAlreadyVerified) {
		ctx.WithField("address", req.Address.Hex()).Info("source already verified")
		res.Status = verification.StatusAlreadyVerified
		return res, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("explorer.VerifySource failed")
		return res, err
	}
	res.Guid = guid

	st, err := im.poll(ctx, func() (etherscan.Status, error) {
		return im.cfg.Explorer.CheckVerifyStatus(ctx, guid)
	})
	if err != nil {
		return res, err
	}
	res.Message = st.Message
	res.Status = verification.StatusVerified
	ctx.WithFields(log.Fields{"guid": guid, "message": st.Message}).Info("source verified")
	return res, nil
}

func (im *impl) linkProxy(ctx bCtx.Ctx, d *deployment.Deployment) (verification.Result, error) {
	res := verification.Result{Contract: d.Contract, Address: d.Proxy, Status: verification.StatusProxyLinked}
	guid, err := im.cfg.Explorer.VerifyProxy(ctx, d.Proxy.ToCommon(), d.Implementation.ToCommon())
	if err != nil {
		ctx.WithField("err", err).Error("explorer.VerifyProxy failed")
		return res, err
	}
	res.Guid = guid
	st, err := im.poll(ctx, func() (etherscan.Status, error) {
		return im.cfg.Explorer.CheckProxyVerification(ctx, guid)
	})
	if err != nil {
		return res, err
	}
	res.Message = st.Message
	ctx.WithFields(log.Fields{"proxy": d.Proxy, "guid": guid}).Info("proxy linked")
	return res, nil
}

// poll waits until check reports a final status.
func (im *impl) poll(ctx bCtx.Ctx, check func() (etherscan.Status, error)) (etherscan.Status, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, im.cfg.Timeout)
	defer cancel()

	var st etherscan.Status
	err := backoff.NewExponential(im.cfg.PollInterval, im.cfg.PollLimit).Poll(ctx, func() (bool, error) {
		var err error
		if st, err = check(); err != nil {
			ctx.WithField("err", err).Error("status check failed")
			return false, err
		}
		if st.Pending {
			return false, nil
		}
		if !st.Ok {
			return false, fmt.Errorf("%s: %w", st.Message, domain.ErrVerificationFailed)
		}
		return true, nil
	})
	if err != nil && st.Pending {
		return st, fmt.Errorf("still pending: %w", err)
	}
	return st, err
}
