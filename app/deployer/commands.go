package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"github.com/x-xyz/rwat-deployer/base/abiarg"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/env"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/domain/smoke"
	"github.com/x-xyz/rwat-deployer/domain/verification"
	"github.com/x-xyz/rwat-deployer/service/etherscan"
	deploymentRepo "github.com/x-xyz/rwat-deployer/stores/deployment/repository"
	rwatUsecase "github.com/x-xyz/rwat-deployer/stores/rwat/usecase"
	"github.com/x-xyz/rwat-deployer/stores/smoke/fixture"
	smokeUsecase "github.com/x-xyz/rwat-deployer/stores/smoke/usecase"
	verificationUsecase "github.com/x-xyz/rwat-deployer/stores/verification/usecase"
)

const (
	scriptMulticall = "multicall"
	scriptRWAT      = "rwat"

	multicallName = "Multicall"
)

// runCmd runs a deployment script: Multicall or RWAT behind a proxy.
func runCmd(fs *pflag.FlagSet) action {
	rawArgs := fs.String("args", "", "initializer arguments, comma separated")
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		if len(args) != 1 {
			return usageErr("run takes exactly one script")
		}
		script := strings.ToLower(args[0])
		if script != scriptMulticall && script != scriptRWAT {
			return usageErr("unknown script %q", args[0])
		}
		repo, err := a.Repo(ctx)
		if err != nil {
			return err
		}
		d, err := a.Deployer(ctx, repo)
		if err != nil {
			return err
		}

		req := deployment.Request{Initializer: rwat.Initializer, Args: abiarg.Split(*rawArgs)}
		switch script {
		case scriptMulticall:
			req.Contract = multicallName
		case scriptRWAT:
			req.Contract = rwat.ContractName
			if len(req.Args) == 0 {
				c, err := a.Chain(ctx)
				if err != nil {
					return err
				}
				signers, err := c.Signers()
				if err != nil {
					return err
				}
				if len(signers) == 0 {
					return domain.ErrNoSigner
				}
				req.Args = rwat.InitArgs(domain.AddressOf(signers[0].From), "tokenName", "tokenSymbol", rwat.CNR)
			}
		}

		res, err := d.DeployProxy(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s Contract deployed to: %s\n", script, res.Address())
		a.PrintGasReport(ctx)
		return nil
	}
}

func deployCmd(fs *pflag.FlagSet) action {
	contract := fs.String("contract", "", "artifact name")
	rawArgs := fs.String("args", "", "initializer or constructor arguments, comma separated")
	initializer := fs.String("initializer", rwat.Initializer, "initializer of a proxied contract, empty for none")
	kindFlag := fs.String("kind", "", "uups, transparent or none, proxy.kind when empty")
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		if *contract == "" {
			return usageErr("--contract is required")
		}
		kind := a.cfg.Proxy().Kind
		if *kindFlag != "" {
			kind = *kindFlag
		}
		k, err := deployment.ParseKind(kind)
		if err != nil {
			return usageErr("%v", err)
		}
		repo, err := a.Repo(ctx)
		if err != nil {
			return err
		}
		d, err := a.Deployer(ctx, repo)
		if err != nil {
			return err
		}
		req := deployment.Request{
			Contract:    *contract,
			Args:        abiarg.Split(*rawArgs),
			Initializer: *initializer,
			Kind:        k,
		}

		var res *deployment.Deployment
		if k.IsProxy() {
			res, err = d.DeployProxy(ctx, req)
		} else {
			res, err = d.Deploy(ctx, req)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s deployed to: %s\n", res.Contract, res.Address())
		if k.IsProxy() {
			fmt.Fprintf(a.out, "implementation: %s\n", res.Implementation)
		}
		a.PrintGasReport(ctx)
		return nil
	}
}

func upgradeCmd(fs *pflag.FlagSet) action {
	proxy := fs.String("proxy", "", "proxy address")
	contract := fs.String("contract", "", "artifact name of the new implementation")
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		if *contract == "" {
			return usageErr("--contract is required")
		}
		if !common.IsHexAddress(*proxy) {
			return usageErr("--proxy %q is not an address", *proxy)
		}
		repo, err := a.Repo(ctx)
		if err != nil {
			return err
		}
		d, err := a.Deployer(ctx, repo)
		if err != nil {
			return err
		}
		res, err := d.Upgrade(ctx, domain.Address(*proxy).ToLower(), *contract)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s upgraded: proxy %s implementation %s\n", res.Contract, res.Proxy, res.Implementation)
		a.PrintGasReport(ctx)
		return nil
	}
}

func verifyCmd(fs *pflag.FlagSet) action {
	contract := fs.String("contract", "", "verify the latest deployment of this contract")
	address := fs.String("address", "", "verify the deployment at this address")
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		if *contract == "" && *address == "" {
			return usageErr("--contract or --address is required")
		}
		if *address != "" && !common.IsHexAddress(*address) {
			return usageErr("--address %q is not an address", *address)
		}
		p, err := a.Profile()
		if err != nil {
			return err
		}
		repo, err := a.Repo(ctx)
		if err != nil {
			return err
		}
		tx := a.cfg.Tx()
		uc := verificationUsecase.New(&verificationUsecase.UsecaseCfg{
			Network:   p,
			Compiler:  a.cfg.Registry().Compiler(),
			Artifacts: a.Artifacts(),
			Repo:      repo,
			Explorer: etherscan.NewClient(&etherscan.ClientCfg{
				HttpClient: http.Client{},
				Timeout:    a.cfg.HttpTimeout(),
				ApiUrl:     p.Explorer.ApiUrl,
				ApiKey:     p.Explorer.ApiKey,
			}),
			Timeout: tx.Timeout,
		})

		results, err := uc.Verify(ctx, verification.Request{
			Contract: *contract,
			Address:  domain.Address(*address).ToLower(),
		})
		for _, r := range results {
			fmt.Fprintf(a.out, "%s %s at %s\n", r.Status, r.Contract, r.Address)
			if r.Status != verification.StatusProxyLinked && p.Explorer.BrowserUrl != "" {
				fmt.Fprintf(a.out, "  %s/address/%s#code\n", strings.TrimSuffix(p.Explorer.BrowserUrl, "/"), r.Address)
			}
		}
		return err
	}
}

// smokeCmd records into a throwaway directory unless --deployments is set,
// smoke deployments are not meant to be looked up later.
func smokeCmd(fs *pflag.FlagSet) action {
	scenarios := fs.StringSlice("scenario", nil, fmt.Sprintf("scenarios to run, all of %v when empty", smoke.Scenarios))
	dir := fs.String("deployments", "", "keep smoke deployment records in this directory")
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		for _, s := range *scenarios {
			if !isScenario(s) {
				return usageErr("unknown scenario %q", s)
			}
		}
		records := *dir
		if records == "" {
			tmp, cleanup, err := tempDir("smoke-deployments")
			if err != nil {
				return err
			}
			defer cleanup()
			records = tmp
		}
		c, err := a.Chain(ctx)
		if err != nil {
			return err
		}
		d, err := a.Deployer(ctx, deploymentRepo.NewFileRepo(records))
		if err != nil {
			return err
		}
		runner := smokeUsecase.New(fixture.Deps{
			Chain:    c,
			Deployer: d,
			RWAT:     rwatUsecase.New(&rwatUsecase.UsecaseCfg{Chain: c, Artifacts: a.Artifacts()}),
		})

		report, err := runner.Run(ctx, *scenarios...)
		if err != nil {
			return err
		}
		for _, r := range report.Results {
			state := "PASS"
			if !r.Passed {
				state = "FAIL"
			}
			fmt.Fprintf(a.out, "%s %s (%s)\n", state, r.Name, r.Duration.Round(time.Millisecond))
			if r.Detail != "" {
				fmt.Fprintf(a.out, "  %s\n", r.Detail)
			}
			if r.Err != "" {
				fmt.Fprintf(a.out, "  error: %s\n", r.Err)
			}
		}
		a.PrintGasReport(ctx)
		if !report.Passed() {
			return fmt.Errorf("smoke run %s failed", report.RunId)
		}
		return nil
	}
}

func isScenario(name string) bool {
	for _, s := range smoke.Scenarios {
		if s == name {
			return true
		}
	}
	return false
}

type networksOutput struct {
	Default  string            `json:"default"`
	Compiler network.Compiler  `json:"compiler"`
	Networks []network.Profile `json:"networks"`
	Invalid  map[string]string `json:"invalid,omitempty"`
	// Env tells which known variables are set, never their values.
	Env map[string]bool `json:"env"`
}

// networksCmd prints every configured profile with keys redacted. A profile
// whose env vars are missing is listed under invalid.
func networksCmd(fs *pflag.FlagSet) action {
	return func(ctx bCtx.Ctx, a *app, args []string) error {
		reg := a.cfg.Registry()
		out := networksOutput{
			Default:  reg.Default(),
			Compiler: reg.Compiler(),
			Networks: []network.Profile{},
			Invalid:  map[string]string{},
			Env:      map[string]bool{},
		}
		for _, k := range env.Known {
			_, out.Env[k] = env.Lookup(k)
		}
		names := reg.Names()
		if !contains(names, network.LocalName) {
			names = append([]string{network.LocalName}, names...)
		}
		for _, name := range names {
			p, err := reg.Network(name)
			if err != nil {
				ctx.WithFields(log.Fields{"err": err, "network": name}).Warn("invalid network")
				out.Invalid[name] = err.Error()
				continue
			}
			out.Networks = append(out.Networks, p.Redacted())
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(b))
		return nil
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
