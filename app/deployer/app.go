package main

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/x-xyz/rwat-deployer/base/config"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/database/mongoclient"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/gasreport"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/coingecko"
	"github.com/x-xyz/rwat-deployer/service/query"
	artifactRepo "github.com/x-xyz/rwat-deployer/stores/artifact/repository"
	deploymentRepo "github.com/x-xyz/rwat-deployer/stores/deployment/repository"
	deploymentUsecase "github.com/x-xyz/rwat-deployer/stores/deployment/usecase"
	gasreportUsecase "github.com/x-xyz/rwat-deployer/stores/gasreport/usecase"
)

// app wires the dependencies of one command lazily, a command only pays
// for the connections it uses.
type app struct {
	cfg     *config.Config
	network string
	out     io.Writer

	profile   *network.Profile
	client    chain.Client
	artifacts artifact.Repository
	repo      deployment.Repo
	mongo     *mongoclient.Client
	gas       gasreport.UseCase
}

func newApp(cfg *config.Config, networkName string, out io.Writer) *app {
	return &app{cfg: cfg, network: networkName, out: out}
}

func (a *app) Profile() (network.Profile, error) {
	if a.profile != nil {
		return *a.profile, nil
	}
	p, err := a.cfg.Registry().Network(a.network)
	if err != nil {
		return network.Profile{}, err
	}
	a.profile = &p
	return p, nil
}

// Chain dials the selected network once. The gas reporter, when enabled,
// observes every transaction from here on.
func (a *app) Chain(ctx bCtx.Ctx) (chain.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	p, err := a.Profile()
	if err != nil {
		return nil, err
	}
	tx := a.cfg.Tx()
	c, err := chain.Dial(ctx, p, chain.ClientCfg{
		Timeout:      tx.Timeout,
		PollInterval: tx.PollInterval,
		PollLimit:    tx.PollLimit,
	})
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "network": p.Name}).Error("chain.Dial failed")
		return nil, err
	}
	a.client = c

	if gr := a.cfg.GasReporter(); gr.Enabled {
		token := gr.Token
		if token == "" {
			token = p.GasToken
		}
		a.gas = gasreportUsecase.New(&gasreportUsecase.UsecaseCfg{
			Network:     p.Name,
			Token:       token,
			Currency:    gr.Currency,
			GasPrice:    gr.GasPrice,
			GasPriceApi: gr.GasPriceApi,
			HttpClient:  http.Client{},
			Timeout:     a.cfg.HttpTimeout(),
			Coingecko: coingecko.NewClient(&coingecko.ClientCfg{
				HttpClient: http.Client{},
				Timeout:    a.cfg.HttpTimeout(),
				BaseUrl:    gr.CoingeckoApi,
				Currency:   gr.Currency,
			}),
			Chain: c,
		})
	}
	return c, nil
}

// Artifacts resolves the project's artifacts first, then paths.proxyArtifacts.
func (a *app) Artifacts() artifact.Repository {
	if a.artifacts == nil {
		p := a.cfg.Paths()
		a.artifacts = artifactRepo.NewFileRepo(p.Artifacts)
		if p.ProxyArtifacts != "" {
			a.artifacts = artifactRepo.NewLayeredRepo(a.artifacts, artifactRepo.NewFileRepo(p.ProxyArtifacts))
		}
	}
	return a.artifacts
}

// Repo stores records in mongo when mongo.uri is set, in
// <paths.deployments>/<network>.json otherwise.
func (a *app) Repo(ctx bCtx.Ctx) (deployment.Repo, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	m := a.cfg.Mongo()
	if m.Uri == "" {
		a.repo = deploymentRepo.NewFileRepo(a.cfg.Paths().Deployments)
		return a.repo, nil
	}
	client, err := mongoclient.ConnectMongoClient(ctx, mongoclient.Config{
		Uri:        m.Uri,
		AuthDBName: m.AuthDBName,
		DbName:     m.DbName,
		SSL:        m.EnableSSL,
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.ConnectMongoClient failed")
		return nil, err
	}
	a.mongo = client
	q := query.New(client)
	if err := deploymentRepo.EnsureIndexes(ctx, q); err != nil {
		ctx.WithField("err", err).Error("deploymentRepo.EnsureIndexes failed")
		return nil, err
	}
	a.repo = deploymentRepo.NewMongoRepo(q)
	return a.repo, nil
}

func (a *app) Deployer(ctx bCtx.Ctx, repo deployment.Repo) (deployment.UseCase, error) {
	c, err := a.Chain(ctx)
	if err != nil {
		return nil, err
	}
	kind, err := deployment.ParseKind(a.cfg.Proxy().Kind)
	if err != nil {
		return nil, err
	}
	px := a.cfg.Proxy()
	return deploymentUsecase.New(&deploymentUsecase.UsecaseCfg{
		Chain:     c,
		Artifacts: a.Artifacts(),
		Repo:      repo,
		Proxy: deploymentUsecase.ProxyArtifacts{
			ERC1967:     px.Artifact,
			Transparent: px.TransparentArtifact,
			Admin:       px.AdminArtifact,
		},
		DefaultKind: kind,
	}), nil
}

// PrintGasReport writes the gas table when the reporter is enabled and at
// least one transaction went through.
func (a *app) PrintGasReport(ctx bCtx.Ctx) {
	if a.gas == nil {
		return
	}
	r, err := a.gas.Report(ctx)
	if err != nil {
		// the command itself succeeded
		ctx.WithField("err", err).Warn("gas report failed")
		return
	}
	if len(r.Rows) == 0 {
		return
	}
	io.WriteString(a.out, strings.Repeat("-", 72)+"\n")
	if err := a.gas.Write(a.out, r); err != nil {
		ctx.WithField("err", err).Warn("gas report failed")
	}
}

func (a *app) Close(ctx bCtx.Ctx) {
	if a.client != nil {
		a.client.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			ctx.WithField("err", err).Warn("mongo.Disconnect failed")
		}
	}
}

// tempDir holds throwaway deployment records.
func tempDir(pattern string) (string, func(), error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
