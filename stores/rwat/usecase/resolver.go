package usecase

import (
	"sync"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

type DialFunc func(ctx bCtx.Ctx, profile network.Profile, cfg chain.ClientCfg) (chain.Client, error)

type ResolverCfg struct {
	Registry         network.Registry
	Client           chain.ClientCfg
	Artifacts        artifact.Repository
	BatchConcurrency int
	// Dial defaults to chain.Dial
	Dial DialFunc
}

type resolver struct {
	cfg ResolverCfg

	mu       sync.Mutex
	clients  map[string]chain.Client
	usecases map[string]rwat.UseCase
}

// NewResolver dials each network on first use and keeps the connection.
func NewResolver(cfg ResolverCfg) rwat.Resolver {
	if cfg.Dial == nil {
		cfg.Dial = chain.Dial
	}
	return &resolver{
		cfg:      cfg,
		clients:  map[string]chain.Client{},
		usecases: map[string]rwat.UseCase{},
	}
}

func (r *resolver) UseCase(ctx bCtx.Ctx, name string) (rwat.UseCase, error) {
	profile, err := r.cfg.Registry.Network(name)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "network": name}).Warn("registry.Network failed")
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if uc, ok := r.usecases[profile.Name]; ok {
		return uc, nil
	}
	client, err := r.cfg.Dial(ctx, profile, r.cfg.Client)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "network": profile.Name}).Error("chain.Dial failed")
		return nil, err
	}
	uc := New(&UsecaseCfg{
		Chain:            client,
		Artifacts:        r.cfg.Artifacts,
		BatchConcurrency: r.cfg.BatchConcurrency,
	})
	r.clients[profile.Name] = client
	r.usecases[profile.Name] = uc
	return uc, nil
}

func (r *resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, c := range r.clients {
		c.Close()
		delete(r.clients, name)
		delete(r.usecases, name)
	}
}
