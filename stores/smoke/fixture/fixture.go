// Package fixture deploys the contracts every RWAT scenario starts from.
package fixture

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

const (
	TokenName   = "tokenName"
	TokenSymbol = "tokenSymbol"
)

type Deps struct {
	Chain    chain.Client
	Deployer deployment.UseCase
	RWAT     rwat.UseCase
}

// Fixture is a fresh RWAT proxy whose owner holds ADMIN.
type Fixture struct {
	Owner    *bind.TransactOpts
	Provider *bind.TransactOpts
	Investor *bind.TransactOpts

	TestToken domain.Address
	RWAT      *deployment.Deployment
}

func (f *Fixture) Address() domain.Address {
	return f.RWAT.Address()
}

// New deploys the test token (zero address when no TestToken artifact
// exists) and an RWAT proxy initialized with (owner, tokenName, tokenSymbol, CNR).
func New(ctx bCtx.Ctx, deps Deps) (*Fixture, error) {
	signers, err := deps.Chain.Signers()
	if err != nil {
		ctx.WithField("err", err).Error("chain.Signers failed")
		return nil, err
	}
	if len(signers) < 3 {
		return nil, fmt.Errorf("need owner, provider and investor, have %d: %w", len(signers), domain.ErrNoSigner)
	}
	f := &Fixture{
		Owner:     signers[0],
		Provider:  signers[1],
		Investor:  signers[2],
		TestToken: domain.EmptyAddress,
	}
	deps.Chain.Label(f.Owner.From, "owner")
	deps.Chain.Label(f.Provider.From, "provider")
	deps.Chain.Label(f.Investor.From, "investor")

	token, err := deps.Deployer.Deploy(ctx, deployment.Request{Contract: rwat.TestTokenName, Kind: deployment.KindNone})
	switch {
	case err == nil:
		f.TestToken = token.Address()
	case errors.Is(err, domain.ErrArtifactNotFound):
		ctx.Warn("no TestToken artifact, assets use the zero address")
	default:
		ctx.WithField("err", err).Error("deploy TestToken failed")
		return nil, err
	}

	f.RWAT, err = deps.Deployer.DeployProxy(ctx, deployment.Request{
		Contract:    rwat.ContractName,
		Args:        rwat.InitArgs(domain.AddressOf(f.Owner.From), TokenName, TokenSymbol, rwat.CNR),
		Initializer: rwat.Initializer,
	})
	if err != nil {
		ctx.WithField("err", err).Error("deploy RWAT proxy failed")
		return nil, err
	}

	if err := deps.RWAT.GrantAdmin(ctx, f.Owner, f.Address(), domain.AddressOf(f.Owner.From)); err != nil {
		ctx.WithField("err", err).Error("GrantAdmin failed")
		return nil, err
	}
	ctx.WithFields(log.Fields{"rwat": f.Address(), "testToken": f.TestToken}).Info("fixture ready")
	return f, nil
}
