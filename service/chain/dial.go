package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/ethereum"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

// Dial connects to profile: an in-process chain for the local profile, an
// RPC endpoint otherwise.
func Dial(ctx bCtx.Ctx, profile network.Profile, cfg ClientCfg) (Client, error) {
	ctx = bCtx.WithValue(ctx, "network", profile.Name)

	var backend domain.ChainBackend
	if profile.IsLocal() {
		sim, err := NewSimulated(profile.Accounts)
		if err != nil {
			ctx.WithField("err", err).Error("NewSimulated failed")
			return nil, err
		}
		backend = sim
	} else {
		client, err := ethclient.DialContext(ctx, profile.Url)
		if err != nil {
			ctx.WithField("err", err).Error("ethclient.DialContext failed")
			return nil, err
		}
		backend = client
		if profile.MaxConcurrency > 0 {
			backend = ethereum.NewThrottledClient(client, profile.MaxConcurrency)
		}
	}

	chainId, err := backend.ChainID(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("backend.ChainID failed")
		backend.Close()
		return nil, err
	}
	if profile.ChainId != 0 && chainId.Int64() != profile.ChainId {
		backend.Close()
		err := fmt.Errorf("network %s reports chain id %s, configured %d: %w", profile.Name, chainId, profile.ChainId, domain.ErrBadParamInput)
		ctx.WithField("err", err).Error("chain id mismatch")
		return nil, err
	}

	ctx.WithFields(log.Fields{"chainId": chainId.String(), "local": profile.IsLocal()}).Info("network connected")
	return NewClient(backend, profile, chainId, cfg), nil
}
