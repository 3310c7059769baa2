package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// ChainBackend is the node surface the deployer talks to. It is satisfied by
// go-ethereum/ethclient and by the in-process simulated chain.
type ChainBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainStateReader

	ChainID(context.Context) (*big.Int, error)
	Close()
}
