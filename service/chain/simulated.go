package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/rwat-deployer/base/ethereum"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

const simulatedGasLimit = 30_000_000

// Simulated is an in-memory chain that mines a block per transaction, like
// hardhat's automine.
type Simulated struct {
	*backends.SimulatedBackend
	mu sync.Mutex
}

// NewSimulated funds each account key with network.DevBalance.
func NewSimulated(accounts []string) (*Simulated, error) {
	alloc := core.GenesisAlloc{}
	for _, k := range accounts {
		key, err := ethereum.ParsePrivateKey(k)
		if err != nil {
			return nil, err
		}
		alloc[ethereum.AddressOf(key)] = core.GenesisAccount{Balance: new(big.Int).Set(network.DevBalance)}
	}
	return &Simulated{
		SimulatedBackend: backends.NewSimulatedBackend(alloc, simulatedGasLimit),
	}, nil
}

func (s *Simulated) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	s.Commit()
	return nil
}

func (s *Simulated) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(network.LocalChainId), nil
}

func (s *Simulated) Close() {
	_ = s.SimulatedBackend.Close()
}
