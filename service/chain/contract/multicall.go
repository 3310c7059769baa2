package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

// Call is one entry of Multicall.aggregate.
type Call struct {
	Target   common.Address `json:"target"`
	CallData []byte         `json:"callData"`
}

type Multicall struct {
	chainService chain.Client
	address      common.Address
	abi          ethabi.ABI
}

func NewMulticall(chainService chain.Client, address common.Address) *Multicall {
	return &Multicall{
		chainService: chainService,
		address:      address,
		abi:          baseabi.MulticallABI,
	}
}

// Aggregate runs calls in a single eth_call. Any failing call fails the batch.
func (m *Multicall) Aggregate(ctx bCtx.Ctx, calls []Call) (*big.Int, [][]byte, error) {
	unpacked, err := m.chainService.Call(ctx, m.address, m.abi, "aggregate", calls)
	if err != nil {
		return nil, nil, err
	}
	return unpacked[0].(*big.Int), unpacked[1].([][]byte), nil
}
