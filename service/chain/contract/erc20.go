package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

type Erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc20(chainService chain.Client) *Erc20 {
	return &Erc20{
		chainService: chainService,
		abi:          baseabi.ERC20ABI,
	}
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, token, owner common.Address) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, token, e.abi, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Decimals(ctx bCtx.Ctx, token common.Address) (uint8, error) {
	unpacked, err := e.chainService.Call(ctx, token, e.abi, "decimals")
	if err != nil {
		return 0, err
	}
	return unpacked[0].(uint8), nil
}
