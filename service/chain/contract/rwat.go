package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

// RWAT is a deployed RWAT proxy.
type RWAT struct {
	chainService chain.Client
	address      common.Address
	abi          ethabi.ABI
}

// NewRWAT binds address with the embedded ABI, or with override when the
// compiled artifact is available.
func NewRWAT(chainService chain.Client, address common.Address, override *ethabi.ABI) *RWAT {
	a := baseabi.RWATABI
	if override != nil {
		a = *override
	}
	return &RWAT{
		chainService: chainService,
		address:      address,
		abi:          a,
	}
}

func (r *RWAT) Address() common.Address {
	return r.address
}

func (r *RWAT) AdminRole(ctx bCtx.Ctx) ([32]byte, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "ADMIN")
	if err != nil {
		return [32]byte{}, err
	}
	return unpacked[0].([32]byte), nil
}

func (r *RWAT) GrantRole(ctx bCtx.Ctx, signer *bind.TransactOpts, role [32]byte, account common.Address) (*types.Receipt, error) {
	return r.chainService.Transact(ctx, signer, r.address, r.abi, "grantRole", role, account)
}

func (r *RWAT) HasRole(ctx bCtx.Ctx, role [32]byte, account common.Address) (bool, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "hasRole", role, account)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (r *RWAT) CreateAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, assetId, assetCap *big.Int, token common.Address) (*types.Receipt, error) {
	return r.chainService.Transact(ctx, signer, r.address, r.abi, "createAsset", assetId, assetCap, token)
}

func (r *RWAT) MintAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, assetId, amount *big.Int) (*types.Receipt, error) {
	return r.chainService.Transact(ctx, signer, r.address, r.abi, "mintAsset", assetId, amount)
}

func (r *RWAT) GetTotalMinted(ctx bCtx.Ctx, assetId *big.Int) (*big.Int, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "getTotalMinted", assetId)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (r *RWAT) SetWhitelisted(ctx bCtx.Ctx, signer *bind.TransactOpts, accounts []common.Address, status bool) (*types.Receipt, error) {
	return r.chainService.Transact(ctx, signer, r.address, r.abi, "setWhitelisted", accounts, status)
}

func (r *RWAT) SendSharesToUser(ctx bCtx.Ctx, signer *bind.TransactOpts, assetId *big.Int, to common.Address, amount *big.Int, tokenIds []*big.Int) (*types.Receipt, error) {
	return r.chainService.Transact(ctx, signer, r.address, r.abi, "sendSharesToUser", assetId, to, amount, tokenIds)
}

func (r *RWAT) BalanceOf(ctx bCtx.Ctx, owner common.Address) (*big.Int, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (r *RWAT) TokenOfOwnerByIndex(ctx bCtx.Ctx, owner common.Address, index *big.Int) (*big.Int, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "tokenOfOwnerByIndex", owner, index)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (r *RWAT) OwnerOf(ctx bCtx.Ctx, tokenId *big.Int) (common.Address, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return unpacked[0].(common.Address), nil
}

func (r *RWAT) GetAllNFTsOfOwner(ctx bCtx.Ctx, owner common.Address) ([]*big.Int, error) {
	unpacked, err := r.chainService.Call(ctx, r.address, r.abi, "getAllNFTsOfOwner", owner)
	if err != nil {
		return nil, err
	}
	return unpacked[0].([]*big.Int), nil
}

// PackTokenOfOwnerByIndex is the calldata for a Multicall batch.
func (r *RWAT) PackTokenOfOwnerByIndex(owner common.Address, index *big.Int) ([]byte, error) {
	return r.abi.Pack("tokenOfOwnerByIndex", owner, index)
}

func (r *RWAT) UnpackTokenOfOwnerByIndex(data []byte) (*big.Int, error) {
	unpacked, err := r.abi.Unpack("tokenOfOwnerByIndex", data)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

// TransferIds returns the token ids of RWAT Transfer events in receipt, in log order.
func (r *RWAT) TransferIds(receipt *types.Receipt) []*big.Int {
	return ERC721TransferIds(r.abi, r.address, receipt)
}

// ERC721TransferIds extracts tokenId from every Transfer(address,address,uint256)
// log emitted by emitter.
func ERC721TransferIds(a ethabi.ABI, emitter common.Address, receipt *types.Receipt) []*big.Int {
	ev, ok := a.Events["Transfer"]
	if !ok || receipt == nil {
		return nil
	}
	ids := []*big.Int{}
	for _, l := range receipt.Logs {
		// ERC20 Transfer shares the topic but has only 3 topics
		if l.Address != emitter || len(l.Topics) != 4 || l.Topics[0] != ev.ID {
			continue
		}
		ids = append(ids, l.Topics[3].Big())
	}
	return ids
}
