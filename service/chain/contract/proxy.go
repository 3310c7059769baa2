package contract

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

// Proxy reads and moves EIP-1967 proxies.
type Proxy struct {
	chainService chain.Client
}

func NewProxy(chainService chain.Client) *Proxy {
	return &Proxy{chainService: chainService}
}

// Implementation reads the implementation slot; the zero address means unset.
func (p *Proxy) Implementation(ctx bCtx.Ctx, proxy common.Address) (common.Address, error) {
	return p.slotAddress(ctx, proxy, baseabi.ImplementationSlot)
}

func (p *Proxy) Admin(ctx bCtx.Ctx, proxy common.Address) (common.Address, error) {
	return p.slotAddress(ctx, proxy, baseabi.AdminSlot)
}

func (p *Proxy) slotAddress(ctx bCtx.Ctx, proxy common.Address, slot common.Hash) (common.Address, error) {
	val, err := p.chainService.StorageAt(ctx, proxy, slot)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(val), nil
}

// UpgradeTo calls upgradeTo on a UUPS proxy.
func (p *Proxy) UpgradeTo(ctx bCtx.Ctx, signer *bind.TransactOpts, proxy, impl common.Address) (*types.Receipt, error) {
	return p.chainService.Transact(ctx, signer, proxy, baseabi.UUPSUpgradeableABI, "upgradeTo", impl)
}

// Upgrade goes through the ProxyAdmin of a transparent proxy.
func (p *Proxy) Upgrade(ctx bCtx.Ctx, signer *bind.TransactOpts, admin, proxy, impl common.Address) (*types.Receipt, error) {
	return p.chainService.Transact(ctx, signer, admin, baseabi.ProxyAdminABI, "upgrade", proxy, impl)
}
