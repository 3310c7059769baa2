package usecase

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/viney-shih/goroutines"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/chain/contract"
)

const (
	defaultBatchConcurrency = 8
	multicallChunk          = 200
	// MaxHoldings bounds the tokens enumerated for a single owner.
	MaxHoldings = 10000
)

type UsecaseCfg struct {
	Chain chain.Client
	// Artifacts is optional: the RWAT artifact ABI, when found, extends the embedded one.
	Artifacts        artifact.Repository
	BatchConcurrency int
}

type impl struct {
	chain            chain.Client
	artifacts        artifact.Repository
	batchConcurrency int

	abiOnce sync.Once
	abi     *ethabi.ABI
}

func New(cfg *UsecaseCfg) rwat.UseCase {
	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &impl{
		chain:            cfg.Chain,
		artifacts:        cfg.Artifacts,
		batchConcurrency: concurrency,
	}
}

func (im *impl) contract(ctx bCtx.Ctx, addr domain.Address) *contract.RWAT {
	im.abiOnce.Do(func() {
		if im.artifacts == nil {
			return
		}
		a, err := im.artifacts.FindByName(ctx, rwat.ContractName)
		if err != nil {
			if !errors.Is(err, domain.ErrArtifactNotFound) {
				ctx.WithField("err", err).Warn("artifacts.FindByName failed, using embedded abi")
			}
			return
		}
		parsed, err := a.ABI()
		if err != nil {
			ctx.WithField("err", err).Warn("artifact.ABI failed, using embedded abi")
			return
		}
		merged := baseabi.Merge(baseabi.RWATABI, parsed)
		im.abi = &merged
	})
	c := contract.NewRWAT(im.chain, addr.ToCommon(), im.abi)
	im.chain.Label(c.Address(), rwat.ContractName)
	return c
}

func (im *impl) GrantAdmin(ctx bCtx.Ctx, signer *bind.TransactOpts, addr, account domain.Address) error {
	ctx = bCtx.WithFields(ctx, log.Fields{"contract": addr, "account": account})
	c := im.contract(ctx, addr)
	role, err := c.AdminRole(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("rwat.AdminRole failed")
		return err
	}
	if _, err := c.GrantRole(ctx, signer, role, account.ToCommon()); err != nil {
		ctx.WithField("err", err).Error("rwat.GrantRole failed")
		return err
	}
	return nil
}

func (im *impl) IsAdmin(ctx bCtx.Ctx, addr, account domain.Address) (bool, error) {
	c := im.contract(ctx, addr)
	role, err := c.AdminRole(ctx)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr}).Error("rwat.AdminRole failed")
		return false, err
	}
	return c.HasRole(ctx, role, account.ToCommon())
}

func (im *impl) CreateAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, addr domain.Address, assetId, assetCap *big.Int, token domain.Address) error {
	if _, err := im.contract(ctx, addr).CreateAsset(ctx, signer, assetId, assetCap, token.ToCommon()); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "assetId": assetId}).Error("rwat.CreateAsset failed")
		return err
	}
	return nil
}

func (im *impl) MintAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, addr domain.Address, assetId, amount *big.Int) ([]*big.Int, error) {
	c := im.contract(ctx, addr)
	receipt, err := c.MintAsset(ctx, signer, assetId, amount)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "assetId": assetId}).Error("rwat.MintAsset failed")
		return nil, err
	}
	return c.TransferIds(receipt), nil
}

func (im *impl) TotalMinted(ctx bCtx.Ctx, addr domain.Address, assetId *big.Int) (*big.Int, error) {
	res, err := im.contract(ctx, addr).GetTotalMinted(ctx, assetId)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "assetId": assetId}).Error("rwat.GetTotalMinted failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Whitelist(ctx bCtx.Ctx, signer *bind.TransactOpts, addr domain.Address, accounts []domain.Address, status bool) error {
	addrs := make([]common.Address, len(accounts))
	for i, a := range accounts {
		addrs[i] = a.ToCommon()
	}
	if _, err := im.contract(ctx, addr).SetWhitelisted(ctx, signer, addrs, status); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr}).Error("rwat.SetWhitelisted failed")
		return err
	}
	return nil
}

func (im *impl) SendShares(ctx bCtx.Ctx, signer *bind.TransactOpts, addr domain.Address, assetId *big.Int, to domain.Address, amount *big.Int, tokenIds []*big.Int) error {
	if _, err := im.contract(ctx, addr).SendSharesToUser(ctx, signer, assetId, to.ToCommon(), amount, tokenIds); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "to": to}).Error("rwat.SendSharesToUser failed")
		return err
	}
	return nil
}

func (im *impl) OwnerOf(ctx bCtx.Ctx, addr domain.Address, tokenId *big.Int) (domain.Address, error) {
	owner, err := im.contract(ctx, addr).OwnerOf(ctx, tokenId)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "tokenId": tokenId}).Error("rwat.OwnerOf failed")
		return "", err
	}
	return domain.AddressOf(owner), nil
}

func (im *impl) AllNFTsOfOwner(ctx bCtx.Ctx, addr, owner domain.Address) ([]*big.Int, error) {
	ids, err := im.contract(ctx, addr).GetAllNFTsOfOwner(ctx, owner.ToCommon())
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": addr, "owner": owner}).Error("rwat.GetAllNFTsOfOwner failed")
		return nil, err
	}
	return ids, nil
}

func (im *impl) Holdings(ctx bCtx.Ctx, addr, owner domain.Address) (*rwat.Holdings, error) {
	ctx = bCtx.WithFields(ctx, log.Fields{"contract": addr, "owner": owner})
	c := im.contract(ctx, addr)
	balance, err := c.BalanceOf(ctx, owner.ToCommon())
	if err != nil {
		ctx.WithField("err", err).Error("rwat.BalanceOf failed")
		return nil, err
	}
	if !balance.IsInt64() || balance.Int64() > MaxHoldings {
		return nil, fmt.Errorf("balance %s exceeds %d: %w", balance, MaxHoldings, domain.ErrBadParamInput)
	}
	n := int(balance.Int64())

	var ids []*big.Int
	if multicall := im.chain.Network().Multicall; multicall != "" {
		ids, err = im.holdingsByMulticall(ctx, c, common.HexToAddress(multicall), owner.ToCommon(), n)
	} else {
		ids, err = im.holdingsByBatch(ctx, c, owner.ToCommon(), n)
	}
	if err != nil {
		return nil, err
	}

	res := &rwat.Holdings{
		Contract: addr,
		Owner:    owner,
		Balance:  balance.String(),
		TokenIds: make([]string, len(ids)),
	}
	for i, id := range ids {
		res.TokenIds[i] = id.String()
	}
	return res, nil
}

func (im *impl) holdingsByMulticall(ctx bCtx.Ctx, c *contract.RWAT, multicall, owner common.Address, n int) ([]*big.Int, error) {
	m := contract.NewMulticall(im.chain, multicall)
	ids := make([]*big.Int, 0, n)
	for start := 0; start < n; start += multicallChunk {
		end := start + multicallChunk
		if end > n {
			end = n
		}
		calls := make([]contract.Call, 0, end-start)
		for i := start; i < end; i++ {
			data, err := c.PackTokenOfOwnerByIndex(owner, big.NewInt(int64(i)))
			if err != nil {
				ctx.WithField("err", err).Error("PackTokenOfOwnerByIndex failed")
				return nil, err
			}
			calls = append(calls, contract.Call{Target: c.Address(), CallData: data})
		}
		_, results, err := m.Aggregate(ctx, calls)
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "multicall": multicall.Hex()}).Error("multicall.Aggregate failed")
			return nil, err
		}
		if len(results) != len(calls) {
			return nil, fmt.Errorf("multicall returned %d results for %d calls: %w", len(results), len(calls), domain.ErrInternalServerError)
		}
		for _, r := range results {
			id, err := c.UnpackTokenOfOwnerByIndex(r)
			if err != nil {
				ctx.WithField("err", err).Error("UnpackTokenOfOwnerByIndex failed")
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type indexed struct {
	index int
	id    *big.Int
}

func (im *impl) holdingsByBatch(ctx bCtx.Ctx, c *contract.RWAT, owner common.Address, n int) ([]*big.Int, error) {
	if n == 0 {
		return []*big.Int{}, nil
	}
	b := goroutines.NewBatch(im.batchConcurrency, goroutines.WithBatchSize(n))
	defer b.Close()
	for i := 0; i < n; i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			id, err := c.TokenOfOwnerByIndex(ctx, owner, big.NewInt(int64(idx)))
			if err != nil {
				return nil, err
			}
			return indexed{idx, id}, nil
		})
	}
	b.QueueComplete()

	ids := make([]*big.Int, n)
	var firstErr error
	for ret := range b.Results() {
		if ret.Error() != nil {
			if firstErr == nil {
				firstErr = ret.Error()
			}
			continue
		}
		v := ret.Value().(indexed)
		ids[v.index] = v.id
	}
	if firstErr != nil {
		ctx.WithField("err", firstErr).Error("rwat.TokenOfOwnerByIndex failed")
		return nil, firstErr
	}
	return ids, nil
}
