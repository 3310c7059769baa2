package chain

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/rwat-deployer/base/backoff"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	bEthereum "github.com/x-xyz/rwat-deployer/base/ethereum"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/base/metrics"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

// MethodDeploy labels contract creations in TxInfo.
const MethodDeploy = "deployment"

type ClientCfg struct {
	// Timeout bounds WaitMined; zero leaves it to the caller's context.
	Timeout      time.Duration
	PollInterval time.Duration
	PollLimit    time.Duration
}

// TxInfo describes a confirmed transaction.
type TxInfo struct {
	Contract string
	Method   string
	To       common.Address
	TxHash   common.Hash
	GasUsed  uint64
}

type TxObserver func(ctx bCtx.Ctx, info TxInfo)

// Client is a single network. Every write waits for its receipt before returning.
type Client interface {
	Network() network.Profile
	ChainId() *big.Int
	Backend() domain.ChainBackend
	Signers() ([]*bind.TransactOpts, error)

	// Label names an address in logs and TxInfo.
	Label(addr common.Address, name string)
	Observe(fn TxObserver)

	Call(ctx bCtx.Ctx, addr common.Address, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
	Transact(ctx bCtx.Ctx, signer *bind.TransactOpts, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (*types.Receipt, error)
	Deploy(ctx bCtx.Ctx, signer *bind.TransactOpts, name string, _abi abi.ABI, bytecode []byte, params ...interface{}) (common.Address, *types.Receipt, error)
	WaitMined(ctx bCtx.Ctx, tx *types.Transaction) (*types.Receipt, error)

	CodeAt(ctx bCtx.Ctx, addr common.Address) ([]byte, error)
	StorageAt(ctx bCtx.Ctx, addr common.Address, slot common.Hash) ([]byte, error)
	BalanceAt(ctx bCtx.Ctx, addr common.Address) (*big.Int, error)

	Close()
}

type clientImpl struct {
	backend domain.ChainBackend
	profile network.Profile
	chainId *big.Int
	cfg     ClientCfg
	met     metrics.Service

	signersOnce sync.Once
	signers     []*bind.TransactOpts
	signersErr  error

	mu        sync.RWMutex
	labels    map[common.Address]string
	observers []TxObserver
}

// NewClient wraps an already connected backend.
func NewClient(backend domain.ChainBackend, profile network.Profile, chainId *big.Int, cfg ClientCfg) Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &clientImpl{
		backend: backend,
		profile: profile,
		chainId: chainId,
		cfg:     cfg,
		met:     metrics.New("chain"),
		labels:  map[common.Address]string{},
	}
}

func (c *clientImpl) Network() network.Profile {
	return c.profile
}

func (c *clientImpl) ChainId() *big.Int {
	return new(big.Int).Set(c.chainId)
}

func (c *clientImpl) Backend() domain.ChainBackend {
	return c.backend
}

func (c *clientImpl) Close() {
	c.backend.Close()
}

// Signers returns one transactor per configured account, in order.
func (c *clientImpl) Signers() ([]*bind.TransactOpts, error) {
	c.signersOnce.Do(func() {
		for i, k := range c.profile.Accounts {
			key, err := bEthereum.ParsePrivateKey(k)
			if err != nil {
				c.signersErr = fmt.Errorf("account %d of %s: %w", i, c.profile.Name, err)
				return
			}
			opts, err := bind.NewKeyedTransactorWithChainID(key, c.chainId)
			if err != nil {
				c.signersErr = err
				return
			}
			c.signers = append(c.signers, opts)
		}
	})
	if c.signersErr != nil {
		return nil, c.signersErr
	}
	if len(c.signers) == 0 {
		return nil, fmt.Errorf("network %s: %w", c.profile.Name, domain.ErrNoSigner)
	}
	return c.signers, nil
}

func (c *clientImpl) Label(addr common.Address, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[addr] = name
}

func (c *clientImpl) label(addr common.Address) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if l, ok := c.labels[addr]; ok {
		return l
	}
	return addr.Hex()
}

func (c *clientImpl) Observe(fn TxObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *clientImpl) notify(ctx bCtx.Ctx, info TxInfo) {
	c.met.BumpHistogram("tx.gasUsed", float64(info.GasUsed), "network", c.profile.Name, "method", info.Method)
	c.mu.RLock()
	observers := append([]TxObserver{}, c.observers...)
	c.mu.RUnlock()
	for _, fn := range observers {
		fn(ctx, info)
	}
}

func (c *clientImpl) Call(ctx bCtx.Ctx, addr common.Address, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := goethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": c.label(addr), "method": method}).Error("backend.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": c.label(addr), "method": method}).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) opts(ctx bCtx.Ctx, signer *bind.TransactOpts) *bind.TransactOpts {
	opts := *signer
	opts.Context = ctx
	return &opts
}

func (c *clientImpl) Transact(ctx bCtx.Ctx, signer *bind.TransactOpts, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (*types.Receipt, error) {
	fields := log.Fields{
		"network":  c.profile.Name,
		"contract": c.label(addr),
		"method":   method,
		"from":     signer.From.Hex(),
	}
	bound := bind.NewBoundContract(addr, _abi, c.backend, c.backend, c.backend)
	tx, err := bound.Transact(c.opts(ctx, signer), method, params...)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("bound.Transact failed")
		return nil, err
	}
	c.met.BumpSum("tx.sent", 1, "network", c.profile.Name)
	fields["txHash"] = tx.Hash().Hex()
	ctx.WithFields(fields).Debug("tx sent")

	receipt, err := c.WaitMined(ctx, tx)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("WaitMined failed")
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		err := fmt.Errorf("%s.%s tx %s: %w", c.label(addr), method, tx.Hash().Hex(), domain.ErrTxReverted)
		fields["err"] = err
		ctx.WithFields(fields).Error("tx reverted")
		return receipt, err
	}

	c.notify(ctx, TxInfo{
		Contract: c.label(addr),
		Method:   method,
		To:       addr,
		TxHash:   tx.Hash(),
		GasUsed:  receipt.GasUsed,
	})
	return receipt, nil
}

func (c *clientImpl) Deploy(ctx bCtx.Ctx, signer *bind.TransactOpts, name string, _abi abi.ABI, bytecode []byte, params ...interface{}) (common.Address, *types.Receipt, error) {
	defer c.met.BumpTime("deploy.time", "network", c.profile.Name).End()
	fields := log.Fields{
		"network":  c.profile.Name,
		"contract": name,
		"from":     signer.From.Hex(),
	}

	addr, tx, _, err := bind.DeployContract(c.opts(ctx, signer), _abi, bytecode, c.backend, params...)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("bind.DeployContract failed")
		return common.Address{}, nil, err
	}
	c.met.BumpSum("tx.sent", 1, "network", c.profile.Name)
	c.Label(addr, name)
	fields["txHash"] = tx.Hash().Hex()
	fields["address"] = addr.Hex()
	ctx.WithFields(fields).Debug("deployment sent")

	receipt, err := c.WaitMined(ctx, tx)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("WaitMined failed")
		return common.Address{}, nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		err := fmt.Errorf("deploy %s tx %s: %w", name, tx.Hash().Hex(), domain.ErrTxReverted)
		fields["err"] = err
		ctx.WithFields(fields).Error("deployment reverted")
		return common.Address{}, receipt, err
	}

	code, err := c.CodeAt(ctx, addr)
	if err != nil {
		return common.Address{}, receipt, err
	}
	if len(code) == 0 {
		err := fmt.Errorf("deploy %s at %s: %w", name, addr.Hex(), domain.ErrNoCode)
		fields["err"] = err
		ctx.WithFields(fields).Error("deployment has no code")
		return common.Address{}, receipt, err
	}

	c.notify(ctx, TxInfo{
		Contract: name,
		Method:   MethodDeploy,
		To:       addr,
		TxHash:   tx.Hash(),
		GasUsed:  receipt.GasUsed,
	})
	ctx.WithFields(fields).Info("contract deployed")
	return addr, receipt, nil
}

// WaitMined polls for the receipt with exponential backoff until it shows up
// or the context (bounded by ClientCfg.Timeout) is done.
func (c *clientImpl) WaitMined(ctx bCtx.Ctx, tx *types.Transaction) (*types.Receipt, error) {
	if c.cfg.Timeout > 0 {
		var cancel func()
		ctx, cancel = bCtx.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var receipt *types.Receipt
	err := backoff.NewExponential(c.cfg.PollInterval, c.cfg.PollLimit).Poll(ctx, func() (bool, error) {
		r, err := c.backend.TransactionReceipt(ctx, tx.Hash())
		if err == nil && r != nil {
			receipt = r
			return true, nil
		}
		if err != nil && !errors.Is(err, goethereum.NotFound) {
			ctx.WithFields(log.Fields{"err": err, "txHash": tx.Hash().Hex()}).Warn("backend.TransactionReceipt failed")
		}
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}

func (c *clientImpl) CodeAt(ctx bCtx.Ctx, addr common.Address) ([]byte, error) {
	code, err := c.backend.CodeAt(ctx, addr, nil)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": addr.Hex()}).Error("backend.CodeAt failed")
	}
	return code, err
}

func (c *clientImpl) StorageAt(ctx bCtx.Ctx, addr common.Address, slot common.Hash) ([]byte, error) {
	val, err := c.backend.StorageAt(ctx, addr, slot, nil)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": addr.Hex(), "slot": slot.Hex()}).Error("backend.StorageAt failed")
	}
	return val, err
}

func (c *clientImpl) BalanceAt(ctx bCtx.Ctx, addr common.Address) (*big.Int, error) {
	bal, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": addr.Hex()}).Error("backend.BalanceAt failed")
	}
	return bal, err
}
