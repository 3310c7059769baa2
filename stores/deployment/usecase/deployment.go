package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	"github.com/x-xyz/rwat-deployer/base/abiarg"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/chain/contract"
)

var (
	timeNow = time.Now
)

// ProxyArtifacts names the artifacts behind each proxy kind.
type ProxyArtifacts struct {
	ERC1967     string
	Transparent string
	Admin       string
}

type UsecaseCfg struct {
	Chain       chain.Client
	Artifacts   artifact.Repository
	Repo        deployment.Repo
	Proxy       ProxyArtifacts
	DefaultKind deployment.Kind
	// SignerIndex picks the deploying account, 0 by default.
	SignerIndex int
}

type impl struct {
	chain       chain.Client
	artifacts   artifact.Repository
	repo        deployment.Repo
	proxyArt    ProxyArtifacts
	defaultKind deployment.Kind
	signerIdx   int
	proxy       *contract.Proxy
}

func New(cfg *UsecaseCfg) deployment.UseCase {
	kind := cfg.DefaultKind
	if kind == "" {
		kind = deployment.KindTransparent
	}
	return &impl{
		chain:       cfg.Chain,
		artifacts:   cfg.Artifacts,
		repo:        cfg.Repo,
		proxyArt:    cfg.Proxy,
		defaultKind: kind,
		signerIdx:   cfg.SignerIndex,
		proxy:       contract.NewProxy(cfg.Chain),
	}
}

// compiled is a resolved artifact ready to deploy.
type compiled struct {
	name string
	abi  abi.ABI
	code []byte
}

func (im *impl) load(ctx bCtx.Ctx, name string) (*compiled, error) {
	a, err := im.artifacts.FindByName(ctx, name)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": name}).Error("artifacts.FindByName failed")
		return nil, err
	}
	parsed, err := a.ABI()
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": name}).Error("artifact.ABI failed")
		return nil, err
	}
	code, err := a.Code()
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": name}).Error("artifact.Code failed")
		return nil, err
	}
	size := len(code)
	if runtime, err := a.RuntimeCode(); err == nil {
		size = len(runtime)
	}
	if err := im.chain.Network().CheckContractSize(size); err != nil {
		ctx.WithFields(log.Fields{"contract": name, "size": size}).Error("contract too large")
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &compiled{name: a.ContractName, abi: parsed, code: code}, nil
}

// withConstructor falls back to a known constructor when the artifact ABI was
// trimmed to the callable surface.
func withConstructor(c *compiled, fallback abi.ABI) {
	if len(c.abi.Constructor.Inputs) == 0 {
		c.abi.Constructor = fallback.Constructor
	}
}

func (im *impl) signer() (*bind.TransactOpts, error) {
	signers, err := im.chain.Signers()
	if err != nil {
		return nil, err
	}
	if im.signerIdx >= len(signers) {
		return nil, fmt.Errorf("signer %d: %w", im.signerIdx, domain.ErrNoSigner)
	}
	return signers[im.signerIdx], nil
}

func (im *impl) kind(k deployment.Kind) (deployment.Kind, error) {
	if k == "" {
		k = im.defaultKind
	}
	return deployment.ParseKind(string(k))
}

// initData encodes initializer(args); empty when there is no initializer.
func initData(c *compiled, initializer string, args []string) ([]byte, error) {
	if initializer == "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: args given without an initializer", domain.ErrBadParamInput)
		}
		return []byte{}, nil
	}
	method, ok := c.abi.Methods[initializer]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", domain.ErrBadParamInput, c.name, initializer)
	}
	values, err := abiarg.Parse(method.Inputs, args)
	if err != nil {
		return nil, err
	}
	return c.abi.Pack(initializer, values...)
}

func (im *impl) DeployProxy(ctx bCtx.Ctx, req deployment.Request) (*deployment.Deployment, error) {
	kind, err := im.kind(req.Kind)
	if err != nil {
		return nil, err
	}
	if !kind.IsProxy() {
		return im.Deploy(ctx, req)
	}
	ctx = bCtx.WithFields(ctx, log.Fields{"network": im.chain.Network().Name, "contract": req.Contract, "kind": kind})

	logic, err := im.load(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	data, err := initData(logic, req.Initializer, req.Args)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "initializer": req.Initializer}).Error("initData failed")
		return nil, err
	}

	// resolve every proxy artifact before the first transaction
	proxy, err := im.proxyContract(ctx, kind)
	if err != nil {
		return nil, err
	}
	var (
		adminAddr common.Address
		admin     *compiled
	)
	if kind == deployment.KindTransparent {
		if adminAddr, err = im.recordedAdmin(ctx); err != nil {
			return nil, err
		}
		if adminAddr == (common.Address{}) {
			if admin, err = im.load(ctx, im.proxyArt.Admin); err != nil {
				return nil, err
			}
		}
	}

	signer, err := im.signer()
	if err != nil {
		return nil, err
	}

	implAddr, implReceipt, err := im.chain.Deploy(ctx, signer, logic.name, logic.abi, logic.code)
	if err != nil {
		ctx.WithField("err", err).Error("deploy implementation failed")
		return nil, err
	}

	args := []interface{}{implAddr, data}
	if kind == deployment.KindTransparent {
		if admin != nil {
			if adminAddr, err = im.deployAdmin(ctx, signer, admin); err != nil {
				return nil, err
			}
		}
		args = []interface{}{implAddr, adminAddr, data}
	}
	proxyAddr, proxyReceipt, err := im.chain.Deploy(ctx, signer, logic.name+"Proxy", proxy.abi, proxy.code, args...)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "proxy": proxy.name}).Error("deploy proxy failed")
		return nil, err
	}

	if err := im.checkImplementation(ctx, proxyAddr, implAddr); err != nil {
		return nil, err
	}

	d := &deployment.Deployment{
		Id:             uuid.New().String(),
		Network:        im.chain.Network().Name,
		ChainId:        domain.ChainId(im.chain.ChainId().Int64()),
		Contract:       logic.name,
		Kind:           kind,
		Proxy:          domain.AddressOf(proxyAddr),
		Implementation: domain.AddressOf(implAddr),
		Deployer:       domain.AddressOf(signer.From),
		TxHash:         domain.TxHash(proxyReceipt.TxHash.Hex()),
		InitArgs:       req.Args,
		GasUsed:        implReceipt.GasUsed + proxyReceipt.GasUsed,
		CreatedAt:      timeNow(),
	}
	if kind == deployment.KindTransparent {
		d.Admin = domain.AddressOf(adminAddr)
	}
	if err := im.record(ctx, d); err != nil {
		return nil, err
	}
	ctx.WithFields(log.Fields{"proxy": d.Proxy, "implementation": d.Implementation}).Info("proxy deployed")
	return d, nil
}

// proxyContract loads the proxy artifact of kind, falling back to the known
// constructor when the artifact ABI lacks one.
func (im *impl) proxyContract(ctx bCtx.Ctx, kind deployment.Kind) (*compiled, error) {
	name, fallback := im.proxyArt.ERC1967, baseabi.ERC1967ProxyABI
	if kind == deployment.KindTransparent {
		name, fallback = im.proxyArt.Transparent, baseabi.TransparentUpgradeableProxyABI
	}
	c, err := im.load(ctx, name)
	if err != nil {
		return nil, err
	}
	withConstructor(c, fallback)
	return c, nil
}

// recordedAdmin returns the network's recorded ProxyAdmin while it still has
// code, the zero address otherwise.
func (im *impl) recordedAdmin(ctx bCtx.Ctx) (common.Address, error) {
	name := artifact.ShortName(im.proxyArt.Admin)
	latest, err := im.repo.FindLatest(ctx, im.chain.Network().Name, name)
	if errors.Is(err, domain.ErrNotFound) {
		return common.Address{}, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("repo.FindLatest failed")
		return common.Address{}, err
	}
	addr := latest.Implementation.ToCommon()
	code, err := im.chain.CodeAt(ctx, addr)
	if err != nil {
		return common.Address{}, err
	}
	if len(code) == 0 {
		ctx.WithField("admin", latest.Implementation).Warn("recorded ProxyAdmin has no code, deploying a new one")
		return common.Address{}, nil
	}
	im.chain.Label(addr, name)
	return addr, nil
}

func (im *impl) deployAdmin(ctx bCtx.Ctx, signer *bind.TransactOpts, c *compiled) (common.Address, error) {
	addr, receipt, err := im.chain.Deploy(ctx, signer, c.name, c.abi, c.code)
	if err != nil {
		ctx.WithField("err", err).Error("deploy ProxyAdmin failed")
		return common.Address{}, err
	}
	d := &deployment.Deployment{
		Id:             uuid.New().String(),
		Network:        im.chain.Network().Name,
		ChainId:        domain.ChainId(im.chain.ChainId().Int64()),
		Contract:       c.name,
		Kind:           deployment.KindNone,
		Implementation: domain.AddressOf(addr),
		Deployer:       domain.AddressOf(signer.From),
		TxHash:         domain.TxHash(receipt.TxHash.Hex()),
		GasUsed:        receipt.GasUsed,
		CreatedAt:      timeNow(),
	}
	if err := im.record(ctx, d); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

func (im *impl) checkImplementation(ctx bCtx.Ctx, proxy, want common.Address) error {
	got, err := im.proxy.Implementation(ctx, proxy)
	if err != nil {
		ctx.WithField("err", err).Error("proxy.Implementation failed")
		return err
	}
	if got == (common.Address{}) {
		ctx.WithField("proxy", proxy.Hex()).Warn("implementation slot is empty")
		return nil
	}
	if got != want {
		ctx.WithFields(log.Fields{"proxy": proxy.Hex(), "slot": got.Hex(), "want": want.Hex()}).Error("implementation slot mismatch")
		return fmt.Errorf("%w: slot %s, deployed %s", domain.ErrImplementationMismatch, got.Hex(), want.Hex())
	}
	return nil
}

func (im *impl) record(ctx bCtx.Ctx, d *deployment.Deployment) error {
	if err := im.repo.Insert(ctx, d); err != nil {
		ctx.WithFields(log.Fields{"err": err, "deployment": d}).Error("repo.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Deploy(ctx bCtx.Ctx, req deployment.Request) (*deployment.Deployment, error) {
	ctx = bCtx.WithFields(ctx, log.Fields{"network": im.chain.Network().Name, "contract": req.Contract})

	c, err := im.load(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	values, err := abiarg.Parse(c.abi.Constructor.Inputs, req.Args)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "args": req.Args}).Error("abiarg.Parse failed")
		return nil, err
	}
	signer, err := im.signer()
	if err != nil {
		return nil, err
	}
	addr, receipt, err := im.chain.Deploy(ctx, signer, c.name, c.abi, c.code, values...)
	if err != nil {
		ctx.WithField("err", err).Error("chain.Deploy failed")
		return nil, err
	}
	d := &deployment.Deployment{
		Id:             uuid.New().String(),
		Network:        im.chain.Network().Name,
		ChainId:        domain.ChainId(im.chain.ChainId().Int64()),
		Contract:       c.name,
		Kind:           deployment.KindNone,
		Implementation: domain.AddressOf(addr),
		Deployer:       domain.AddressOf(signer.From),
		TxHash:         domain.TxHash(receipt.TxHash.Hex()),
		InitArgs:       req.Args,
		GasUsed:        receipt.GasUsed,
		CreatedAt:      timeNow(),
	}
	if err := im.record(ctx, d); err != nil {
		return nil, err
	}
	ctx.WithField("address", d.Implementation).Info("contract deployed")
	return d, nil
}

func (im *impl) Upgrade(ctx bCtx.Ctx, proxy domain.Address, contractName string) (*deployment.Deployment, error) {
	network := im.chain.Network().Name
	ctx = bCtx.WithFields(ctx, log.Fields{"network": network, "contract": contractName, "proxy": proxy})
	proxyAddr := proxy.ToCommon()

	kind, admin, err := im.proxyKind(ctx, proxy)
	if err != nil {
		return nil, err
	}
	c, err := im.load(ctx, contractName)
	if err != nil {
		return nil, err
	}
	signer, err := im.signer()
	if err != nil {
		return nil, err
	}
	implAddr, implReceipt, err := im.chain.Deploy(ctx, signer, c.name, c.abi, c.code)
	if err != nil {
		ctx.WithField("err", err).Error("deploy implementation failed")
		return nil, err
	}

	var receipt *types.Receipt
	switch kind {
	case deployment.KindTransparent:
		receipt, err = im.proxy.Upgrade(ctx, signer, admin, proxyAddr, implAddr)
	case deployment.KindUUPS:
		receipt, err = im.proxy.UpgradeTo(ctx, signer, proxyAddr, implAddr)
	}
	if err != nil {
		ctx.WithField("err", err).Error("upgrade failed")
		return nil, err
	}
	if err := im.checkImplementation(ctx, proxyAddr, implAddr); err != nil {
		return nil, err
	}

	d := &deployment.Deployment{
		Id:             uuid.New().String(),
		Network:        network,
		ChainId:        domain.ChainId(im.chain.ChainId().Int64()),
		Contract:       c.name,
		Kind:           kind,
		Proxy:          domain.AddressOf(proxyAddr),
		Implementation: domain.AddressOf(implAddr),
		Deployer:       domain.AddressOf(signer.From),
		TxHash:         domain.TxHash(receipt.TxHash.Hex()),
		GasUsed:        implReceipt.GasUsed + receipt.GasUsed,
		CreatedAt:      timeNow(),
	}
	if kind == deployment.KindTransparent {
		d.Admin = domain.AddressOf(admin)
	}
	if err := im.record(ctx, d); err != nil {
		return nil, err
	}
	ctx.WithField("implementation", d.Implementation).Info("proxy upgraded")
	return d, nil
}

// proxyKind prefers the recorded deployment and falls back to the EIP-1967
// admin slot: a set admin means transparent.
func (im *impl) proxyKind(ctx bCtx.Ctx, proxy domain.Address) (deployment.Kind, common.Address, error) {
	records, err := im.repo.FindAll(ctx, deployment.WithNetwork(im.chain.Network().Name), deployment.WithAddress(proxy))
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return "", common.Address{}, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Proxy.Equals(proxy) && r.Kind.IsProxy() {
			return r.Kind, r.Admin.ToCommon(), nil
		}
	}

	admin, err := im.proxy.Admin(ctx, proxy.ToCommon())
	if err != nil {
		return "", common.Address{}, err
	}
	if admin != (common.Address{}) {
		return deployment.KindTransparent, admin, nil
	}
	code, err := im.chain.CodeAt(ctx, proxy.ToCommon())
	if err != nil {
		return "", common.Address{}, err
	}
	if len(code) == 0 {
		return "", common.Address{}, fmt.Errorf("%w: %s", domain.ErrNoCode, proxy)
	}
	return deployment.KindUUPS, common.Address{}, nil
}
