package deployment

import (
	"fmt"
	"strings"
	"time"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
)

type Kind string

const (
	KindUUPS        Kind = "uups"
	KindTransparent Kind = "transparent"
	KindNone        Kind = "none"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindUUPS, KindTransparent, KindNone:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedProxyKind, s)
}

func (k Kind) IsProxy() bool {
	return k == KindUUPS || k == KindTransparent
}

// Deployment is one recorded deployment or upgrade.
type Deployment struct {
	Id             string         `json:"id" bson:"_id"`
	Network        string         `json:"network" bson:"network"`
	ChainId        domain.ChainId `json:"chainId" bson:"chainId"`
	Contract       string         `json:"contract" bson:"contract"`
	Kind           Kind           `json:"kind" bson:"kind"`
	Proxy          domain.Address `json:"proxy,omitempty" bson:"proxy,omitempty"`
	Implementation domain.Address `json:"implementation" bson:"implementation"`
	Admin          domain.Address `json:"admin,omitempty" bson:"admin,omitempty"`
	Deployer       domain.Address `json:"deployer" bson:"deployer"`
	TxHash         domain.TxHash  `json:"txHash" bson:"txHash"`
	InitArgs       []string       `json:"initArgs,omitempty" bson:"initArgs,omitempty"`
	GasUsed        uint64         `json:"gasUsed" bson:"gasUsed"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}

// Address is what callers interact with: the proxy when there is one.
func (d *Deployment) Address() domain.Address {
	if !d.Proxy.IsEmpty() {
		return d.Proxy
	}
	return d.Implementation
}

// Request describes a deployment. Initializer is only used for proxies;
// for plain deployments Args go to the constructor.
type Request struct {
	Contract    string
	Args        []string
	Initializer string
	Kind        Kind
}

type FindAllOptions struct {
	Network  *string         `bson:"network"`
	Contract *string         `bson:"contract"`
	Address  *domain.Address `bson:"-"`
	Limit    *int32          `bson:"-"`
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithNetwork(network string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Network = &network
		return nil
	}
}

func WithContract(contract string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

// WithAddress matches the proxy or the implementation address.
func WithAddress(address domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		a := address.ToLower()
		options.Address = &a
		return nil
	}
}

func WithLimit(limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Limit = &limit
		return nil
	}
}

// Repo stores deployment records, oldest first.
type Repo interface {
	Insert(ctx bCtx.Ctx, d *Deployment) error
	FindAll(ctx bCtx.Ctx, opts ...FindAllOptionsFunc) ([]Deployment, error)
	// FindLatest returns domain.ErrNotFound when the contract was never deployed on network.
	FindLatest(ctx bCtx.Ctx, network, contract string) (*Deployment, error)
}

// UseCase deploys onto a single network.
type UseCase interface {
	DeployProxy(ctx bCtx.Ctx, req Request) (*Deployment, error)
	Deploy(ctx bCtx.Ctx, req Request) (*Deployment, error)
	Upgrade(ctx bCtx.Ctx, proxy domain.Address, contract string) (*Deployment, error)
}
