package rwat

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
)

// CNR is the fourth initializer argument of every RWAT deployment.
const CNR = domain.Address("0x0cadb0d9e410072325d2acc00aab99eb795a8c86")

const (
	ContractName  = "RWAT"
	TestTokenName = "TestToken"
	Initializer   = "initialize"
)

// InitArgs are the initializer arguments in call order.
func InitArgs(owner domain.Address, name, symbol string, cnr domain.Address) []string {
	return []string{string(owner), name, symbol, string(cnr)}
}

// Holdings lists the tokens of Owner in tokenOfOwnerByIndex order.
type Holdings struct {
	Contract domain.Address `json:"contract"`
	Owner    domain.Address `json:"owner"`
	Balance  string         `json:"balance"`
	TokenIds []string       `json:"tokenIds"`
}

// UseCase operates RWAT contracts on one network. Writes wait for their
// receipt before returning.
type UseCase interface {
	GrantAdmin(ctx bCtx.Ctx, signer *bind.TransactOpts, contract, account domain.Address) error
	IsAdmin(ctx bCtx.Ctx, contract, account domain.Address) (bool, error)
	CreateAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, contract domain.Address, assetId, assetCap *big.Int, token domain.Address) error
	// MintAsset returns the token ids minted by the transaction.
	MintAsset(ctx bCtx.Ctx, signer *bind.TransactOpts, contract domain.Address, assetId, amount *big.Int) ([]*big.Int, error)
	TotalMinted(ctx bCtx.Ctx, contract domain.Address, assetId *big.Int) (*big.Int, error)
	Whitelist(ctx bCtx.Ctx, signer *bind.TransactOpts, contract domain.Address, accounts []domain.Address, status bool) error
	SendShares(ctx bCtx.Ctx, signer *bind.TransactOpts, contract domain.Address, assetId *big.Int, to domain.Address, amount *big.Int, tokenIds []*big.Int) error
	OwnerOf(ctx bCtx.Ctx, contract domain.Address, tokenId *big.Int) (domain.Address, error)
	Holdings(ctx bCtx.Ctx, contract, owner domain.Address) (*Holdings, error)
	AllNFTsOfOwner(ctx bCtx.Ctx, contract, owner domain.Address) ([]*big.Int, error)
}

// Resolver hands out the UseCase of a named network.
type Resolver interface {
	UseCase(ctx bCtx.Ctx, network string) (UseCase, error)
	Close()
}
