package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
)

// ThrottledClient caps the number of in-flight RPC requests. Public endpoints
// such as the BSC dataseeds rate limit aggressively.
type ThrottledClient struct {
	domain.ChainBackend
	tokens chan int
}

func NewThrottledClient(backend domain.ChainBackend, n int) *ThrottledClient {
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledClient{
		ChainBackend: backend,
		tokens:       tokens,
	}
}

// InFlight returns the number of requests holding a token.
func (c *ThrottledClient) InFlight() int {
	return cap(c.tokens) - len(c.tokens)
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.CodeAt(ctx, address, number)
}

func (c *ThrottledClient) StorageAt(ctx context.Context, address common.Address, key common.Hash, number *big.Int) ([]byte, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.StorageAt(ctx, address, key, number)
}

func (c *ThrottledClient) BalanceAt(ctx context.Context, address common.Address, number *big.Int) (*big.Int, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.BalanceAt(ctx, address, number)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.EstimateGas(ctx, msg)
}

func (c *ThrottledClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.PendingNonceAt(ctx, account)
}

func (c *ThrottledClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.SuggestGasPrice(ctx)
}

func (c *ThrottledClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.SuggestGasTipCap(ctx)
}

func (c *ThrottledClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	defer c.after(c.before(ctx))
	return c.ChainBackend.SendTransaction(ctx, tx)
}

func (c *ThrottledClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	defer c.after(c.before(ctx))
	return c.ChainBackend.TransactionReceipt(ctx, hash)
}

func (c *ThrottledClient) before(ctx context.Context) int {
	now := time.Now()
	select {
	case <-ctx.Done():
		log.Log().WithField("waited", time.Since(now)).Debug("throttle ctx done")
		return 0
	case token := <-c.tokens:
		if waited := time.Since(now); waited > time.Second {
			log.Log().WithFields(log.Fields{"token": token, "free": len(c.tokens), "waited": waited}).Debug("throttled")
		}
		return token
	}
}

func (c *ThrottledClient) after(token int) {
	if token != 0 {
		c.tokens <- token
	}
}
