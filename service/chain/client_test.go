package chain

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/suite"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	bEthereum "github.com/x-xyz/rwat-deployer/base/ethereum"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact/artifacttest"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

// reverts every call: PUSH1 0 PUSH1 0 REVERT
const revertCode = "0x600580600b6000396000f360006000fd"

var emptyABI = abi.ABI{}

type clientSuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	client Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(clientSuite))
}

func localProfile() network.Profile {
	return network.Profile{Name: network.LocalName, Accounts: network.DevAccounts}
}

func (s *clientSuite) SetupTest() {
	s.ctx = bCtx.Background()
	c, err := Dial(s.ctx, localProfile(), ClientCfg{Timeout: 5 * time.Second, PollInterval: 5 * time.Millisecond})
	s.Require().NoError(err)
	s.client = c
}

func (s *clientSuite) TearDownTest() {
	s.client.Close()
}

func (s *clientSuite) deploy(code string) common.Address {
	signers, err := s.client.Signers()
	s.Require().NoError(err)
	addr, _, err := s.client.Deploy(s.ctx, signers[0], "Test", emptyABI, hexutil.MustDecode(code))
	s.Require().NoError(err)
	return addr
}

func (s *clientSuite) TestSigners() {
	signers, err := s.client.Signers()
	s.Require().NoError(err)
	s.Len(signers, len(network.DevAccounts))
	s.Equal(common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), signers[0].From)
	s.Equal(common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), signers[1].From)
	s.Equal(common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"), signers[2].From)

	bal, err := s.client.BalanceAt(s.ctx, signers[2].From)
	s.NoError(err)
	s.Equal(network.DevBalance, bal)
	s.Equal(int64(network.LocalChainId), s.client.ChainId().Int64())
}

func (s *clientSuite) TestNoSigner() {
	c := NewClient(s.client.Backend(), network.Profile{Name: "empty"}, big.NewInt(network.LocalChainId), ClientCfg{})
	_, err := c.Signers()
	s.ErrorIs(err, domain.ErrNoSigner)
}

func (s *clientSuite) TestDeploy() {
	var infos []TxInfo
	s.client.Observe(func(ctx bCtx.Ctx, info TxInfo) {
		infos = append(infos, info)
	})

	addr := s.deploy(artifacttest.StopCode)
	code, err := s.client.CodeAt(s.ctx, addr)
	s.NoError(err)
	s.Equal([]byte{0x00}, code)

	s.Require().Len(infos, 1)
	s.Equal("Test", infos[0].Contract)
	s.Equal(MethodDeploy, infos[0].Method)
	s.Equal(addr, infos[0].To)
	s.NotZero(infos[0].GasUsed)
}

func (s *clientSuite) TestDeployNoCode() {
	signers, err := s.client.Signers()
	s.Require().NoError(err)
	// init code STOP leaves an empty account
	_, _, err = s.client.Deploy(s.ctx, signers[0], "Empty", emptyABI, []byte{0x00})
	s.ErrorIs(err, domain.ErrNoCode)
}

func (s *clientSuite) TestCallAndTransact() {
	addr := s.deploy(artifacttest.AnswerCode)
	s.client.Label(addr, "RWAT")

	res, err := s.client.Call(s.ctx, addr, baseabi.RWATABI, "getTotalMinted", big.NewInt(1))
	s.Require().NoError(err)
	s.Equal(big.NewInt(42), res[0].(*big.Int))

	var infos []TxInfo
	s.client.Observe(func(ctx bCtx.Ctx, info TxInfo) {
		infos = append(infos, info)
	})
	signers, _ := s.client.Signers()
	receipt, err := s.client.Transact(s.ctx, signers[0], addr, baseabi.RWATABI, "mintAsset", big.NewInt(1), big.NewInt(10))
	s.Require().NoError(err)
	s.Equal(types.ReceiptStatusSuccessful, receipt.Status)
	s.Require().Len(infos, 1)
	s.Equal("RWAT", infos[0].Contract)
	s.Equal("mintAsset", infos[0].Method)
}

func (s *clientSuite) TestTransactReverted() {
	addr := s.deploy(revertCode)
	signers, _ := s.client.Signers()

	// estimation fails before anything is sent
	_, err := s.client.Transact(s.ctx, signers[0], addr, baseabi.RWATABI, "mintAsset", big.NewInt(1), big.NewInt(10))
	s.Error(err)

	// a fixed gas limit skips estimation, so the revert shows up in the receipt
	opts := *signers[0]
	opts.GasLimit = 100000
	receipt, err := s.client.Transact(s.ctx, &opts, addr, baseabi.RWATABI, "mintAsset", big.NewInt(1), big.NewInt(10))
	s.ErrorIs(err, domain.ErrTxReverted)
	s.Equal(types.ReceiptStatusFailed, receipt.Status)
}

func (s *clientSuite) TestWaitMinedCancelled() {
	tx := types.NewTx(&types.LegacyTx{Nonce: 99, GasPrice: big.NewInt(1), Gas: 21000})
	ctx, cancel := bCtx.WithTimeout(s.ctx, 30*time.Millisecond)
	defer cancel()
	_, err := s.client.WaitMined(ctx, tx)
	s.Error(err)
}

func (s *clientSuite) TestStorageAt() {
	addr := s.deploy(artifacttest.StopCode)
	val, err := s.client.StorageAt(s.ctx, addr, baseabi.ImplementationSlot)
	s.NoError(err)
	s.True(bEthereum.IsZero(val))
}

func (s *clientSuite) TestThrottled() {
	sim, err := NewSimulated(network.DevAccounts[:1])
	s.Require().NoError(err)
	throttled := bEthereum.NewThrottledClient(sim, 1)
	c := NewClient(throttled, network.Profile{Name: network.LocalName, Accounts: network.DevAccounts[:1]}, big.NewInt(network.LocalChainId), ClientCfg{PollInterval: 5 * time.Millisecond})
	defer c.Close()

	signers, err := c.Signers()
	s.Require().NoError(err)
	addr, _, err := c.Deploy(s.ctx, signers[0], "Answer", emptyABI, hexutil.MustDecode(artifacttest.AnswerCode))
	s.Require().NoError(err)
	s.NotEqual(common.Address{}, addr)
	s.Equal(0, throttled.InFlight())
}

func (s *clientSuite) TestDialChainIdMismatch() {
	p := localProfile()
	p.ChainId = 97
	_, err := Dial(s.ctx, p, ClientCfg{})
	s.ErrorIs(err, domain.ErrBadParamInput)
}

func (s *clientSuite) TestDialRemote() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Id     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Method != "eth_chainId" {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.Id) + `,"error":{"code":-32601,"message":"not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.Id) + `,"result":"0x61"}`))
	}))
	defer srv.Close()

	p := network.Profile{Name: "BSCTestnet", ChainId: 97, Url: srv.URL, Accounts: network.DevAccounts[:1], MaxConcurrency: 2}
	c, err := Dial(s.ctx, p, ClientCfg{})
	s.Require().NoError(err)
	defer c.Close()
	s.Equal(int64(97), c.ChainId().Int64())
	_, ok := c.Backend().(*bEthereum.ThrottledClient)
	s.True(ok)

	p.ChainId = 56
	_, err = Dial(s.ctx, p, ClientCfg{})
	s.Error(err)
	s.True(strings.Contains(err.Error(), "chain id"))
}
