package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/suite"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact/artifacttest"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/domain/rwat"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/chain/contract"
	artifactRepo "github.com/x-xyz/rwat-deployer/stores/artifact/repository"
)

type usecaseSuite struct {
	suite.Suite

	ctx     bCtx.Ctx
	client  chain.Client
	signers []*bind.TransactOpts
	answer  domain.Address
	uc      rwat.UseCase
}

func TestUsecaseSuite(t *testing.T) {
	suite.Run(t, new(usecaseSuite))
}

func (s *usecaseSuite) SetupTest() {
	s.ctx = bCtx.Background()
	profile := network.Profile{Name: network.LocalName, Accounts: network.DevAccounts}
	c, err := chain.Dial(s.ctx, profile, chain.ClientCfg{Timeout: 5 * time.Second, PollInterval: 5 * time.Millisecond})
	s.Require().NoError(err)
	s.client = c
	s.signers, err = c.Signers()
	s.Require().NoError(err)
	addr, _, err := c.Deploy(s.ctx, s.signers[0], "Answer", abi.ABI{}, hexutil.MustDecode(artifacttest.AnswerCode))
	s.Require().NoError(err)
	s.answer = domain.AddressOf(addr)
	s.uc = New(&UsecaseCfg{Chain: c, BatchConcurrency: 4})
}

func (s *usecaseSuite) TearDownTest() {
	s.client.Close()
}

func (s *usecaseSuite) TestWrites() {
	owner, provider, investor := s.signers[0], s.signers[1], s.signers[2]

	s.Require().NoError(s.uc.GrantAdmin(s.ctx, owner, s.answer, domain.AddressOf(provider.From)))
	s.Require().NoError(s.uc.CreateAsset(s.ctx, provider, s.answer, big.NewInt(1), big.NewInt(300), domain.EmptyAddress))

	ids, err := s.uc.MintAsset(s.ctx, provider, s.answer, big.NewInt(1), big.NewInt(10))
	s.Require().NoError(err)
	s.Empty(ids)

	s.Require().NoError(s.uc.Whitelist(s.ctx, provider, s.answer, []domain.Address{domain.AddressOf(investor.From)}, true))
	s.Require().NoError(s.uc.SendShares(s.ctx, provider, s.answer, big.NewInt(1), domain.AddressOf(investor.From), big.NewInt(1), []*big.Int{big.NewInt(1000000000)}))
}

func (s *usecaseSuite) TestArtifactAbiExtendsEmbedded() {
	root := s.T().TempDir()
	s.Require().NoError(artifacttest.Write(root, artifacttest.Contract{
		Source: "contracts/RWAT.sol", Name: rwat.ContractName, Abi: artifacttest.RWATAbi, Code: artifacttest.AnswerCode,
	}))
	uc := New(&UsecaseCfg{Chain: s.client, Artifacts: artifactRepo.NewFileRepo(root)})

	// grantRole is missing from the artifact ABI
	s.Require().NoError(uc.GrantAdmin(s.ctx, s.signers[0], s.answer, domain.AddressOf(s.signers[1].From)))
	total, err := uc.TotalMinted(s.ctx, s.answer, big.NewInt(1))
	s.Require().NoError(err)
	s.Equal(int64(42), total.Int64())
}

func (s *usecaseSuite) TestReads() {
	total, err := s.uc.TotalMinted(s.ctx, s.answer, big.NewInt(1))
	s.Require().NoError(err)
	s.Equal(int64(42), total.Int64())

	owner, err := s.uc.OwnerOf(s.ctx, s.answer, big.NewInt(1000000000))
	s.Require().NoError(err)
	s.Equal(domain.AddressOf(common.BigToAddress(big.NewInt(42))), owner)

	_, err = s.uc.AllNFTsOfOwner(s.ctx, s.answer, domain.AddressOf(s.signers[2].From))
	s.Error(err)
}

func (s *usecaseSuite) TestHoldingsByBatch() {
	h, err := s.uc.Holdings(s.ctx, s.answer, domain.AddressOf(s.signers[2].From))
	s.Require().NoError(err)
	s.Equal("42", h.Balance)
	s.Len(h.TokenIds, 42)
	for _, id := range h.TokenIds {
		s.Equal("42", id)
	}
}

// multicallChain answers balanceOf and aggregate without a chain.
type multicallChain struct {
	chain.Client
	balance    int64
	aggregates int
}

func (m *multicallChain) Network() network.Profile {
	return network.Profile{Name: "fake", Multicall: "0x00000000000000000000000000000000000000ca"}
}

func (m *multicallChain) Label(common.Address, string) {}

func (m *multicallChain) Call(ctx bCtx.Ctx, addr common.Address, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	switch method {
	case "balanceOf":
		return []interface{}{big.NewInt(m.balance)}, nil
	case "aggregate":
		m.aggregates++
		calls := params[0].([]contract.Call)
		res := make([][]byte, len(calls))
		for i, c := range calls {
			args, err := baseabi.RWATABI.Methods["tokenOfOwnerByIndex"].Inputs.Unpack(c.CallData[4:])
			if err != nil {
				return nil, err
			}
			// token ids start at 1000000000 in index order
			id := new(big.Int).Add(args[1].(*big.Int), big.NewInt(1000000000))
			if res[i], err = baseabi.RWATABI.Methods["tokenOfOwnerByIndex"].Outputs.Pack(id); err != nil {
				return nil, err
			}
		}
		return []interface{}{big.NewInt(1), res}, nil
	}
	return nil, domain.ErrNotFound
}

func (s *usecaseSuite) TestHoldingsByMulticall() {
	fake := &multicallChain{balance: 450}
	uc := New(&UsecaseCfg{Chain: fake})

	h, err := uc.Holdings(s.ctx, s.answer, domain.AddressOf(s.signers[2].From))
	s.Require().NoError(err)
	s.Equal("450", h.Balance)
	s.Len(h.TokenIds, 450)
	s.Equal("1000000000", h.TokenIds[0])
	s.Equal("1000000449", h.TokenIds[449])
	// 200 calls per aggregate
	s.Equal(3, fake.aggregates)

	fake.balance = MaxHoldings + 1
	_, err = uc.Holdings(s.ctx, s.answer, domain.AddressOf(s.signers[2].From))
	s.ErrorIs(err, domain.ErrBadParamInput)
}
