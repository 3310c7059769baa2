package contract

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/suite"

	baseabi "github.com/x-xyz/rwat-deployer/base/abi"
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain/artifact/artifacttest"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/service/chain"
)

type contractSuite struct {
	suite.Suite

	ctx     bCtx.Ctx
	client  chain.Client
	signers []*bind.TransactOpts
	answer  common.Address
}

func TestContractSuite(t *testing.T) {
	suite.Run(t, new(contractSuite))
}

func (s *contractSuite) SetupTest() {
	s.ctx = bCtx.Background()
	profile := network.Profile{Name: network.LocalName, Accounts: network.DevAccounts}
	c, err := chain.Dial(s.ctx, profile, chain.ClientCfg{Timeout: 5 * time.Second, PollInterval: 5 * time.Millisecond})
	s.Require().NoError(err)
	s.client = c
	s.signers, err = c.Signers()
	s.Require().NoError(err)
	s.answer, _, err = c.Deploy(s.ctx, s.signers[0], "Answer", abi.ABI{}, hexutil.MustDecode(artifacttest.AnswerCode))
	s.Require().NoError(err)
}

func (s *contractSuite) TearDownTest() {
	s.client.Close()
}

func (s *contractSuite) TestRWATReads() {
	r := NewRWAT(s.client, s.answer, nil)
	s.Equal(s.answer, r.Address())

	role, err := r.AdminRole(s.ctx)
	s.Require().NoError(err)
	s.Equal(byte(42), role[31])

	minted, err := r.GetTotalMinted(s.ctx, big.NewInt(1))
	s.Require().NoError(err)
	s.Equal(int64(42), minted.Int64())

	id, err := r.TokenOfOwnerByIndex(s.ctx, s.signers[2].From, big.NewInt(0))
	s.Require().NoError(err)
	s.Equal(int64(42), id.Int64())

	owner, err := r.OwnerOf(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(common.BigToAddress(big.NewInt(42)), owner)

	// 42 is not an abi encoded bool
	_, err = r.HasRole(s.ctx, role, s.signers[1].From)
	s.Error(err)

	// a single word is not a valid dynamic array
	_, err = r.GetAllNFTsOfOwner(s.ctx, s.signers[2].From)
	s.Error(err)
}

func (s *contractSuite) TestRWATWrites() {
	r := NewRWAT(s.client, s.answer, nil)
	role := [32]byte{}
	_, err := r.GrantRole(s.ctx, s.signers[0], role, s.signers[1].From)
	s.Require().NoError(err)
	_, err = r.CreateAsset(s.ctx, s.signers[1], big.NewInt(1), big.NewInt(1000), common.Address{})
	s.Require().NoError(err)
	_, err = r.MintAsset(s.ctx, s.signers[1], big.NewInt(1), big.NewInt(1000))
	s.Require().NoError(err)
	_, err = r.SetWhitelisted(s.ctx, s.signers[1], []common.Address{s.signers[2].From}, true)
	s.Require().NoError(err)
	receipt, err := r.SendSharesToUser(s.ctx, s.signers[1], big.NewInt(1), s.signers[2].From, big.NewInt(1), []*big.Int{big.NewInt(1000000000)})
	s.Require().NoError(err)
	s.Equal(types.ReceiptStatusSuccessful, receipt.Status)
	s.Empty(r.TransferIds(receipt))
}

func (s *contractSuite) TestRWATPack() {
	r := NewRWAT(s.client, s.answer, nil)
	data, err := r.PackTokenOfOwnerByIndex(s.signers[2].From, big.NewInt(3))
	s.Require().NoError(err)
	s.Len(data, 4+32+32)

	out, err := s.client.Backend().CallContract(s.ctx, ethCall(s.answer, data), nil)
	s.Require().NoError(err)
	id, err := r.UnpackTokenOfOwnerByIndex(out)
	s.Require().NoError(err)
	s.Equal(int64(42), id.Int64())
}

func (s *contractSuite) TestTransferIds() {
	rwat := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	other := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	topic := baseabi.RWATABI.Events["Transfer"].ID
	from := common.BytesToHash(common.Address{}.Bytes())
	to := common.BytesToHash(other.Bytes())
	receipt := &types.Receipt{Logs: []*types.Log{
		{Address: rwat, Topics: []common.Hash{topic, from, to, common.BigToHash(big.NewInt(7))}},
		// ERC20 shaped
		{Address: rwat, Topics: []common.Hash{topic, from, to}},
		{Address: other, Topics: []common.Hash{topic, from, to, common.BigToHash(big.NewInt(8))}},
		{Address: rwat, Topics: []common.Hash{topic, from, to, common.BigToHash(big.NewInt(9))}},
	}}
	ids := ERC721TransferIds(baseabi.RWATABI, rwat, receipt)
	s.Equal([]*big.Int{big.NewInt(7), big.NewInt(9)}, ids)
	s.Nil(ERC721TransferIds(baseabi.RWATABI, rwat, nil))
	s.Nil(ERC721TransferIds(baseabi.ERC20ABI, rwat, receipt))
}

func (s *contractSuite) TestProxySlots() {
	p := NewProxy(s.client)
	impl, err := p.Implementation(s.ctx, s.answer)
	s.Require().NoError(err)
	s.Equal(common.Address{}, impl)
	admin, err := p.Admin(s.ctx, s.answer)
	s.Require().NoError(err)
	s.Equal(common.Address{}, admin)

	_, err = p.UpgradeTo(s.ctx, s.signers[0], s.answer, s.answer)
	s.NoError(err)
	_, err = p.Upgrade(s.ctx, s.signers[0], s.answer, s.answer, s.answer)
	s.NoError(err)
}

func (s *contractSuite) TestErc20() {
	e := NewErc20(s.client)
	bal, err := e.BalanceOf(s.ctx, s.answer, s.signers[0].From)
	s.Require().NoError(err)
	s.Equal(int64(42), bal.Int64())
	dec, err := e.Decimals(s.ctx, s.answer)
	s.Require().NoError(err)
	s.Equal(uint8(42), dec)
}

func (s *contractSuite) TestMulticallMalformedReturn() {
	m := NewMulticall(s.client, s.answer)
	_, _, err := m.Aggregate(s.ctx, []Call{{Target: s.answer, CallData: []byte{0x01}}})
	s.Error(err)
}
