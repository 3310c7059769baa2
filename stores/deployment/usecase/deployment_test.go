package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
	"github.com/x-xyz/rwat-deployer/domain/artifact/artifacttest"
	mArtifact "github.com/x-xyz/rwat-deployer/domain/artifact/mocks"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/service/chain"
	artifactRepo "github.com/x-xyz/rwat-deployer/stores/artifact/repository"
	deploymentRepo "github.com/x-xyz/rwat-deployer/stores/deployment/repository"
)

var proxyArtifacts = ProxyArtifacts{
	ERC1967:     "ERC1967Proxy",
	Transparent: "TransparentUpgradeableProxy",
	Admin:       "ProxyAdmin",
}

type deploymentSuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	client chain.Client
	repo   deployment.Repo
	uc     deployment.UseCase
}

func TestDeploymentSuite(t *testing.T) {
	suite.Run(t, new(deploymentSuite))
}

func (s *deploymentSuite) SetupTest() {
	s.ctx = bCtx.Background()
	root := s.T().TempDir()
	s.Require().NoError(artifacttest.Standard(root + "/artifacts"))

	profile := network.Profile{Name: network.LocalName, Accounts: network.DevAccounts}
	c, err := chain.Dial(s.ctx, profile, chain.ClientCfg{Timeout: 5 * time.Second, PollInterval: 5 * time.Millisecond})
	s.Require().NoError(err)
	s.client = c
	s.repo = deploymentRepo.NewFileRepo(root + "/deployments")
	s.uc = New(&UsecaseCfg{
		Chain:     c,
		Artifacts: artifactRepo.NewFileRepo(root + "/artifacts"),
		Repo:      s.repo,
		Proxy:     proxyArtifacts,
	})
}

func (s *deploymentSuite) TearDownTest() {
	s.client.Close()
}

func (s *deploymentSuite) hasCode(addr domain.Address) {
	code, err := s.client.CodeAt(s.ctx, addr.ToCommon())
	s.Require().NoError(err)
	s.NotEmpty(code, string(addr))
}

func (s *deploymentSuite) rwatRequest(kind deployment.Kind) deployment.Request {
	owner := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	return deployment.Request{
		Contract:    "RWAT",
		Args:        []string{owner, "Real World Asset", "RWAT", owner},
		Initializer: "initialize",
		Kind:        kind,
	}
}

func (s *deploymentSuite) TestDeployTransparentReusesAdmin() {
	d1, err := s.uc.DeployProxy(s.ctx, s.rwatRequest(""))
	s.Require().NoError(err)
	s.Equal(deployment.KindTransparent, d1.Kind)
	s.Equal("RWAT", d1.Contract)
	s.Equal(network.LocalName, d1.Network)
	s.Equal(domain.ChainId(network.LocalChainId), d1.ChainId)
	s.False(d1.Admin.IsEmpty())
	s.NotEqual(d1.Proxy, d1.Implementation)
	s.Equal(d1.Proxy, d1.Address())
	s.NotZero(d1.GasUsed)
	s.hasCode(d1.Proxy)
	s.hasCode(d1.Implementation)
	s.hasCode(d1.Admin)

	d2, err := s.uc.DeployProxy(s.ctx, s.rwatRequest(deployment.KindTransparent))
	s.Require().NoError(err)
	s.Equal(d1.Admin, d2.Admin)
	s.NotEqual(d1.Proxy, d2.Proxy)

	admins, err := s.repo.FindAll(s.ctx, deployment.WithContract("ProxyAdmin"))
	s.Require().NoError(err)
	s.Len(admins, 1)
	rwats, err := s.repo.FindAll(s.ctx, deployment.WithContract("RWAT"))
	s.Require().NoError(err)
	s.Len(rwats, 2)
}

func (s *deploymentSuite) TestDeployUUPS() {
	d, err := s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "Multicall", Initializer: "initialize", Kind: deployment.KindUUPS})
	s.Require().NoError(err)
	s.Equal(deployment.KindUUPS, d.Kind)
	s.True(d.Admin.IsEmpty())
	s.hasCode(d.Proxy)

	latest, err := s.repo.FindLatest(s.ctx, network.LocalName, "Multicall")
	s.Require().NoError(err)
	s.Equal(d.Id, latest.Id)
}

func (s *deploymentSuite) TestDeployPlain() {
	d, err := s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "TestToken", Kind: deployment.KindNone})
	s.Require().NoError(err)
	s.Equal(deployment.KindNone, d.Kind)
	s.True(d.Proxy.IsEmpty())
	s.Equal(d.Implementation, d.Address())
	s.hasCode(d.Implementation)
}

func (s *deploymentSuite) TestBadRequests() {
	_, err := s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "RWAT", Initializer: "init"})
	s.ErrorIs(err, domain.ErrBadParamInput)

	_, err = s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "Multicall", Args: []string{"1"}})
	s.ErrorIs(err, domain.ErrBadParamInput)

	req := s.rwatRequest("")
	req.Args = req.Args[:2]
	_, err = s.uc.DeployProxy(s.ctx, req)
	s.ErrorIs(err, domain.ErrBadParamInput)

	_, err = s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "Missing"})
	s.ErrorIs(err, domain.ErrArtifactNotFound)

	_, err = s.uc.DeployProxy(s.ctx, deployment.Request{Contract: "RWAT", Kind: "beacon"})
	s.ErrorIs(err, domain.ErrUnsupportedProxyKind)

	// plain deployment of a contract without constructor inputs
	_, err = s.uc.Deploy(s.ctx, deployment.Request{Contract: "TestToken", Args: []string{"1"}})
	s.ErrorIs(err, domain.ErrBadParamInput)
}

func (s *deploymentSuite) TestUpgrade() {
	for _, kind := range []deployment.Kind{deployment.KindTransparent, deployment.KindUUPS} {
		d, err := s.uc.DeployProxy(s.ctx, s.rwatRequest(kind))
		s.Require().NoError(err)

		up, err := s.uc.Upgrade(s.ctx, d.Proxy, "RWAT")
		s.Require().NoError(err, kind)
		s.Equal(kind, up.Kind)
		s.Equal(d.Proxy, up.Proxy)
		s.Equal(d.Admin, up.Admin)
		s.NotEqual(d.Implementation, up.Implementation)
		s.hasCode(up.Implementation)

		history, err := s.repo.FindAll(s.ctx, deployment.WithAddress(d.Proxy))
		s.Require().NoError(err)
		s.Len(history, 2)
	}
}

func (s *deploymentSuite) TestUpgradeUnknownProxy() {
	_, err := s.uc.Upgrade(s.ctx, domain.AddressOf(common.HexToAddress("0x1234")), "RWAT")
	s.ErrorIs(err, domain.ErrNoCode)
}

func (s *deploymentSuite) TestContractTooLarge() {
	arts := &mArtifact.Repository{}
	big := &artifact.Artifact{
		ContractName:     "Big",
		SourceName:       "contracts/Big.sol",
		Abi:              []byte("[]"),
		Bytecode:         artifacttest.StopCode,
		DeployedBytecode: "0x" + strings.Repeat("00", network.MaxContractSize+1),
	}
	arts.On("FindByName", mock.Anything, "Big").Return(big, nil)
	uc := New(&UsecaseCfg{Chain: s.client, Artifacts: arts, Repo: s.repo, Proxy: proxyArtifacts})

	_, err := uc.Deploy(s.ctx, deployment.Request{Contract: "Big"})
	s.ErrorIs(err, domain.ErrContractTooLarge)
	arts.AssertExpectations(s.T())
}

func (s *deploymentSuite) TestProxyArtifactsFromSecondRoot() {
	project, plugin := s.T().TempDir(), s.T().TempDir()
	s.Require().NoError(artifacttest.Write(project,
		artifacttest.Contract{Source: "contracts/Multicall.sol", Name: "Multicall", Abi: artifacttest.MulticallAbi, Code: artifacttest.AnswerCode},
	))
	s.Require().NoError(artifacttest.Standard(plugin))
	uc := New(&UsecaseCfg{
		Chain:     s.client,
		Artifacts: artifactRepo.NewLayeredRepo(artifactRepo.NewFileRepo(project), artifactRepo.NewFileRepo(plugin)),
		Repo:      s.repo,
		Proxy:     proxyArtifacts,
	})

	d, err := uc.DeployProxy(s.ctx, deployment.Request{Contract: "Multicall", Initializer: "initialize"})
	s.Require().NoError(err)
	s.Equal(deployment.KindTransparent, d.Kind)
	s.hasCode(d.Proxy)
	s.hasCode(d.Admin)
}

func (s *deploymentSuite) TestMissingProxyArtifactsDeployNothing() {
	project := s.T().TempDir()
	s.Require().NoError(artifacttest.Write(project,
		artifacttest.Contract{Source: "contracts/Multicall.sol", Name: "Multicall", Abi: artifacttest.MulticallAbi, Code: artifacttest.AnswerCode},
	))
	uc := New(&UsecaseCfg{Chain: s.client, Artifacts: artifactRepo.NewFileRepo(project), Repo: s.repo, Proxy: proxyArtifacts})
	signers, err := s.client.Signers()
	s.Require().NoError(err)

	for _, kind := range []deployment.Kind{deployment.KindTransparent, deployment.KindUUPS} {
		_, err := uc.DeployProxy(s.ctx, deployment.Request{Contract: "Multicall", Initializer: "initialize", Kind: kind})
		s.ErrorIs(err, domain.ErrArtifactNotFound, kind)
	}

	nonce, err := s.client.Backend().PendingNonceAt(s.ctx, signers[0].From)
	s.Require().NoError(err)
	s.Zero(nonce)
	records, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *deploymentSuite) TestReusesAdminByFullyQualifiedName() {
	art := proxyArtifacts
	art.Admin = "@openzeppelin/contracts/proxy/transparent/ProxyAdmin.sol:ProxyAdmin"
	uc := New(&UsecaseCfg{Chain: s.client, Artifacts: s.uc.(*impl).artifacts, Repo: s.repo, Proxy: art})

	d1, err := uc.DeployProxy(s.ctx, s.rwatRequest(deployment.KindTransparent))
	s.Require().NoError(err)
	d2, err := uc.DeployProxy(s.ctx, s.rwatRequest(deployment.KindTransparent))
	s.Require().NoError(err)
	s.Equal(d1.Admin, d2.Admin)

	admins, err := s.repo.FindAll(s.ctx, deployment.WithContract("ProxyAdmin"))
	s.Require().NoError(err)
	s.Len(admins, 1)
}
