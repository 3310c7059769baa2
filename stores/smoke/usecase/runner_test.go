package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/env"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact/artifacttest"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/domain/network"
	"github.com/x-xyz/rwat-deployer/domain/smoke"
	"github.com/x-xyz/rwat-deployer/service/chain"
	artifactRepo "github.com/x-xyz/rwat-deployer/stores/artifact/repository"
	deploymentRepo "github.com/x-xyz/rwat-deployer/stores/deployment/repository"
	deploymentUsecase "github.com/x-xyz/rwat-deployer/stores/deployment/usecase"
	rwatUsecase "github.com/x-xyz/rwat-deployer/stores/rwat/usecase"
	"github.com/x-xyz/rwat-deployer/stores/smoke/fixture"
)

type runnerSuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	client chain.Client
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(runnerSuite))
}

func (s *runnerSuite) SetupTest() {
	s.ctx = bCtx.Background()
	profile := network.Profile{Name: network.LocalName, Accounts: network.DevAccounts}
	c, err := chain.Dial(s.ctx, profile, chain.ClientCfg{Timeout: 5 * time.Second, PollInterval: 5 * time.Millisecond})
	s.Require().NoError(err)
	s.client = c
}

func (s *runnerSuite) TearDownTest() {
	s.client.Close()
}

func (s *runnerSuite) deps(artifacts string) fixture.Deps {
	return fixture.Deps{
		Chain: s.client,
		Deployer: deploymentUsecase.New(&deploymentUsecase.UsecaseCfg{
			Chain:     s.client,
			Artifacts: artifactRepo.NewFileRepo(artifacts),
			Repo:      deploymentRepo.NewFileRepo(s.T().TempDir()),
			Proxy: deploymentUsecase.ProxyArtifacts{
				ERC1967:     "ERC1967Proxy",
				Transparent: "TransparentUpgradeableProxy",
				Admin:       "ProxyAdmin",
			},
		}),
		RWAT: rwatUsecase.New(&rwatUsecase.UsecaseCfg{Chain: s.client}),
	}
}

func (s *runnerSuite) TestRunOnHandAssembledContracts() {
	root := s.T().TempDir()
	s.Require().NoError(artifacttest.Standard(root))

	report, err := New(s.deps(root)).Run(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(report.RunId)
	s.Equal(network.LocalName, report.Network)
	s.Require().Len(report.Results, 4)

	byName := map[string]smoke.Result{}
	for i, res := range report.Results {
		s.Equal(smoke.Scenarios[i], res.Name)
		byName[res.Name] = res
	}
	s.True(byName[smoke.ScenarioMulticallProxy].Passed)
	s.True(strings.HasPrefix(byName[smoke.ScenarioMulticallProxy].Detail, "multicall Contract deployed to: 0x"))
	s.True(byName[smoke.ScenarioRWATProxy].Passed)
	s.True(byName[smoke.ScenarioMintAsset].Passed)
	s.Equal("total assets in circulation: 42", byName[smoke.ScenarioMintAsset].Detail)

	// every call answers 42, so token 42 is "owned" by address 42
	send := byName[smoke.ScenarioSendShares]
	s.False(send.Passed)
	s.Contains(send.Detail, "ownerOf(42) = 0x000000000000000000000000000000000000002a")
	s.NotEmpty(send.Err)

	s.False(report.Passed())
}

func (s *runnerSuite) TestRunSelectedWithoutTestToken() {
	root := s.T().TempDir()
	oz := "@openzeppelin/contracts/proxy/"
	s.Require().NoError(artifacttest.Write(root,
		artifacttest.Contract{Source: "contracts/RWAT.sol", Name: "RWAT", Abi: artifacttest.RWATAbi, Code: artifacttest.AnswerCode},
		artifacttest.Contract{Source: oz + "transparent/TransparentUpgradeableProxy.sol", Name: "TransparentUpgradeableProxy", Code: artifacttest.AnswerCode},
		artifacttest.Contract{Source: oz + "transparent/ProxyAdmin.sol", Name: "ProxyAdmin", Code: artifacttest.StopCode},
	))

	report, err := New(s.deps(root)).Run(s.ctx, smoke.ScenarioRWATProxy, smoke.ScenarioMulticallProxy)
	s.Require().NoError(err)
	s.Require().Len(report.Results, 2)
	s.True(report.Results[0].Passed, report.Results[0].Err)
	// no Multicall artifact
	s.False(report.Results[1].Passed)
	s.Contains(report.Results[1].Err, domain.ErrArtifactNotFound.Error())
}

func (s *runnerSuite) TestUnknownScenario() {
	_, err := New(s.deps(s.T().TempDir())).Run(s.ctx, "nope")
	s.ErrorIs(err, domain.ErrBadParamInput)
}

type panicDeployer struct {
	deployment.UseCase
}

func (panicDeployer) DeployProxy(bCtx.Ctx, deployment.Request) (*deployment.Deployment, error) {
	panic("boom")
}

func (s *runnerSuite) TestPanicIsAFailure() {
	deps := s.deps(s.T().TempDir())
	deps.Deployer = panicDeployer{}
	report, err := New(deps).Run(s.ctx, smoke.ScenarioMulticallProxy)
	s.Require().NoError(err)
	s.False(report.Passed())
	s.Equal("panic: boom", report.Results[0].Err)
}

func (s *runnerSuite) TestCancelled() {
	ctx, cancel := bCtx.WithCancel(s.ctx)
	cancel()
	report, err := New(s.deps(s.T().TempDir())).Run(ctx)
	s.Error(err)
	s.Empty(report.Results)
}

// RWAT_ARTIFACTS points at a compiled hardhat project carrying RWAT,
// Multicall, TestToken and the OpenZeppelin proxy artifacts.
func (s *runnerSuite) TestRunOnCompiledArtifacts() {
	dir := os.Getenv(env.RwatArtifacts)
	if dir == "" {
		s.T().Skip("RWAT_ARTIFACTS not set")
	}
	report, err := New(s.deps(filepath.Clean(dir))).Run(s.ctx)
	s.Require().NoError(err)
	for _, res := range report.Results {
		s.True(res.Passed, "%s: %s", res.Name, res.Err)
	}
	s.True(report.Passed())
}
