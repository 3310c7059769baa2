package repository

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/service/query"
	mQuery "github.com/x-xyz/rwat-deployer/service/query/mocks"
)

type mongoRepoSuite struct {
	suite.Suite

	ctx  bCtx.Ctx
	q    *mQuery.Mongo
	repo deployment.Repo
}

func TestMongoRepoSuite(t *testing.T) {
	suite.Run(t, new(mongoRepoSuite))
}

func (s *mongoRepoSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.q = &mQuery.Mongo{}
	s.repo = NewMongoRepo(s.q)
}

func (s *mongoRepoSuite) TearDownTest() {
	s.q.AssertExpectations(s.T())
}

func (s *mongoRepoSuite) TestFindAllSelector() {
	want := bson.M{
		"network":  "hardhat",
		"contract": "RWAT",
		"$or": bson.A{
			bson.M{"proxy": domain.Address("0xaa")},
			bson.M{"implementation": domain.Address("0xaa")},
		},
	}
	s.q.On("Search", s.ctx, domain.TableDeployments, 0, 0, "createdAt", want, mock.Anything).Return(nil).Once()

	_, err := s.repo.FindAll(s.ctx, deployment.WithNetwork("hardhat"), deployment.WithContract("RWAT"), deployment.WithAddress("0xAA"))
	s.NoError(err)
}

func (s *mongoRepoSuite) TestFindAllLimitReversed() {
	s.q.On("Search", s.ctx, domain.TableDeployments, 0, 2, "-createdAt", bson.M{}, mock.Anything).
		Run(func(args mock.Arguments) {
			res := args.Get(6).(*[]deployment.Deployment)
			*res = []deployment.Deployment{{Id: "new"}, {Id: "old"}}
		}).Return(nil).Once()

	ds, err := s.repo.FindAll(s.ctx, deployment.WithLimit(2))
	s.Require().NoError(err)
	s.Equal("old", ds[0].Id)
	s.Equal("new", ds[1].Id)
}

func (s *mongoRepoSuite) TestFindLatestNotFound() {
	s.q.On("FindOne", s.ctx, domain.TableDeployments, "-createdAt", bson.M{"network": "hardhat", "contract": "ProxyAdmin"}, mock.Anything).
		Return(query.ErrNotFound).Once()

	_, err := s.repo.FindLatest(s.ctx, "hardhat", "ProxyAdmin")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *mongoRepoSuite) TestInsertAndIndexes() {
	d := &deployment.Deployment{Id: "x", Network: "hardhat"}
	s.q.On("Insert", s.ctx, domain.TableDeployments, d).Return(nil).Once()
	s.q.On("EnsureIndexes", s.ctx, domain.TableDeployments, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	s.NoError(s.repo.Insert(s.ctx, d))
	s.NoError(EnsureIndexes(s.ctx, s.q))
}
