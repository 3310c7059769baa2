package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	hcdomain "github.com/x-xyz/rwat-deployer/domain/healthcheck"
	"github.com/x-xyz/rwat-deployer/domain/healthcheck/mocks"
)

func TestCheck(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	errDown := errors.New("connection refused")

	mongo := &mocks.Dependency{}
	mongo.On("Name").Return("mongo")
	mongo.On("Ping", c).Return(nil).Once()
	redis := &mocks.Dependency{}
	redis.On("Name").Return("redis")
	redis.On("Ping", c).Return(errDown).Once()

	res, err := New(mongo, redis).Check(c)
	req.ErrorIs(err, errDown)
	req.Equal(map[string]string{"mongo": hcdomain.StatusOk, "redis": "connection refused"}, res)
	mongo.AssertExpectations(t)
	redis.AssertExpectations(t)

	res, err = New().Check(c)
	req.NoError(err)
	req.Empty(res)
}
