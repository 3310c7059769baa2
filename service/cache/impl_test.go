package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain/keys"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type value struct {
	Value string `json:"value"`
}

type testsuite struct {
	suite.Suite
	im    Service
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	})
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	c := &value{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))

	sv, err := json.Marshal(value{"v"})
	ts.Require().NoError(err)
	ts.NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "key"), sv, time.Minute))
	ts.NoError(ts.im.Get(mockCtx, "key", c))
	ts.Equal(value{"v"}, *c)
}

func (ts *testsuite) TestSetDel() {
	ts.NoError(ts.im.Set(mockCtx, "key", value{"v"}))
	sv, _, err := ts.cache.Get(mockCtx, "testing:key")
	ts.NoError(err)
	ts.JSONEq(`{"value":"v"}`, string(sv))

	ts.NoError(ts.im.Del(mockCtx, "key"))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", &value{}))
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return value{"v"}, nil
	}

	c := &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, getter))
	ts.Equal(value{"v"}, *c)

	c2 := &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c2, getter))
	ts.Equal(value{"v"}, *c2)
	ts.Equal(1, calls)
}

func (ts *testsuite) TestGetByFuncGetterError() {
	errBoom := errors.New("boom")
	err := ts.im.GetByFunc(mockCtx, "key", &value{}, func() (interface{}, error) {
		return nil, errBoom
	})
	ts.Equal(errBoom, err)
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", &value{}))
}
