package compound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
	"github.com/x-xyz/rwat-deployer/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	lyr0 provider.Provider
	lyr1 provider.Provider
	im   provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.lyr0 = primitive.NewPrimitive("layer 0", 1)
	ts.lyr1 = primitive.NewPrimitive("layer 1", 1)
	ts.im = NewCompound(Layer{Provider: ts.lyr0, MaxTtl: 5 * time.Second}, Layer{Provider: ts.lyr1})
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetWritesAllLayers() {
	ts.NoError(ts.im.Set(mockCtx, "key", []byte("value"), time.Minute))

	v, ttl, err := ts.lyr0.Get(mockCtx, "key")
	ts.NoError(err)
	ts.Equal([]byte("value"), v)
	ts.True(ttl <= 5*time.Second)

	_, ttl, err = ts.lyr1.Get(mockCtx, "key")
	ts.NoError(err)
	ts.True(ttl > 5*time.Second)
}

func (ts *testsuite) TestGet() {
	cases := []struct {
		Desc  string
		Key   string
		Val   string
		Err   error
		Cache provider.Provider
	}{
		{Desc: "hit layer 0", Key: "key 0", Val: "value 0", Cache: ts.lyr0},
		{Desc: "hit layer 1", Key: "key 1", Val: "value 1", Cache: ts.lyr1},
		{Desc: "not found", Key: "key 2", Err: provider.ErrNotFound},
	}

	for _, c := range cases {
		if c.Cache != nil {
			ts.NoError(c.Cache.Set(mockCtx, c.Key, []byte(c.Val), time.Minute), c.Desc)
		}
		v, _, e := ts.im.Get(mockCtx, c.Key)
		ts.Equal(c.Val, string(v), c.Desc)
		ts.Equal(c.Err, e, c.Desc)
	}

	// layer 1 hit was back-filled into layer 0
	v, _, err := ts.lyr0.Get(mockCtx, "key 1")
	ts.NoError(err)
	ts.Equal("value 1", string(v))
}

func (ts *testsuite) TestDel() {
	ts.NoError(ts.im.Set(mockCtx, "key", []byte("value"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, "key"))
	_, _, err := ts.im.Get(mockCtx, "key")
	ts.Equal(provider.ErrNotFound, err)
}
