package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/rwat-deployer/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "network", "hardhat")
	ts.Equal("hardhat", ctx.Value("network"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"network":  "BSCTestnet",
		"contract": "RWAT",
	})
	ts.Equal("BSCTestnet", ctx.Value("network"))
	ts.Equal("RWAT", ctx.Value("contract"))
}

func (ts *testsuite) TestWithFieldsKeepsParentContext() {
	bg := WithValue(Background(), "runId", "abc")
	ctx := WithFields(bg, log.Fields{"step": 1})
	ts.Equal("abc", ctx.Value("runId"))
	ts.Nil(ctx.Value("step"))
}

func (ts *testsuite) TestFrom() {
	plain := context.WithValue(context.Background(), "k", "v")
	c := From(plain)
	ts.Equal("v", c.Value("k"))

	wrapped := WithValue(Background(), "k2", "v2")
	ts.Equal(wrapped, From(wrapped))
}

func (ts *testsuite) TestWithCancel() {
	bg := Background()
	ctx, cancel := WithCancel(bg)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context was not cancelled")
	}
}

func (ts *testsuite) TestTimeout() {
	bg := Background()
	ctx, cancel := WithTimeout(bg, 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal(context.DeadlineExceeded, ctx.Err())
}
