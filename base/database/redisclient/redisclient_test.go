package redisclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolSize(t *testing.T) {
	req := require.New(t)
	p := newPool("localhost:6379", "", RedisParam{})
	req.Equal(64, p.MaxActive)
	req.Equal(16, p.MaxIdle)

	p = newPool("localhost:6379", "", RedisParam{PoolMultiplier: 4})
	req.Greater(p.MaxActive, p.MaxIdle)
	req.True(p.Wait)
}

func TestConnectRefused(t *testing.T) {
	req := require.New(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	addr := l.Addr().String()
	req.NoError(l.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	start := time.Now()
	p, err := ConnectRedis(ctx, addr, "", RedisParam{Retries: 1})
	req.Error(err)
	req.Nil(p)
	req.GreaterOrEqual(int64(time.Since(start)), int64(500*time.Millisecond))
}
