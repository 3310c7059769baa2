package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisKey(t *testing.T) {
	req := require.New(t)
	req.Equal("coingecko:binancecoin:usd", RedisKey(PfxCoingecko, "binancecoin", "usd"))
	req.Equal("a", RedisKey("a"))
	req.Equal("a-b", CustomKey("-", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	req := require.New(t)
	req.Equal("httpCacheMiddleware", GetPrefix(RedisKey(PfxHttpCache, "abc")))
	req.Equal("gasPrice", GetPrefix("gasPrice:bsc:latest"))
	req.Equal("", GetPrefix("plain"))
}

func TestMD5(t *testing.T) {
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5(""))
}
