package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxHttpCache prefixes cached query API responses
	PfxHttpCache = "httpCacheMiddleware"
	// PfxCoingecko prefixes token prices
	PfxCoingecko = "coingecko"
	// PfxGasPrice prefixes gas prices fetched from a gas price api
	PfxGasPrice = "gasPrice"
	// PfxHealthCheck prefixes the key written by the health check
	PfxHealthCheck = "healthCheck"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix returns the first component of a key, or "" for an unprefixed key.
func GetPrefix(key string) string {
	s := strings.SplitN(key, ":", 2)
	if len(s) > 1 {
		return s[0]
	}
	return ""
}
