package primitive

import (
	"math"
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive is an in-process cache of sizeMB megabytes.
func NewPrimitive(name string, sizeMB int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, exp, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("freecache.GetWithExpiration failed")
		return nil, 0, err
	}
	if exp == 0 {
		return val, 0, nil
	}
	left := time.Until(time.Unix(int64(exp), 0))
	if left <= 0 {
		return nil, 0, provider.ErrNotFound
	}
	return val, left, nil
}

// Set rounds ttl up to whole seconds; freecache treats 0 as no expiry.
func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	secs := 0
	if ttl > 0 {
		secs = int(math.Ceil(ttl.Seconds()))
	}
	if err := im.cache.Set([]byte(key), value, secs); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name, "size": len(value)}).Warn("freecache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
