package compound

import (
	"time"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
)

type impl struct {
	layers []provider.Provider
	maxTtl []time.Duration
}

// Layer is one level of a compound cache. MaxTtl caps how long the layer
// keeps an entry; zero keeps the caller's ttl.
type Layer struct {
	Provider provider.Provider
	MaxTtl   time.Duration
}

// NewCompound reads layers front to back, returns on the first hit and
// back-fills the layers in front of it. Writes go to every layer.
func NewCompound(layers ...Layer) provider.Provider {
	im := &impl{}
	for _, l := range layers {
		im.layers = append(im.layers, l.Provider)
		im.maxTtl = append(im.maxTtl, l.MaxTtl)
	}
	return im
}

func (im *impl) ttlFor(idx int, ttl time.Duration) time.Duration {
	if max := im.maxTtl[idx]; max > 0 && (ttl == 0 || ttl > max) {
		return max
	}
	return ttl
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	for idx, lyr := range im.layers {
		val, ttl, err := lyr.Get(c, key)
		if err == provider.ErrNotFound {
			continue
		} else if err != nil {
			return nil, 0, err
		}
		for i := 0; i < idx; i++ {
			if err := im.layers[i].Set(c, key, val, im.ttlFor(i, ttl)); err != nil {
				c.WithFields(log.Fields{"err": err, "key": key, "layer": i}).Warn("back-fill failed")
			}
		}
		return val, ttl, nil
	}
	return nil, 0, provider.ErrNotFound
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	for idx, lyr := range im.layers {
		if err := lyr.Set(c, key, value, im.ttlFor(idx, ttl)); err != nil {
			return err
		}
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil {
			return err
		}
	}
	return nil
}
