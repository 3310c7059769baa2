package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/base/metrics"
	"github.com/x-xyz/rwat-deployer/domain/keys"
	"github.com/x-xyz/rwat-deployer/service/cache/provider"
)

const (
	// PTTL replies
	pttlNoKey    = -2
	pttlNoExpire = -1
)

type impl struct {
	name string
	pool *redis.Pool
	met  metrics.Service
}

func NewRedis(name string, pool *redis.Pool) provider.Provider {
	return &impl{
		name: name,
		pool: pool,
		met:  metrics.New("redis"),
	}
}

func (im *impl) do(c ctx.Ctx, command string, key string, args ...interface{}) (interface{}, error) {
	defer im.met.BumpTime("cmd.time", "cluster", im.name, "cmd", command, "prefix", keys.GetPrefix(key)).End()
	conn, err := im.pool.GetContext(c)
	if err != nil {
		im.met.BumpSum("getConn.err", 1, "cluster", im.name)
		return nil, err
	}
	reply, err := conn.Do(command, append([]interface{}{key}, args...)...)
	if cerr := conn.Close(); cerr != nil {
		im.met.BumpSum("conn.close.err", 1, "cluster", im.name)
	}
	return reply, err
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := redis.Bytes(im.do(c, "GET", key))
	if err == redis.ErrNil {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis GET failed")
		return nil, 0, err
	}
	ms, err := redis.Int64(im.do(c, "PTTL", key))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis PTTL failed")
		return nil, 0, err
	}
	switch ms {
	case pttlNoKey:
		// expired between GET and PTTL
		return nil, 0, provider.ErrNotFound
	case pttlNoExpire:
		return val, 0, nil
	}
	return val, time.Duration(ms) * time.Millisecond, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	var err error
	if ttl > 0 {
		_, err = im.do(c, "SET", key, value, "PX", ttl.Milliseconds())
	} else {
		_, err = im.do(c, "SET", key, value)
	}
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis SET failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.do(c, "DEL", key); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis DEL failed")
		return err
	}
	return nil
}
