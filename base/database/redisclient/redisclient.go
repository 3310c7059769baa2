package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/rwat-deployer/base/backoff"
	"github.com/x-xyz/rwat-deployer/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
	idleTimeout  = 240 * time.Second
)

type RedisParam struct {
	// PoolMultiplier sizes the pool per CPU; zero uses fixed defaults.
	PoolMultiplier float64
	// Retries is how many extra dial attempts are made before giving up.
	Retries int
}

func newPool(uri, password string, param RedisParam) *redis.Pool {
	maxIdle, maxActive := 16, 64
	if param.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		maxActive = int(cpu*param.PoolMultiplier) + 1
		maxIdle = maxActive/4 + 1
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if password != "" {
		opts = append(opts, redis.DialPassword(password))
	}
	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: idleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// ConnectRedis builds a pool for uri and pings it, retrying with backoff.
func ConnectRedis(ctx context.Context, uri, password string, param RedisParam) (*redis.Pool, error) {
	p := newPool(uri, password, param)
	b := backoff.NewExponential(500*time.Millisecond, 4*time.Second)

	var err error
	for attempt := 0; attempt <= param.Retries; attempt++ {
		if attempt > 0 {
			if berr := b.Backoff(ctx); berr != nil {
				break
			}
		}
		if err = ping(ctx, p); err == nil {
			log.Log().WithField("redisURI", uri).Info("redis connected")
			return p, nil
		}
		log.Log().WithFields(log.Fields{
			"redisURI": uri,
			"err":      err,
			"attempt":  attempt,
		}).Warn("fail to ping redis")
	}
	p.Close()
	log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Error("fail to connect redis")
	return nil, err
}

func ping(ctx context.Context, p *redis.Pool) error {
	c, err := p.GetContext(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("PING")
	return err
}
