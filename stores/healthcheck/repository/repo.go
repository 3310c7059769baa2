package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/database/mongoclient"
	hcdomain "github.com/x-xyz/rwat-deployer/domain/healthcheck"
	"github.com/x-xyz/rwat-deployer/domain/keys"
)

const pingTimeout = 2 * time.Second

type mongoImpl struct {
	mgoClient *mongoclient.Client
}

// NewMongo pings the primary of the deployment store.
func NewMongo(mgoClient *mongoclient.Client) hcdomain.Dependency {
	return &mongoImpl{mgoClient: mgoClient}
}

func (im *mongoImpl) Name() string {
	return "mongo"
}

func (im *mongoImpl) Ping(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

type redisImpl struct {
	pool *redis.Pool
}

// NewRedis writes a short lived key, a read-only replica fails the check.
func NewRedis(pool *redis.Pool) hcdomain.Dependency {
	return &redisImpl{pool: pool}
}

func (im *redisImpl) Name() string {
	return "redis"
}

func (im *redisImpl) Ping(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	conn, err := im.pool.GetContext(ctx)
	if err != nil {
		context.WithField("err", err).Error("pool.GetContext failed")
		return err
	}
	defer conn.Close()
	if _, err := conn.Do("SET", keys.RedisKey(keys.PfxHealthCheck, "testset"), "1", "EX", 30); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
