package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/rwat-deployer/base/log"
)

const (
	socketTimeout  = 30 * time.Second
	connectTimeout = 10 * time.Second
)

// Client wraps mongo.Client bound to one database.
type Client struct {
	DbName string
	*mongo.Client
}

type Config struct {
	Uri            string
	AuthDBName     string
	DbName         string
	SSL            bool
	PoolMultiplier float64
}

func (c *Client) Database() *mongo.Database {
	return c.Client.Database(c.DbName)
}

// ConnectMongoClient connects and checks that the database is reachable.
func ConnectMongoClient(ctx context.Context, cfg Config) (*Client, error) {
	connSetting, err := connstring.Parse(cfg.Uri)
	if err != nil {
		// the uri may carry credentials
		log.Log().WithFields(log.Fields{"dbName": cfg.DbName, "err": err}).Error("fail to parse connstring")
		return nil, err
	}

	clientOpts := options.Client().
		ApplyURI(cfg.Uri).
		SetSocketTimeout(socketTimeout).
		SetConnectTimeout(connectTimeout).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.New(writeconcern.WMajority()))

	if connSetting.Username != "" && connSetting.AuthSource == "" && cfg.AuthDBName != "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	if cfg.PoolMultiplier > 0 && len(connSetting.Hosts) > 0 {
		// each host keeps its own pool
		poolSize := int(float64(runtime.NumCPU()) * cfg.PoolMultiplier)
		poolSize = (poolSize + len(connSetting.Hosts) - 1) / len(connSetting.Hosts)
		clientOpts.SetMinPoolSize(uint64(poolSize / 4))
		clientOpts.SetMaxPoolSize(uint64(poolSize))
	}

	if cfg.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     cfg.DbName,
			"err":        err,
		}).Error("fail to connect mongo")
		return nil, err
	}

	if _, err := client.Database(cfg.DbName).ListCollectionNames(ctx, bson.D{}); err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     cfg.DbName,
			"err":        err,
		}).Error("fail to list collections")
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Log().WithFields(log.Fields{
		"mongoHosts": connSetting.Hosts,
		"db":         cfg.DbName,
	}).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: cfg.DbName,
	}, nil
}
