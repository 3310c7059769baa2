package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/database/mongoclient"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/base/metrics"
	"github.com/x-xyz/rwat-deployer/domain"
)

const (
	queryMaxTime  = 20 * time.Second
	slowThreshold = 500 * time.Millisecond
)

var (
	timeNow = time.Now
)

type impl struct {
	client *mongoclient.Client
	met    metrics.Service
}

func New(client *mongoclient.Client) Mongo {
	return &impl{
		client: client,
		met:    metrics.New("mongo"),
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database().Collection(string(table))
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer im.track(context, table, "insert", nil)()

	if _, err := im.coll(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		context.WithFields(log.Fields{"err": err, "table": table}).Error("InsertOne failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, sort string, query, result interface{}) error {
	defer im.track(context, table, "findone", query)()

	opts := options.FindOne().SetMaxTime(queryMaxTime)
	if s := sortOption(sort); len(s) > 0 {
		opts.SetSort(s)
	}
	if err := im.coll(table).FindOne(context, query, opts).Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		context.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("FindOne failed")
		return err
	}
	return nil
}

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer im.track(context, table, "search", query)()

	opts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset)).SetLimit(int64(limit))
	if s := sortOption(sort); len(s) > 0 {
		opts.SetSort(s)
	}
	cursor, err := im.coll(table).Find(context, query, opts)
	if err != nil {
		context.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("Find failed")
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		context.WithFields(log.Fields{"err": err, "table": table}).Error("cursor.All failed")
		return err
	}
	return nil
}

func (im *impl) EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error {
	models := []mongo.IndexModel{}
	for _, idx := range indexes {
		models = append(models, mongo.IndexModel{
			Keys:    sortOption(idx.Keys...),
			Options: options.Index().SetUnique(idx.Unique),
		})
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := im.coll(table).Indexes().CreateMany(context, models); err != nil {
		context.WithFields(log.Fields{"err": err, "table": table}).Error("CreateMany indexes failed")
		return err
	}
	return nil
}

func sortOption(fields ...string) bson.D {
	res := bson.D{}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if f[0] == '-' {
			res = append(res, bson.E{Key: f[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: f, Value: 1})
		}
	}
	return res
}

func (im *impl) track(context ctx.Ctx, table domain.Table, action string, query interface{}) func() {
	start := timeNow()
	return func() {
		elapsed := timeNow().Sub(start)
		im.met.BumpHistogram("query.time", float64(elapsed.Milliseconds()), "table", string(table), "action", action)
		if elapsed >= slowThreshold {
			context.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"durationMs": elapsed.Milliseconds(),
				"query":      query,
			}).Warn("mongo slowlog")
		}
	}
}
