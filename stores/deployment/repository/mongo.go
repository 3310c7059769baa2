package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/database/mongoclient"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	"github.com/x-xyz/rwat-deployer/service/query"
)

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) deployment.Repo {
	return &mongoRepo{q: q}
}

// EnsureIndexes creates the indexes FindAll and FindLatest rely on.
func EnsureIndexes(ctx bCtx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(ctx, domain.TableDeployments,
		query.Index{Keys: []string{"network", "contract", "createdAt"}},
		query.Index{Keys: []string{"proxy"}},
		query.Index{Keys: []string{"implementation"}},
	)
}

func (r *mongoRepo) Insert(ctx bCtx.Ctx, d *deployment.Deployment) error {
	if err := r.q.Insert(ctx, domain.TableDeployments, d); err != nil {
		ctx.WithFields(log.Fields{"err": err, "deployment": d}).Error("q.Insert failed")
		return err
	}
	return nil
}

func selector(opts deployment.FindAllOptions) (bson.M, error) {
	sel, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		return nil, err
	}
	if opts.Address != nil {
		sel["$or"] = bson.A{
			bson.M{"proxy": *opts.Address},
			bson.M{"implementation": *opts.Address},
		}
	}
	return sel, nil
}

func (r *mongoRepo) FindAll(ctx bCtx.Ctx, optFns ...deployment.FindAllOptionsFunc) ([]deployment.Deployment, error) {
	opts, err := deployment.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}
	sel, err := selector(opts)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "opts": opts}).Error("MakeBsonM failed")
		return nil, err
	}

	res := []deployment.Deployment{}
	if opts.Limit == nil {
		if err := r.q.Search(ctx, domain.TableDeployments, 0, 0, "createdAt", sel, &res); err != nil {
			return nil, err
		}
		return res, nil
	}
	// newest N, returned oldest first
	if err := r.q.Search(ctx, domain.TableDeployments, 0, int(*opts.Limit), "-createdAt", sel, &res); err != nil {
		return nil, err
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res, nil
}

func (r *mongoRepo) FindLatest(ctx bCtx.Ctx, network, contract string) (*deployment.Deployment, error) {
	res := &deployment.Deployment{}
	sel := bson.M{"network": network, "contract": contract}
	if err := r.q.FindOne(ctx, domain.TableDeployments, "-createdAt", sel, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return res, nil
}
