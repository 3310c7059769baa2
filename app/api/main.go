package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gomodule/redigo/redis"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/config"
	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/database/mongoclient"
	"github.com/x-xyz/rwat-deployer/base/database/redisclient"
	"github.com/x-xyz/rwat-deployer/base/log"
	bValidator "github.com/x-xyz/rwat-deployer/base/validator"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
	hcdomain "github.com/x-xyz/rwat-deployer/domain/healthcheck"
	mmiddleware "github.com/x-xyz/rwat-deployer/middleware"
	"github.com/x-xyz/rwat-deployer/service/chain"
	"github.com/x-xyz/rwat-deployer/service/coingecko"
	"github.com/x-xyz/rwat-deployer/service/query"
	artifact_repository "github.com/x-xyz/rwat-deployer/stores/artifact/repository"
	coin_delivery "github.com/x-xyz/rwat-deployer/stores/coin/delivery/http"
	deployment_delivery "github.com/x-xyz/rwat-deployer/stores/deployment/delivery/http"
	deployment_repository "github.com/x-xyz/rwat-deployer/stores/deployment/repository"
	hc_delivery "github.com/x-xyz/rwat-deployer/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/rwat-deployer/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/rwat-deployer/stores/healthcheck/usecase"
	network_delivery "github.com/x-xyz/rwat-deployer/stores/network/delivery/http"
	rwat_delivery "github.com/x-xyz/rwat-deployer/stores/rwat/delivery/http"
	rwat_usecase "github.com/x-xyz/rwat-deployer/stores/rwat/usecase"
)

func main() {
	configPath := pflag.String("config", config.DefaultPath, "config file")
	pflag.Parse()
	if err := config.Load(*configPath); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "path": *configPath}).Error("config.Load failed")
		os.Exit(1)
	}
	cfg := config.New(viper.GetViper())

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()
	deps := []hcdomain.Dependency{}

	// deployment records live in mongo when configured, next to the deployer otherwise
	var repo deployment.Repo
	if m := cfg.Mongo(); m.Uri != "" {
		context.Info("init mongo")
		mongoClient, err := mongoclient.ConnectMongoClient(context, mongoclient.Config{
			Uri:            m.Uri,
			AuthDBName:     m.AuthDBName,
			DbName:         m.DbName,
			SSL:            m.EnableSSL,
			PoolMultiplier: 2,
		})
		if err != nil {
			context.WithField("err", err).Error("mongoclient.ConnectMongoClient failed")
			os.Exit(1)
		}
		defer mongoClient.Disconnect(context)
		q := query.New(mongoClient)
		if err := deployment_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Error("EnsureIndexes failed")
			os.Exit(1)
		}
		repo = deployment_repository.NewMongoRepo(q)
		deps = append(deps, hc_repo.NewMongo(mongoClient))
	} else {
		repo = deployment_repository.NewFileRepo(cfg.Paths().Deployments)
	}

	// init redis cache, the in-memory layer works alone without it
	var redisPool *redis.Pool
	if r := cfg.Redis(); r.Uri != "" {
		context.Info("init redis cache")
		pool, err := redisclient.ConnectRedis(context, r.Uri, r.Password, redisclient.RedisParam{
			PoolMultiplier: r.PoolMultiplier,
			Retries:        3,
		})
		if err != nil {
			context.WithField("err", err).Error("redisclient.ConnectRedis failed")
			os.Exit(1)
		}
		defer pool.Close()
		redisPool = pool
		deps = append(deps, hc_repo.NewRedis(pool))
	}
	mmiddleware.SetupCache(redisPool)

	tx := cfg.Tx()
	resolver := rwat_usecase.NewResolver(rwat_usecase.ResolverCfg{
		Registry: cfg.Registry(),
		Client: chain.ClientCfg{
			Timeout:      tx.Timeout,
			PollInterval: tx.PollInterval,
			PollLimit:    tx.PollLimit,
		},
		Artifacts: artifact_repository.NewFileRepo(cfg.Paths().Artifacts),
	})
	defer resolver.Close()

	gr := cfg.GasReporter()
	coinGecko := coingecko.NewClient(&coingecko.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    cfg.HttpTimeout(),
		BaseUrl:    gr.CoingeckoApi,
		Currency:   gr.Currency,
	})

	cacheTtl := cfg.CacheTtl()
	hc_delivery.New(e, hc_usecase.New(deps...))
	network_delivery.New(e, cfg.Registry())
	deployment_delivery.New(e, repo, cacheTtl)
	rwat_delivery.New(e, resolver, cacheTtl)
	coin_delivery.New(e, coinGecko, gr.Currency)

	go func() {
		if err := e.Start(cfg.ServerAddress()); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
