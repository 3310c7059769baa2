// Package config loads infra/configs/config.yaml and resolves network profiles.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/env"
	"github.com/x-xyz/rwat-deployer/base/log"
)

const (
	DefaultPath   = "infra/configs/config.yaml"
	DefaultDotEnv = ".env"
)

// Load reads path into the process-wide viper, exports .env entries that the
// environment does not already carry, and applies the debug flag.
func Load(path string) error {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(path)
	SetDefaults(viper.GetViper())
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	if err := LoadDotEnv(DefaultDotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Log().WithFields(log.Fields{"err": err, "path": DefaultDotEnv}).Error("failed to read dotenv")
		return err
	}
	log.SetDebug(viper.GetBool("debug"))
	if viper.GetBool("debug") {
		log.Log().Info("deployer RUN on DEBUG mode")
	}
	return nil
}

// LoadDotEnv exports KEY=VALUE lines of path. Real environment variables win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for _, k := range v.AllKeys() {
		if err := env.SetDefault(strings.ToUpper(k), v.GetString(k)); err != nil {
			return err
		}
	}
	return nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("defaultNetwork", "hardhat")
	v.SetDefault("solidity.version", "0.8.4")
	v.SetDefault("solidity.settings.optimizer.enabled", true)
	v.SetDefault("solidity.settings.optimizer.runs", 1)
	v.SetDefault("paths.artifacts", "artifacts")
	v.SetDefault("paths.deployments", "deployments")
	v.SetDefault("paths.proxyArtifacts", "node_modules/@openzeppelin/upgrades-core/artifacts")
	v.SetDefault("proxy.kind", "transparent")
	v.SetDefault("proxy.artifact", "ERC1967Proxy")
	v.SetDefault("proxy.transparentArtifact", "TransparentUpgradeableProxy")
	v.SetDefault("proxy.adminArtifact", "ProxyAdmin")
	v.SetDefault("tx.timeout", 5*time.Minute)
	v.SetDefault("tx.pollInterval", time.Second)
	v.SetDefault("tx.pollLimit", 15*time.Second)
	v.SetDefault("gasReporter.currency", "USD")
	v.SetDefault("gasReporter.coingeckoApi", "https://api.coingecko.com/api/v3")
	v.SetDefault("server.address", ":9090")
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("redis_cache.poolMultiplier", 2)
	v.SetDefault("cache.ttl", 10*time.Second)
}

// Config reads typed sections from a viper instance.
type Config struct {
	v *viper.Viper
}

func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

func (c *Config) Viper() *viper.Viper {
	return c.v
}

type Paths struct {
	Artifacts   string
	Deployments string
	// ProxyArtifacts is searched after Artifacts, hardhat-upgrades ships the
	// proxy contracts there.
	ProxyArtifacts string
}

func (c *Config) Paths() Paths {
	return Paths{
		Artifacts:      c.v.GetString("paths.artifacts"),
		Deployments:    c.v.GetString("paths.deployments"),
		ProxyArtifacts: c.v.GetString("paths.proxyArtifacts"),
	}
}

// Tx bounds how long a transaction may take to be mined.
type Tx struct {
	Timeout      time.Duration
	PollInterval time.Duration
	PollLimit    time.Duration
}

func (c *Config) Tx() Tx {
	return Tx{
		Timeout:      c.v.GetDuration("tx.timeout"),
		PollInterval: c.v.GetDuration("tx.pollInterval"),
		PollLimit:    c.v.GetDuration("tx.pollLimit"),
	}
}

type Proxy struct {
	Kind                string
	Artifact            string
	TransparentArtifact string
	AdminArtifact       string
}

func (c *Config) Proxy() Proxy {
	return Proxy{
		Kind:                c.v.GetString("proxy.kind"),
		Artifact:            c.v.GetString("proxy.artifact"),
		TransparentArtifact: c.v.GetString("proxy.transparentArtifact"),
		AdminArtifact:       c.v.GetString("proxy.adminArtifact"),
	}
}

type GasReporter struct {
	Enabled      bool
	Currency     string
	Token        string
	GasPriceApi  string
	GasPrice     float64
	CoingeckoApi string
}

func (c *Config) GasReporter() GasReporter {
	return GasReporter{
		Enabled:      c.v.GetBool("gasReporter.enabled"),
		Currency:     c.v.GetString("gasReporter.currency"),
		Token:        c.v.GetString("gasReporter.token"),
		GasPriceApi:  c.v.GetString("gasReporter.gasPriceApi"),
		GasPrice:     c.v.GetFloat64("gasReporter.gasPrice"),
		CoingeckoApi: c.v.GetString("gasReporter.coingeckoApi"),
	}
}

type Mongo struct {
	Uri        string
	DbName     string
	AuthDBName string
	EnableSSL  bool
}

func (c *Config) Mongo() Mongo {
	return Mongo{
		Uri:        c.v.GetString("mongo.uri"),
		DbName:     c.v.GetString("mongo.dbName"),
		AuthDBName: c.v.GetString("mongo.authDBName"),
		EnableSSL:  c.v.GetBool("mongo.enableSSL"),
	}
}

type Redis struct {
	Uri            string
	Password       string
	PoolMultiplier float64
}

func (c *Config) Redis() Redis {
	return Redis{
		Uri:            c.v.GetString("redis_cache.uri"),
		Password:       c.v.GetString("redis_cache.password"),
		PoolMultiplier: c.v.GetFloat64("redis_cache.poolMultiplier"),
	}
}

func (c *Config) ServerAddress() string {
	return c.v.GetString("server.address")
}

func (c *Config) HttpTimeout() time.Duration {
	return c.v.GetDuration("http.timeout")
}

func (c *Config) CacheTtl() time.Duration {
	return c.v.GetDuration("cache.ttl")
}
