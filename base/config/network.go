package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/env"
	bValidator "github.com/x-xyz/rwat-deployer/base/validator"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/network"
)

type profileRules struct {
	Name           string   `validate:"required"`
	Url            string   `validate:"omitempty,url"`
	Accounts       []string `validate:"dive,privkey"`
	MaxConcurrency int      `validate:"gte=0"`
	Multicall      string   `validate:"omitempty,ethaddr"`
}

type registry struct {
	v        *viper.Viper
	validate *validator.Validate
}

// Registry resolves networks.<name> entries. Viper folds keys to lower case,
// so lookups are case-insensitive and the display name comes from the
// entry's own name field when set.
func (c *Config) Registry() network.Registry {
	return &registry{v: c.v, validate: bValidator.New()}
}

func (r *registry) networks() *viper.Viper {
	if sub := r.v.Sub("networks"); sub != nil {
		return sub
	}
	return viper.New()
}

func (r *registry) Names() []string {
	nets := r.networks()
	names := []string{}
	for key := range nets.AllSettings() {
		names = append(names, displayName(nets, key))
	}
	sort.Strings(names)
	return names
}

func (r *registry) Default() string {
	return r.v.GetString("defaultNetwork")
}

func (r *registry) Compiler() network.Compiler {
	return network.Compiler{
		Version: r.v.GetString("solidity.version"),
		Optimizer: network.Optimizer{
			Enabled: r.v.GetBool("solidity.settings.optimizer.enabled"),
			Runs:    r.v.GetInt("solidity.settings.optimizer.runs"),
		},
	}
}

func displayName(nets *viper.Viper, key string) string {
	if n := nets.GetString(key + ".name"); n != "" {
		return n
	}
	return key
}

func (r *registry) Network(name string) (network.Profile, error) {
	if name == "" {
		name = r.Default()
	}
	nets := r.networks()
	key := strings.ToLower(name)
	if _, ok := nets.AllSettings()[key]; !ok {
		if key != network.LocalName {
			return network.Profile{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownNetwork)
		}
	}
	n := nets.Sub(key)
	if n == nil {
		// hardhat needs no configuration
		n = viper.New()
	}

	p := network.Profile{
		Name:                       displayName(nets, key),
		ChainId:                    n.GetInt64("chainId"),
		MaxConcurrency:             n.GetInt("maxConcurrency"),
		AllowUnlimitedContractSize: n.GetBool("allowUnlimitedContractSize"),
		GasToken:                   n.GetString("gasToken"),
		Multicall:                  n.GetString("multicall"),
		Explorer: network.Explorer{
			BrowserUrl: n.GetString("explorer.browserUrl"),
		},
	}

	var err error
	if p.Url, err = resolve(n.GetString("url"), n.GetString("urlEnv")); err != nil {
		return network.Profile{}, fmt.Errorf("network %s url: %w", p.Name, err)
	}
	if p.Accounts, err = resolveAll(n.GetStringSlice("accounts"), n.GetStringSlice("accountsEnv")); err != nil {
		return network.Profile{}, fmt.Errorf("network %s accounts: %w", p.Name, err)
	}

	// explorer settings only matter to verify, a missing key is reported there
	p.Explorer.ApiUrl, _ = resolve(n.GetString("explorer.apiUrl"), n.GetString("explorer.apiUrlEnv"))
	p.Explorer.ApiKey, _ = resolve(n.GetString("explorer.apiKey"), n.GetString("explorer.apiKeyEnv"))
	if p.Explorer.ApiKey == "" {
		p.Explorer.ApiKey, _ = resolve(r.v.GetString("etherscan.apiKey"), r.v.GetString("etherscan.apiKeyEnv"))
	}

	if p.IsLocal() {
		if p.ChainId == 0 {
			p.ChainId = network.LocalChainId
		}
		if len(p.Accounts) == 0 {
			p.Accounts = append([]string{}, network.DevAccounts...)
		}
	} else if len(p.Accounts) == 0 {
		return network.Profile{}, fmt.Errorf("network %s has no accounts: %w", p.Name, domain.ErrBadParamInput)
	}

	if err := r.validate.Struct(profileRules{
		Name:           p.Name,
		Url:            p.Url,
		Accounts:       p.Accounts,
		MaxConcurrency: p.MaxConcurrency,
		Multicall:      p.Multicall,
	}); err != nil {
		// validator messages would echo the keys
		return network.Profile{}, fmt.Errorf("network %s: %s: %w", p.Name, fieldNames(err), domain.ErrBadParamInput)
	}
	return p, nil
}

func fieldNames(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return strings.Join(fields, ", ")
}

// resolve prefers the variable named by envName, then the literal value.
func resolve(literal, envName string) (string, error) {
	if envName != "" {
		if v, ok := env.Lookup(envName); ok {
			return v, nil
		}
		if literal == "" {
			return "", fmt.Errorf("%s: %w", envName, domain.ErrMissingEnv)
		}
	}
	return strings.TrimSpace(literal), nil
}

func resolveAll(literals, envNames []string) ([]string, error) {
	res := []string{}
	for _, name := range envNames {
		v, err := resolve("", name)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	for _, l := range literals {
		if l = strings.TrimSpace(l); l != "" {
			res = append(res, l)
		}
	}
	return res, nil
}
