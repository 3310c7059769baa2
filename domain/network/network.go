package network

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/x-xyz/rwat-deployer/domain"
)

// MaxContractSize is the EIP-170 runtime code limit.
const MaxContractSize = 24576

// LocalChainId is the chain id of the in-process network.
const LocalChainId = 1337

// LocalName is the profile served by the in-process chain.
const LocalName = "hardhat"

// DevAccounts are the first five keys of the "test test ... junk" mnemonic,
// prefunded on the local network.
var DevAccounts = []string{
	"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"0x7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"0x47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
}

// DevBalance is 10000 ether.
var DevBalance = new(big.Int).Mul(big.NewInt(10000), big.NewInt(1e18))

type Explorer struct {
	ApiUrl     string `json:"apiUrl"`
	ApiKey     string `json:"apiKey,omitempty"`
	BrowserUrl string `json:"browserUrl,omitempty"`
}

// Profile is a resolved network: every *Env reference has already been
// replaced by its value.
type Profile struct {
	Name                       string   `json:"name"`
	ChainId                    int64    `json:"chainId"`
	Url                        string   `json:"url,omitempty"`
	Accounts                   []string `json:"accounts,omitempty"`
	AllowUnlimitedContractSize bool     `json:"allowUnlimitedContractSize"`
	MaxConcurrency             int      `json:"maxConcurrency,omitempty"`
	GasToken                   string   `json:"gasToken,omitempty"`
	Explorer                   Explorer `json:"explorer"`
	Multicall                  string   `json:"multicall,omitempty"`
}

// IsLocal reports whether the profile runs on the in-process chain.
func (p Profile) IsLocal() bool {
	return p.Url == ""
}

// CheckContractSize applies EIP-170. The in-process chain enforces the limit
// whatever AllowUnlimitedContractSize says.
func (p Profile) CheckContractSize(n int) error {
	if n <= MaxContractSize {
		return nil
	}
	if p.IsLocal() {
		return fmt.Errorf("%d bytes on %s (limit %d), the in-process chain cannot lift it, use a remote node with allowUnlimitedContractSize: %w",
			n, p.Name, MaxContractSize, domain.ErrContractTooLarge)
	}
	if !p.AllowUnlimitedContractSize {
		return fmt.Errorf("%d bytes on %s (limit %d): %w", n, p.Name, MaxContractSize, domain.ErrContractTooLarge)
	}
	return nil
}

// Redacted hides keys so the profile can be printed or served.
func (p Profile) Redacted() Profile {
	accounts := make([]string, len(p.Accounts))
	for i, a := range p.Accounts {
		accounts[i] = redact(a)
	}
	p.Accounts = accounts
	p.Explorer.ApiKey = redact(p.Explorer.ApiKey)
	p.Url = redactUrl(p.Url)
	return p
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// node providers embed the api key in the last path segment
func redactUrl(u string) string {
	i := strings.LastIndex(u, "/")
	if i < 0 || i == len(u)-1 || strings.HasSuffix(u[:i], ":/") {
		return u
	}
	return u[:i+1] + redact(u[i+1:])
}

type Optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

type Compiler struct {
	Version   string    `json:"version"`
	Optimizer Optimizer `json:"optimizer"`
}

// Registry resolves profiles by name.
type Registry interface {
	Names() []string
	Default() string
	Network(name string) (Profile, error)
	Compiler() Compiler
}
