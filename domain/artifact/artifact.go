package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
)

// Artifact is a hardhat compilation output (format hh-sol-artifact-1).
type Artifact struct {
	Format           string                `json:"_format"`
	ContractName     string                `json:"contractName"`
	SourceName       string                `json:"sourceName"`
	Abi              json.RawMessage       `json:"abi"`
	Bytecode         string                `json:"bytecode"`
	DeployedBytecode string                `json:"deployedBytecode"`
	LinkReferences   map[string]LinkTarget `json:"linkReferences"`

	// Path is where the artifact was loaded from.
	Path string `json:"-"`
}

// LinkTarget maps library names to their placeholder offsets.
type LinkTarget map[string][]struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// FullyQualifiedName is the path/File.sol:Name form hardhat and the explorers use.
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// ShortName strips the source path from a fully-qualified name.
func ShortName(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (a *Artifact) ABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(a.Abi))
}

// Code decodes the creation bytecode.
func (a *Artifact) Code() ([]byte, error) {
	return decode(a.ContractName, a.Bytecode)
}

// RuntimeCode decodes the deployed bytecode.
func (a *Artifact) RuntimeCode() ([]byte, error) {
	return decode(a.ContractName, a.DeployedBytecode)
}

func decode(name, code string) ([]byte, error) {
	if i := strings.Index(code, "__$"); i >= 0 {
		return nil, fmt.Errorf("%s has unlinked library placeholder at char %d", name, i)
	}
	if code == "" || code == "0x" {
		return nil, fmt.Errorf("%s has no bytecode (abstract contract or interface)", name)
	}
	return hexutil.Decode(code)
}

// BuildInfo is the compiler input and version behind an artifact.
type BuildInfo struct {
	Id              string          `json:"id"`
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}

type Repository interface {
	// FindByName accepts a short name (RWAT) or a fully-qualified one (contracts/RWAT.sol:RWAT).
	FindByName(ctx bCtx.Ctx, name string) (*Artifact, error)
	BuildInfo(ctx bCtx.Ctx, a *Artifact) (*BuildInfo, error)
	// List returns the fully-qualified names of every artifact.
	List(ctx bCtx.Ctx) ([]string, error)
}
