// Package artifacttest writes hardhat-shaped artifact trees backed by
// hand-assembled contracts, for tests that need deployable code without solc.
package artifacttest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/x-xyz/rwat-deployer/domain/artifact"
)

const (
	// StopCode deploys the one byte runtime 0x00 (STOP): every call succeeds
	// and returns nothing.
	StopCode = "0x600060005360016000f3"
	// AnswerCode deploys a runtime returning the 32 byte word 42 for any call.
	AnswerCode = "0x600a80600b6000396000f3602a60005260206000f3"

	SolcVersion     = "0.8.4"
	SolcLongVersion = "0.8.4+commit.c7e474f2"
	BuildInfoId     = "6d5b5a2e1f0f0c7a3c1e6f2a9b8d7c6e"
)

// Contract describes one artifact to write.
type Contract struct {
	Source string
	Name   string
	Abi    string
	Code   string
}

func (c Contract) artifact() artifact.Artifact {
	abi := c.Abi
	if abi == "" {
		abi = "[]"
	}
	return artifact.Artifact{
		Format:           "hh-sol-artifact-1",
		ContractName:     c.Name,
		SourceName:       c.Source,
		Abi:              json.RawMessage(abi),
		Bytecode:         c.Code,
		DeployedBytecode: "0x00",
		LinkReferences:   map[string]artifact.LinkTarget{},
	}
}

// Write lays out <root>/<Source>/<Name>.json, its .dbg.json and one shared build info file.
func Write(root string, contracts ...Contract) error {
	biDir := filepath.Join(root, "build-info")
	if err := os.MkdirAll(biDir, 0o755); err != nil {
		return err
	}
	sources := map[string]interface{}{}
	for _, c := range contracts {
		sources[c.Source] = map[string]string{"content": "// " + c.Name}
	}
	input := map[string]interface{}{
		"language": "Solidity",
		"sources":  sources,
		"settings": map[string]interface{}{
			"optimizer": map[string]interface{}{"enabled": true, "runs": 1},
		},
	}
	rawInput, err := json.Marshal(input)
	if err != nil {
		return err
	}
	bi := artifact.BuildInfo{
		Id:              BuildInfoId,
		SolcVersion:     SolcVersion,
		SolcLongVersion: SolcLongVersion,
		Input:           rawInput,
	}
	if err := writeJson(filepath.Join(biDir, BuildInfoId+".json"), bi); err != nil {
		return err
	}

	for _, c := range contracts {
		dir := filepath.Join(root, filepath.FromSlash(c.Source))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := writeJson(filepath.Join(dir, c.Name+".json"), c.artifact()); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, filepath.Join(biDir, BuildInfoId+".json"))
		if err != nil {
			return err
		}
		dbg := map[string]string{
			"_format":   "hh-sol-dbg-1",
			"buildInfo": filepath.ToSlash(rel),
		}
		if err := writeJson(filepath.Join(dir, c.Name+".dbg.json"), dbg); err != nil {
			return err
		}
	}
	return nil
}

// Standard writes every contract the deployer resolves by name, all backed
// by AnswerCode so that view calls decode to 42.
func Standard(root string) error {
	oz := "@openzeppelin/contracts/proxy/"
	return Write(root,
		Contract{Source: "contracts/Multicall.sol", Name: "Multicall", Abi: MulticallAbi, Code: AnswerCode},
		Contract{Source: "contracts/RWAT.sol", Name: "RWAT", Abi: RWATAbi, Code: AnswerCode},
		Contract{Source: "contracts/TestToken.sol", Name: "TestToken", Code: AnswerCode},
		Contract{Source: oz + "ERC1967/ERC1967Proxy.sol", Name: "ERC1967Proxy", Code: AnswerCode},
		Contract{Source: oz + "transparent/TransparentUpgradeableProxy.sol", Name: "TransparentUpgradeableProxy", Code: AnswerCode},
		Contract{Source: oz + "transparent/ProxyAdmin.sol", Name: "ProxyAdmin", Code: StopCode},
	)
}

func writeJson(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// MulticallAbi and RWATAbi carry only the initializer surface.
const MulticallAbi = `[{"inputs":[],"name":"initialize","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const RWATAbi = `[
  {"inputs":[{"name":"owner","type":"address"},{"name":"name_","type":"string"},{"name":"symbol_","type":"string"},{"name":"cnr","type":"address"}],"name":"initialize","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"ADMIN","outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view","type":"function"}
]`
