package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EIP-1967 storage slots
var (
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	AdminSlot          = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
)

var (
	ERC1967ProxyABI                abi.ABI
	TransparentUpgradeableProxyABI abi.ABI
	ProxyAdminABI                  abi.ABI
	UUPSUpgradeableABI             abi.ABI
)

func init() {
	for _, def := range []struct {
		dst  *abi.ABI
		json string
	}{
		{&ERC1967ProxyABI, erc1967ProxyABIJson},
		{&TransparentUpgradeableProxyABI, transparentProxyABIJson},
		{&ProxyAdminABI, proxyAdminABIJson},
		{&UUPSUpgradeableABI, uupsABIJson},
	} {
		_abi, err := abi.JSON(strings.NewReader(def.json))
		if err != nil {
			panic("Failed to parse proxy ABI")
		}
		*def.dst = _abi
	}
}

var erc1967ProxyABIJson = `
[
  {
    "inputs": [
      { "internalType": "address", "name": "_logic", "type": "address" },
      { "internalType": "bytes", "name": "_data", "type": "bytes" }
    ],
    "stateMutability": "payable",
    "type": "constructor"
  }
]
`

var transparentProxyABIJson = `
[
  {
    "inputs": [
      { "internalType": "address", "name": "_logic", "type": "address" },
      { "internalType": "address", "name": "admin_", "type": "address" },
      { "internalType": "bytes", "name": "_data", "type": "bytes" }
    ],
    "stateMutability": "payable",
    "type": "constructor"
  }
]
`

var proxyAdminABIJson = `
[
  {
    "inputs": [
      { "internalType": "contract TransparentUpgradeableProxy", "name": "proxy", "type": "address" },
      { "internalType": "address", "name": "implementation", "type": "address" }
    ],
    "name": "upgrade",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "contract TransparentUpgradeableProxy", "name": "proxy", "type": "address" }
    ],
    "name": "getProxyImplementation",
    "outputs": [{ "internalType": "address", "name": "", "type": "address" }],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "owner",
    "outputs": [{ "internalType": "address", "name": "", "type": "address" }],
    "stateMutability": "view",
    "type": "function"
  }
]
`

var uupsABIJson = `
[
  {
    "inputs": [{ "internalType": "address", "name": "newImplementation", "type": "address" }],
    "name": "upgradeTo",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]
`
