package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var MulticallABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(multicallABIJson))
	if err != nil {
		panic("Failed to parse Multicall ABI")
	}
	MulticallABI = _abi
}

var multicallABIJson = `
[
  {
    "inputs": [],
    "name": "initialize",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "components": [
          { "internalType": "address", "name": "target", "type": "address" },
          { "internalType": "bytes", "name": "callData", "type": "bytes" }
        ],
        "internalType": "struct Multicall.Call[]",
        "name": "calls",
        "type": "tuple[]"
      }
    ],
    "name": "aggregate",
    "outputs": [
      { "internalType": "uint256", "name": "blockNumber", "type": "uint256" },
      { "internalType": "bytes[]", "name": "returnData", "type": "bytes[]" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]
`
