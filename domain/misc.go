package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var Big1 = big.NewInt(1)

type ChainId int64

// Address is a hex address, compared case-insensitively. Records and cache
// keys use the lower case form.
type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

// AddressOf converts a go-ethereum address to its lower case form.
func AddressOf(a common.Address) Address {
	return Address(a.Hex()).ToLower()
}

type TxHash string
