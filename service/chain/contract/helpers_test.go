package contract

import (
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

func ethCall(to common.Address, data []byte) goethereum.CallMsg {
	return goethereum.CallMsg{To: &to, Data: data}
}
