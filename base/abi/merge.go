package abi

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Merge returns override extended with the methods and events of fallback it
// does not define itself. Neither argument is modified.
func Merge(fallback, override abi.ABI) abi.ABI {
	merged := override
	merged.Methods = make(map[string]abi.Method, len(fallback.Methods)+len(override.Methods))
	for name, m := range fallback.Methods {
		merged.Methods[name] = m
	}
	for name, m := range override.Methods {
		merged.Methods[name] = m
	}
	merged.Events = make(map[string]abi.Event, len(fallback.Events)+len(override.Events))
	for name, e := range fallback.Events {
		merged.Events[name] = e
	}
	for name, e := range override.Events {
		merged.Events[name] = e
	}
	return merged
}
