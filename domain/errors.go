package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// configuration
	ErrUnknownNetwork = errors.New("unknown network")
	ErrMissingEnv     = errors.New("missing environment variable")

	// artifacts and deployments
	ErrArtifactNotFound     = errors.New("artifact not found")
	ErrContractTooLarge     = errors.New("contract code size exceeds limit")
	ErrUnsupportedProxyKind = errors.New("unsupported proxy kind")
	ErrUnsupportedAbiType   = errors.New("unsupported abi type")

	// chain
	ErrNoSigner   = errors.New("no signer available")
	ErrTxReverted = errors.New("transaction reverted")
	ErrNoCode     = errors.New("no code at address")
	// ErrImplementationMismatch is returned when a proxy's implementation slot
	// does not hold the implementation just deployed
	ErrImplementationMismatch = errors.New("proxy implementation mismatch")

	ErrVerificationFailed = errors.New("verification failed")

	ErrInvalidAddress = errors.New("Invalid address")
)
