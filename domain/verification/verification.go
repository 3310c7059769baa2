package verification

import (
	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
)

type Status string

const (
	StatusVerified        Status = "verified"
	StatusAlreadyVerified Status = "already-verified"
	StatusProxyLinked     Status = "proxy-linked"
)

// Request picks what to verify: the latest recorded deployment of Contract,
// or the record holding Address. Contract is required for an address the
// deployment records do not know.
type Request struct {
	Contract string
	Address  domain.Address
}

// Result is one explorer submission.
type Result struct {
	Contract string         `json:"contract"`
	Address  domain.Address `json:"address"`
	Guid     string         `json:"guid,omitempty"`
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
}

type UseCase interface {
	// Verify submits the implementation source and, for proxies, links the
	// proxy to it. Results are in submission order.
	Verify(ctx bCtx.Ctx, req Request) ([]Result, error)
}
