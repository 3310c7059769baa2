package healthcheck

import (
	"github.com/x-xyz/rwat-deployer/base/ctx"
)

const StatusOk = "ok"

// Dependency is a backing service of the query API.
type Dependency interface {
	Name() string
	Ping(context ctx.Ctx) error
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check pings every dependency. The map holds StatusOk or the error text
	// per dependency, err is the first failure.
	Check(context ctx.Ctx) (map[string]string, error)
}
