package usecase

import (
	"github.com/x-xyz/rwat-deployer/base/ctx"
	hcdomain "github.com/x-xyz/rwat-deployer/domain/healthcheck"
)

type impl struct {
	deps []hcdomain.Dependency
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(deps ...hcdomain.Dependency) hcdomain.HealthCheckUsecase {
	return &impl{
		deps: deps,
	}
}

func (im *impl) Check(context ctx.Ctx) (map[string]string, error) {
	res := map[string]string{}
	var first error
	for _, d := range im.deps {
		if err := d.Ping(context); err != nil {
			res[d.Name()] = err.Error()
			if first == nil {
				first = err
			}
			continue
		}
		res[d.Name()] = hcdomain.StatusOk
	}
	return res, first
}
