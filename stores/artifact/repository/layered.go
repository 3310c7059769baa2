package repository

import (
	"errors"
	"fmt"
	"sort"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/artifact"
)

type layeredRepo struct {
	repos []artifact.Repository
}

// NewLayeredRepo looks a name up in each repo in turn, the first one that has
// it wins. The project's artifacts go first, the upgrades plugin's proxy
// artifacts after them.
func NewLayeredRepo(repos ...artifact.Repository) artifact.Repository {
	return &layeredRepo{repos: repos}
}

func (r *layeredRepo) FindByName(ctx bCtx.Ctx, name string) (*artifact.Artifact, error) {
	var first error
	for _, repo := range r.repos {
		a, err := repo.FindByName(ctx, name)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = fmt.Errorf("%s: %w", name, domain.ErrArtifactNotFound)
	}
	return nil, first
}

func (r *layeredRepo) BuildInfo(ctx bCtx.Ctx, a *artifact.Artifact) (*artifact.BuildInfo, error) {
	err := fmt.Errorf("%s: %w", a.ContractName, domain.ErrArtifactNotFound)
	for _, repo := range r.repos {
		var bi *artifact.BuildInfo
		if bi, err = repo.BuildInfo(ctx, a); err == nil || !errors.Is(err, domain.ErrArtifactNotFound) {
			return bi, err
		}
	}
	return nil, err
}

func (r *layeredRepo) List(ctx bCtx.Ctx) ([]string, error) {
	seen := map[string]bool{}
	res := []string{}
	for _, repo := range r.repos {
		names, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				res = append(res, n)
			}
		}
	}
	sort.Strings(res)
	return res, nil
}
