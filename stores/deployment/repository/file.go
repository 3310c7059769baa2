package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	bCtx "github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/base/log"
	"github.com/x-xyz/rwat-deployer/domain"
	"github.com/x-xyz/rwat-deployer/domain/deployment"
)

// fileRepo keeps one JSON array per network under dir.
type fileRepo struct {
	dir string
	mu  sync.Mutex
}

func NewFileRepo(dir string) deployment.Repo {
	return &fileRepo{dir: dir}
}

func (r *fileRepo) path(network string) (string, error) {
	if network == "" || strings.ContainsAny(network, `/\`) || network == "." || network == ".." {
		return "", fmt.Errorf("%w: network %q", domain.ErrBadParamInput, network)
	}
	return filepath.Join(r.dir, network+".json"), nil
}

func (r *fileRepo) read(path string) ([]deployment.Deployment, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []deployment.Deployment{}, nil
	} else if err != nil {
		return nil, err
	}
	res := []deployment.Deployment{}
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// write replaces path atomically.
func (r *fileRepo) write(path string, ds []deployment.Deployment) error {
	b, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (r *fileRepo) Insert(ctx bCtx.Ctx, d *deployment.Deployment) error {
	path, err := r.path(d.Network)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.read(path)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "path": path}).Error("read deployments failed")
		return err
	}
	ds = append(ds, *d)
	if err := r.write(path, ds); err != nil {
		ctx.WithFields(log.Fields{"err": err, "path": path}).Error("write deployments failed")
		return err
	}
	return nil
}

func (r *fileRepo) FindAll(ctx bCtx.Ctx, optFns ...deployment.FindAllOptionsFunc) ([]deployment.Deployment, error) {
	opts, err := deployment.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	paths := []string{}
	if opts.Network != nil {
		path, err := r.path(*opts.Network)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	} else {
		matches, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res := []deployment.Deployment{}
	for _, path := range paths {
		ds, err := r.read(path)
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "path": path}).Error("read deployments failed")
			return nil, err
		}
		for _, d := range ds {
			if match(opts, &d) {
				res = append(res, d)
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	if opts.Limit != nil && int(*opts.Limit) < len(res) {
		res = res[len(res)-int(*opts.Limit):]
	}
	return res, nil
}

func match(opts deployment.FindAllOptions, d *deployment.Deployment) bool {
	if opts.Contract != nil && *opts.Contract != d.Contract {
		return false
	}
	if opts.Address != nil && !d.Proxy.Equals(*opts.Address) && !d.Implementation.Equals(*opts.Address) {
		return false
	}
	return true
}

func (r *fileRepo) FindLatest(ctx bCtx.Ctx, network, contract string) (*deployment.Deployment, error) {
	ds, err := r.FindAll(ctx, deployment.WithNetwork(network), deployment.WithContract(contract), deployment.WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, domain.ErrNotFound
	}
	return &ds[0], nil
}
