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
	"github.com/x-xyz/rwat-deployer/domain/artifact"
)

type fileRepo struct {
	root string

	once    sync.Once
	scanErr error
	// short name -> artifact paths
	byName map[string][]string
}

// NewFileRepo reads hardhat artifacts under root (usually ./artifacts).
func NewFileRepo(root string) artifact.Repository {
	return &fileRepo{root: root}
}

func (r *fileRepo) scan(ctx bCtx.Ctx) error {
	r.once.Do(func() {
		r.byName = map[string][]string{}
		r.scanErr = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// a missing root holds no artifacts
				if path == r.root && errors.Is(err, fs.ErrNotExist) {
					ctx.WithField("root", r.root).Debug("artifact root does not exist")
					return nil
				}
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".dbg.json") {
				return nil
			}
			short := strings.TrimSuffix(name, ".json")
			r.byName[short] = append(r.byName[short], path)
			return nil
		})
		if r.scanErr != nil {
			ctx.WithFields(log.Fields{"err": r.scanErr, "root": r.root}).Error("failed to scan artifacts")
		}
	})
	return r.scanErr
}

func (r *fileRepo) FindByName(ctx bCtx.Ctx, name string) (*artifact.Artifact, error) {
	if err := r.scan(ctx); err != nil {
		return nil, err
	}

	source, short := "", name
	if i := strings.LastIndex(name, ":"); i >= 0 {
		source, short = name[:i], name[i+1:]
	}

	var candidates []*artifact.Artifact
	for _, path := range r.byName[short] {
		a, err := load(path)
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "path": path}).Error("failed to load artifact")
			return nil, err
		}
		if a.ContractName != short {
			continue
		}
		if source != "" && a.SourceName != source {
			continue
		}
		candidates = append(candidates, a)
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%s under %s: %w", name, r.root, domain.ErrArtifactNotFound)
	case 1:
		return candidates[0], nil
	}
	fqns := make([]string, len(candidates))
	for i, c := range candidates {
		fqns[i] = c.FullyQualifiedName()
	}
	sort.Strings(fqns)
	return nil, fmt.Errorf("%s is ambiguous, use one of %s: %w", name, strings.Join(fqns, ", "), domain.ErrBadParamInput)
}

func (r *fileRepo) List(ctx bCtx.Ctx) ([]string, error) {
	if err := r.scan(ctx); err != nil {
		return nil, err
	}
	var res []string
	for _, paths := range r.byName {
		for _, path := range paths {
			a, err := load(path)
			if err != nil || a.Format == "" {
				// not an artifact, e.g. a stray json file
				continue
			}
			res = append(res, a.FullyQualifiedName())
		}
	}
	sort.Strings(res)
	return res, nil
}

type debugFile struct {
	BuildInfo string `json:"buildInfo"`
}

func (r *fileRepo) BuildInfo(ctx bCtx.Ctx, a *artifact.Artifact) (*artifact.BuildInfo, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("%s was not loaded from disk: %w", a.ContractName, domain.ErrArtifactNotFound)
	}
	dbgPath := strings.TrimSuffix(a.Path, ".json") + ".dbg.json"
	dbg := debugFile{}
	if err := readJson(dbgPath, &dbg); err != nil {
		ctx.WithFields(log.Fields{"err": err, "path": dbgPath}).Error("failed to read debug file")
		return nil, err
	}
	// buildInfo is relative to the dbg file
	path := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	info := &artifact.BuildInfo{}
	if err := readJson(path, info); err != nil {
		ctx.WithFields(log.Fields{"err": err, "path": path}).Error("failed to read build info")
		return nil, err
	}
	return info, nil
}

func load(path string) (*artifact.Artifact, error) {
	a := &artifact.Artifact{}
	if err := readJson(path, a); err != nil {
		return nil, err
	}
	a.Path = path
	return a, nil
}

func readJson(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, domain.ErrArtifactNotFound)
	} else if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
