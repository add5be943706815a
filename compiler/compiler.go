// Package compiler runs equality derivation over Go packages: it loads the
// packages, derives the equality routines of their struct types and writes
// one generated file per package.
package compiler

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/syssam/equatable/compiler/cleanup"
	"github.com/syssam/equatable/compiler/gen"
	"github.com/syssam/equatable/compiler/gen/golang"
	"github.com/syssam/equatable/compiler/load"
)

// Report summarises a run over one or more packages.
type Report struct {
	// Results holds the derivation result of each loaded package.
	Results []*gen.Result
	// Cleaned lists the source files rewritten by the annotation cleanup.
	Cleaned []string
}

// Derived returns the number of derived types over all packages.
func (r *Report) Derived() (n int) {
	for _, res := range r.Results {
		n += len(res.Derived)
	}
	return n
}

// Skipped returns the number of types without equality content.
func (r *Report) Skipped() (n int) {
	for _, res := range r.Results {
		n += len(res.Skipped)
	}
	return n
}

// Failed returns the number of types whose derivation failed.
func (r *Report) Failed() (n int) {
	for _, res := range r.Results {
		n += len(res.Failed)
	}
	return n
}

// Generate loads the packages matching patterns, resolved against dir, and
// writes their generated files. A failing package or type does not stop
// the run; all errors are joined and returned with the report.
func Generate(ctx context.Context, cfg *gen.Config, dir string, patterns ...string) (*Report, error) {
	if cfg == nil {
		return nil, gen.NewConfigError("Config", nil, "missing configuration")
	}
	pkgs, err := Load(ctx, cfg, dir, patterns...)
	if err != nil {
		return nil, err
	}
	var (
		errs   []error
		report = &Report{}
	)
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		g, err := gen.NewGraph(cfg, pkg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res, err := golang.Generate(ctx, g)
		if err != nil {
			errs = append(errs, err)
		}
		if res == nil {
			continue
		}
		report.Results = append(report.Results, res)
		if cfg.Cleanup {
			cleaned, err := Cleanup(res)
			report.Cleaned = append(report.Cleaned, cleaned...)
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return report, errors.Join(errs...)
}

// Load loads the packages matching patterns with the loader settings of cfg.
func Load(ctx context.Context, cfg *gen.Config, dir string, patterns ...string) ([]*load.Package, error) {
	return cfg.LoadConfig(dir).Load(ctx, patterns...)
}

// Cleanup strips the equatable annotations of the derived types of res from
// their source files and returns the files it rewrote.
func Cleanup(res *gen.Result) ([]string, error) {
	files := make(map[string][]string)
	for _, set := range res.Derived {
		t := set.Type
		positions := []string{t.Pos}
		for _, m := range t.Def().Methods {
			if len(m.Annotations) > 0 {
				positions = append(positions, m.Pos)
			}
		}
		for _, pos := range positions {
			if path := posFile(pos); path != "" && !slices.Contains(files[path], t.Name) {
				files[path] = append(files[path], t.Name)
			}
		}
	}
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	var (
		errs    []error
		cleaned []string
	)
	for _, path := range paths {
		changed, err := cleanup.File(path, files[path]...)
		if err != nil {
			errs = append(errs, gen.NewGenerationError("cleanup", path, "stripping annotations", err))
			continue
		}
		if changed {
			cleaned = append(cleaned, path)
		}
	}
	return cleaned, errors.Join(errs...)
}

// posFile returns the file name of a "file:line:column" position.
func posFile(pos string) string {
	for range 2 {
		i := strings.LastIndexByte(pos, ':')
		if i < 0 {
			return ""
		}
		pos = pos[:i]
	}
	return pos
}
