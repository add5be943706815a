package gen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/equatable/compiler/load"
)

type (
	// Graph holds the classified struct types of one package.
	Graph struct {
		*Config
		// Package is the loaded package.
		Package *load.Package
		// Nodes are the struct types of the package in declaration order.
		Nodes []*Type

		resolver *Resolver
	}

	// AttachmentSink receives the routine sets of derived types. Attach is
	// never called concurrently, and is called in declaration order.
	AttachmentSink interface {
		Attach(*RoutineSet) error
	}

	// Result summarises a derivation pass.
	Result struct {
		Package string
		// Derived holds the attached routine sets in declaration order.
		Derived []*RoutineSet
		// Skipped holds the names of types without equality content.
		Skipped []string
		// Failed holds the names of types whose derivation failed.
		Failed []string
	}

	// outcome is the synthesis result of one type.
	outcome struct {
		set *RoutineSet
		// warnings of the policy resolution.
		warnings []Diagnostic
		err      error
		skipped  bool
	}
)

// NewGraph classifies the struct types of a loaded package.
func NewGraph(c *Config, pkg *load.Package) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "missing configuration")
	}
	if pkg == nil {
		return nil, NewConfigError("Package", nil, "missing package")
	}
	g := &Graph{Config: c, Package: pkg}
	for _, def := range pkg.Types {
		t, err := NewType(c, def)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, t)
	}
	g.resolver = NewResolver(pkg, g.Nodes)
	return g, nil
}

// Type returns the node with the given name.
func (g *Graph) Type(name string) (*Type, bool) {
	for _, t := range g.Nodes {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Derive runs a derivation pass over the package. Types are synthesized in
// parallel and attached to the sink one by one. A failing type does not
// stop the pass: its error is reported and the pass continues, returning
// a *DeriveError at the end.
func (g *Graph) Derive(ctx context.Context, sink AttachmentSink) (*Result, error) {
	if sink == nil {
		return nil, NewConfigError("AttachmentSink", nil, "missing attachment sink")
	}
	outcomes := make([]outcome, len(g.Nodes))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, t := range g.Nodes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = g.synthesize(t)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var (
		diags   = g.sink()
		errs    []error
		failed  = make(map[string]bool)
		blocked = blockedByBase(g.Nodes, outcomes)
		res     = &Result{Package: g.Package.PkgPath}
	)
	for _, o := range g.Package.Orphans {
		diags.Report(Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("function %s carries an equatable directive but is not bound to a struct type of the package", o.Name),
			Pos:      o.Pos,
		})
	}
	fail := func(t *Type, err error) {
		failed[t.Name] = true
		res.Failed = append(res.Failed, t.Name)
		errs = append(errs, err)
		diags.Report(Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
			Pos:      errPos(err, t.Pos),
			Type:     t.Name,
			Err:      err,
		})
	}
	for i, t := range g.Nodes {
		o := outcomes[i]
		for _, w := range o.warnings {
			diags.Report(w)
		}
		switch {
		case o.skipped:
			res.Skipped = append(res.Skipped, t.Name)
			diags.Report(Diagnostic{Severity: SeverityDebug, Message: fmt.Sprintf("skipping %s: no equality content", t.Name), Pos: t.Pos, Type: t.Name})
			continue
		case o.err != nil:
			fail(t, o.err)
			continue
		}
		if b := o.set.Policy.Base; b != nil && b.Derived && (blocked[t.Name] || failed[b.TypeName]) {
			fail(t, NewValidationError(t.Name, b.Field, t.Pos, fmt.Sprintf("base type %s failed derivation", b.TypeName)))
			continue
		}
		if err := g.attach(sink, o.set); err != nil {
			fail(t, err)
			continue
		}
		res.Derived = append(res.Derived, o.set)
		diags.Report(Diagnostic{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("derived %s (%s, %d comparisons)", t.Name, t.Kind, o.set.Policy.Len()),
			Pos:      t.Pos,
			Type:     t.Name,
		})
	}
	if len(errs) > 0 {
		return res, &DeriveError{Package: g.Package.PkgPath, Errs: errs}
	}
	return res, nil
}

// blockedByBase returns the types whose derived base yields no routine
// set, directly or through a chain of derived bases, regardless of the
// order the types are declared in.
func blockedByBase(nodes []*Type, outcomes []outcome) map[string]bool {
	missing := make(map[string]bool)
	for i, t := range nodes {
		if outcomes[i].set == nil {
			missing[t.Name] = true
		}
	}
	blocked := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for i, t := range nodes {
			if missing[t.Name] {
				continue
			}
			if b := outcomes[i].set.Policy.Base; b != nil && b.Derived && missing[b.TypeName] {
				missing[t.Name], blocked[t.Name] = true, true
				changed = true
			}
		}
	}
	return blocked
}

// synthesize classifies, resolves and synthesizes one type. Panics are
// turned into internal errors so one type never brings the pass down.
func (g *Graph) synthesize(t *Type) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: NewInternalError(t.Name, "", fmt.Sprintf("panic: %v", r))}
		}
	}()
	p, err := g.resolver.Resolve(t)
	switch {
	case err != nil:
		return outcome{err: err}
	case p == nil:
		return outcome{skipped: true}
	}
	set, err := Synthesize(p)
	return outcome{set: set, warnings: p.Warnings, err: err}
}

func (g *Graph) attach(sink AttachmentSink, set *RoutineSet) error {
	if set.Type.woven {
		return NewInternalError(set.Type.Name, "", "type is already woven")
	}
	if err := sink.Attach(set); err != nil {
		return err
	}
	set.Type.woven = true
	return nil
}

// errPos returns the source position carried by err, or def.
func errPos(err error, def string) string {
	var (
		verr *ValidationError
		cerr *ContractError
	)
	switch {
	case errors.As(err, &verr) && verr.Pos != "":
		return verr.Pos
	case errors.As(err, &cerr) && cerr.Pos != "":
		return cerr.Pos
	}
	return def
}

// Collector is an AttachmentSink that keeps routine sets in memory.
type Collector struct {
	mu   sync.Mutex
	Sets []*RoutineSet
}

// Attach implements AttachmentSink.
func (c *Collector) Attach(s *RoutineSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets = append(c.Sets, s)
	return nil
}

var _ AttachmentSink = (*Collector)(nil)
