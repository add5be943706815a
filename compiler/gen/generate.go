package gen

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
)

// JenniferGenerator attaches routine sets to a package by emitting them
// into a single generated file.
type JenniferGenerator struct {
	graph  *Graph
	outDir string

	// Dialect generator lowering the IR.
	// Requires at least MinimalDialect.
	dialect MinimalDialect

	// Optional interface implementations detected at runtime
	assertGen AssertionGenerator

	mu   sync.Mutex
	sets []*RoutineSet
}

// NewJenniferGenerator creates a new generator writing to the directory of
// the graph package. You must call WithDialect() to set a dialect before
// attaching routine sets.
//
// Example:
//
//	import "github.com/syssam/equatable/compiler/gen/golang"
//
//	gen := gen.NewJenniferGenerator(graph)
//	gen.WithDialect(golang.NewDialect(gen))
//	gen.Generate(ctx)
func NewJenniferGenerator(g *Graph) *JenniferGenerator {
	return &JenniferGenerator{
		graph:  g,
		outDir: g.Package.Dir,
	}
}

// WithOutDir sets the output directory.
func (g *JenniferGenerator) WithOutDir(dir string) *JenniferGenerator {
	if dir != "" {
		g.outDir = dir
	}
	return g
}

// WithDialect sets the dialect generator.
// Additional capabilities are detected via AssertionGenerator.
func (g *JenniferGenerator) WithDialect(d MinimalDialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
		// Detect optional capabilities via type assertion
		if ag, ok := d.(AssertionGenerator); ok {
			g.assertGen = ag
		}
	}
	return g
}

// Attach implements AttachmentSink. Sets are buffered until Flush.
func (g *JenniferGenerator) Attach(s *RoutineSet) error {
	if g.dialect == nil {
		return NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Attach()")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sets = append(g.sets, s)
	return nil
}

// Generate derives the graph and writes the generated file. Types that
// were derived successfully are written even when others failed; the
// derivation error is returned afterwards.
func (g *JenniferGenerator) Generate(ctx context.Context) (*Result, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	res, derr := g.graph.Derive(ctx, g)
	if res == nil {
		return nil, derr
	}
	if err := g.Flush(ctx); err != nil {
		return res, errors.Join(derr, err)
	}
	return res, derr
}

// Flush writes the attached routine sets. Without any set, a previously
// generated file is removed.
func (g *JenniferGenerator) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	sets := g.sets
	g.sets = nil
	g.mu.Unlock()
	path := g.Path()
	if len(sets) == 0 {
		return removeStale(path, g.graph.header())
	}
	return writeFile(path, g.File(sets))
}

// Path returns the path of the generated file.
func (g *JenniferGenerator) Path() string {
	return filepath.Join(g.outDir, g.graph.output())
}

// File renders the generated file of the given routine sets.
func (g *JenniferGenerator) File(sets []*RoutineSet) *jen.File {
	f := g.newFile()
	for _, s := range sets {
		for _, code := range g.dialect.GenRoutines(s) {
			f.Add(code)
			f.Line()
		}
	}
	if g.assertGen == nil {
		return f
	}
	var asserts []jen.Code
	for _, s := range sets {
		if !s.Type.Generic() {
			asserts = append(asserts, g.assertGen.GenAssertion(s.Type))
		}
	}
	if len(asserts) > 0 {
		f.Var().Defs(asserts...)
	}
	return f
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// RuntimePkg returns the import path of the runtime support package.
func (g *JenniferGenerator) RuntimePkg() string {
	return g.graph.runtime()
}

// PkgPath returns the import path of the package being generated.
func (g *JenniferGenerator) PkgPath() string {
	return g.graph.Package.PkgPath
}

// TypeCode returns the type expression of t.
func (g *JenniferGenerator) TypeCode(t *Type) jen.Code {
	id := jen.Id(t.Name)
	if !t.Generic() {
		return id
	}
	args := make([]jen.Code, len(t.TypeParams))
	for i, p := range t.TypeParams {
		args[i] = jen.Id(p.Name)
	}
	return id.Index(jen.List(args...))
}

// SelfType returns the operand type of the routines of t.
func (g *JenniferGenerator) SelfType(t *Type) jen.Code {
	if t.Reference() {
		return jen.Op("*").Add(g.TypeCode(t))
	}
	return g.TypeCode(t)
}

// TypeParams returns the type parameter declarations of t.
func (g *JenniferGenerator) TypeParams(t *Type) []jen.Code {
	params := make([]jen.Code, len(t.TypeParams))
	for i, p := range t.TypeParams {
		var constraint jen.Code = jen.Id(p.Constraint)
		if p.ConstraintPath != "" {
			constraint = jen.Qual(p.ConstraintPath, p.ConstraintName)
		}
		params[i] = jen.Id(p.Name).Add(constraint)
	}
	return params
}

// Graph returns the graph being generated.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// newFile creates a new Jennifer file with the header comment.
func (g *JenniferGenerator) newFile() *jen.File {
	f := jen.NewFilePathName(g.graph.Package.PkgPath, g.graph.Package.Name)
	f.HeaderComment(g.graph.header())
	f.ImportName(g.graph.runtime(), "equatable")
	return f
}

var (
	_ AttachmentSink  = (*JenniferGenerator)(nil)
	_ GeneratorHelper = (*JenniferGenerator)(nil)
)
