// Package golang lowers derived routine sets to Go source with Jennifer.
//
// This package implements the gen.DialectGenerator interface.
//
// Usage:
//
//	import (
//	    "github.com/syssam/equatable/compiler/gen"
//	    "github.com/syssam/equatable/compiler/gen/golang"
//	)
//
//	generator := gen.NewJenniferGenerator(graph)
//	dialect := golang.NewDialect(generator)
//	generator.WithDialect(dialect)
//	generator.Generate(ctx)
//
// For a reference type Person, the generated file holds:
//
//	func equalsPerson(left, right *Person) bool   // internal predicate
//	func (p *Person) Equal(other *Person) bool
//	func (p *Person) EqualAny(other any) bool
//	func EqualPerson(left, right *Person) bool
//	func NotEqualPerson(left, right *Person) bool
//	func (p *Person) Hash() int
package golang

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/equatable/compiler/gen"
)

// Generate derives the graph and writes its generated file into the
// directory of the package.
func Generate(ctx context.Context, g *gen.Graph) (*gen.Result, error) {
	if g == nil || g.Config == nil {
		return nil, gen.NewConfigError("Graph", nil, "missing graph configuration")
	}
	if g.Package.Dir == "" {
		return nil, gen.NewConfigError("Dir", g.Package.PkgPath, "package has no source directory")
	}
	generator := gen.NewJenniferGenerator(g)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate(ctx)
}

// Dialect implements gen.DialectGenerator for Go source output.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new Go dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "golang"
}

// GenRoutines returns the declarations of every routine of the set.
func (d *Dialect) GenRoutines(s *gen.RoutineSet) []jen.Code {
	l := &lowering{helper: d.helper, rt: d.helper.RuntimePkg(), set: s, t: s.Type}
	routines := s.Routines()
	codes := make([]jen.Code, 0, len(routines))
	for _, r := range routines {
		codes = append(codes, l.routine(r))
	}
	return codes
}

// GenAssertion returns the conformance assertion of t to the
// equatable.Equatable interface.
func (d *Dialect) GenAssertion(t *gen.Type) jen.Code {
	self := d.helper.SelfType(t)
	var value jen.Code
	if t.Reference() {
		value = jen.Parens(self).Call(jen.Nil())
	} else {
		value = jen.Add(d.helper.TypeCode(t)).Values()
	}
	return jen.Id("_").Qual(d.helper.RuntimePkg(), "Equatable").Types(self).Op("=").Add(value)
}

var _ gen.DialectGenerator = (*Dialect)(nil)
