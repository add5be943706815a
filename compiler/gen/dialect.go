package gen

import "github.com/dave/jennifer/jen"

// RoutineGenerator lowers the routine set of a type to Go declarations.
type RoutineGenerator interface {
	// GenRoutines returns the declarations of the set in emission order.
	GenRoutines(s *RoutineSet) []jen.Code
}

// AssertionGenerator emits a compile-time conformance assertion for a type.
// Dialects may implement it; it is never called for generic types.
type AssertionGenerator interface {
	GenAssertion(t *Type) jen.Code
}

// MinimalDialect requires only routine lowering.
// This is the minimum interface a dialect must implement.
type MinimalDialect interface {
	// Name returns the dialect name (e.g., "golang").
	Name() string
	RoutineGenerator
}

// DialectGenerator is a dialect with every optional capability.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    JenniferGenerator                        │
//	│  (Orchestration: attachment buffering, file writing)        │
//	└─────────────────────────┬───────────────────────────────────┘
//	                          │ uses
//	                          ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                   DialectGenerator                          │
//	│  (Interface: lowers IR routines to declarations)            │
//	└─────────────────────────┬───────────────────────────────────┘
//	                          │ implemented by
//	                          ▼
//	                   ┌─────────────┐
//	                   │ golang      │
//	                   │(gen/golang) │
//	                   └─────────────┘
//
// Usage:
//
//	import "github.com/syssam/equatable/compiler/gen/golang"
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(golang.NewDialect(generator))
type DialectGenerator interface {
	MinimalDialect
	AssertionGenerator
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// RuntimePkg returns the import path of the runtime support package.
	RuntimePkg() string

	// PkgPath returns the import path of the package being generated.
	PkgPath() string

	// TypeCode returns the type expression of t, instantiated with its own
	// type parameters (e.g. Pair[K, V]).
	TypeCode(t *Type) jen.Code

	// SelfType returns the operand type of the routines of t: *T for
	// reference kinds, T for value kinds.
	SelfType(t *Type) jen.Code

	// TypeParams returns the type parameter list of a generic type.
	TypeParams(t *Type) []jen.Code

	// Graph returns the graph being generated.
	Graph() *Graph
}
