// Package gen derives equality and hash routines for annotated struct types.
//
// # Architecture
//
// A derivation pass over one package follows this flow:
//
//	load.Package (compiler/load)
//	        ↓
//	   Graph: Type and Member classification
//	        ↓
//	   Resolver: Policy (participation, hooks, base pair)
//	        ↓
//	   Synthesize: RoutineSet (abstract IR routines)
//	        ↓
//	   AttachmentSink (JenniferGenerator + dialect)
//	        ↓
//	   Generated code (equatable_gen.go)
//
// Types are synthesized in parallel. Attachment is serialized and follows
// declaration order, so the output is deterministic.
//
// # Key Types
//
//   - Graph: Holds the classified types of a package and drives a pass
//   - Type: A struct type with its members
//   - Member: A field or getter with its Bucket and LoadStrategy
//   - Policy: The resolved equality policy of a type
//   - RoutineSet: The six routines generated for a type
//   - Config: Global configuration for code generation
//
// # Interface Hierarchy
//
//	MinimalDialect (basic dialect support)
//	├── Name() string
//	└── RoutineGenerator
//	    └── GenRoutines
//
//	DialectGenerator (full interface, extends MinimalDialect)
//	└── AssertionGenerator (compile-time conformance assertions)
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: Generator configuration errors
//   - ValidationError: Invalid hooks or getters, markers without content
//   - ContractError: Types that already declare equality
//   - GenerationError: Rendering and writing errors
//   - InternalError: Violated synthesis invariants
//   - DeriveError: All per-type errors of a pass
//
// Example error handling:
//
//	res, err := generator.Generate(ctx)
//	if gen.IsContractError(err) {
//	    // remove the hand-written Equal or Hash method
//	}
//	if errors.Is(err, gen.ErrDerivationFailed) {
//	    // res.Failed lists the failing types; the others were written
//	}
package gen
