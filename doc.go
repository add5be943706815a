// Package equatable is the runtime support package linked by code that the
// equatable generator emits.
//
// Generated equality and hash routines call into this package for the
// operations that are not expressible as plain Go operators: the hash mixer,
// collation-aware string comparison, and the universal (nil-safe, structural)
// equality and hash used for members that have no dedicated operator.
//
// # Annotating types
//
// Types opt in with a doc-comment directive and mark participating members
// with a struct tag:
//
//	//equatable:generate
//	type Person struct {
//	    Name  string    `equatable:"ordinalignorecase"`
//	    Born  time.Time `equatable:""`
//	    Notes string    // not compared
//	}
//
// Getter methods participate with the equals directive and custom logic is
// plugged in with the customequals and customhash directives:
//
//	//equatable:equals
//	func (p *Person) Initials() string { ... }
//
//	//equatable:customequals
//	func (p *Person) sameOwner(other *Person) bool { ... }
//
//	//equatable:customhash
//	func (p *Person) ownerHash() int { ... }
//
// Running the generator then produces Equal, EqualAny and Hash methods plus
// EqualPerson and NotEqualPerson functions in a companion file.
//
// Everything in this package is stateless except the process-wide culture
// used by the culture-sensitive collations; see SetCulture.
package equatable
