// Package schema defines the annotations that drive equality generation and
// the parsers that read them from Go source.
//
// Annotations are written in two forms. Doc-comment directives mark types
// and methods:
//
//	//equatable:generate [value|reference]
//	//equatable:equals [collation]
//	//equatable:customequals
//	//equatable:customhash
//
// and a struct tag marks participating fields:
//
//	Name string `equatable:"ordinalignorecase"`
//
// An empty tag value selects ordinal comparison; the value "-" excludes the
// field explicitly.
package schema
