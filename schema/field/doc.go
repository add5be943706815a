// Package field describes the static types of members taking part in
// generated equality: the kind of the type, how it is spelled in its
// package, and which equality operators it carries.
package field
