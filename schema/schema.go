package schema

import (
	"fmt"
	"strings"
)

// Annotation is a parsed directive or struct tag attached to a type or a
// member.
type Annotation interface {
	// Name defines the name of the annotation to be retrieved by the codegen.
	Name() string
}

// Merger wraps the single Merge function allows custom annotation to provide
// an implementation for merging 2 or more annotations from the same type.
//
// Annotations that do not implement it are replaced by the last occurrence.
type Merger interface {
	Merge(Annotation) Annotation
}

// Kind tells how a generated type is addressed: through a pointer (reference
// semantics, nil aware) or by value.
type Kind uint8

const (
	// KindReference generates methods on *T. Nil is a legal operand.
	KindReference Kind = iota
	// KindValue generates methods on T.
	KindValue
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindValue:
		return "value"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind parses "reference" or "value". The empty string is
// KindReference.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference", "ref", "pointer":
		return KindReference, nil
	case "value":
		return KindValue, nil
	}
	return KindReference, fmt.Errorf("schema: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
