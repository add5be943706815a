package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/equatable"
)

// TagKey is the struct tag key that marks participating fields.
const TagKey = "equatable"

// Annotation names.
const (
	GenerateName     = "Generate"
	EqualsName       = "Equals"
	CustomEqualsName = "CustomEquals"
	CustomHashName   = "CustomHash"
)

// Generate is the opt-in marker placed on a type.
type Generate struct {
	Kind Kind `json:"kind"`
	// Explicit is set when the directive named the kind.
	Explicit bool `json:"explicit,omitempty"`
}

// Name implements Annotation.
func (Generate) Name() string { return GenerateName }

// Merge keeps the first explicit kind.
func (g Generate) Merge(other Annotation) Annotation {
	o, ok := other.(Generate)
	if !ok || g.Explicit || !o.Explicit {
		return g
	}
	return o
}

// Equals marks a field or getter as participating in equality.
type Equals struct {
	Collation equatable.Collation `json:"collation"`
	// Raw is the collation text as written, kept for diagnostics.
	Raw string `json:"raw,omitempty"`
}

// Name implements Annotation.
func (Equals) Name() string { return EqualsName }

// CustomEquals marks the method supplying extra equality logic.
type CustomEquals struct{}

// Name implements Annotation.
func (CustomEquals) Name() string { return CustomEqualsName }

// CustomHash marks the method supplying extra hash logic.
type CustomHash struct{}

// Name implements Annotation.
func (CustomHash) Name() string { return CustomHashName }

var (
	_ Annotation = Generate{}
	_ Merger     = Generate{}
	_ Annotation = Equals{}
	_ Annotation = CustomEquals{}
	_ Annotation = CustomHash{}
)

// ParseTag reads the equatable key of a raw struct tag. It reports
// ok == false when the key is absent or set to "-".
func ParseTag(tag string) (ann Equals, ok bool, err error) {
	v, found := reflect.StructTag(tag).Lookup(TagKey)
	if !found {
		return Equals{}, false, nil
	}
	v = strings.TrimSpace(v)
	if v == "-" {
		return Equals{}, false, nil
	}
	c, err := equatable.ParseCollation(v)
	if err != nil {
		return Equals{}, false, fmt.Errorf("struct tag %s:%q: %w", TagKey, v, err)
	}
	return Equals{Collation: c, Raw: v}, true, nil
}

// StripTag removes the equatable key from a raw struct tag, preserving the
// other keys in order.
func StripTag(tag string) string {
	var kept []string
	for rest := strings.TrimSpace(tag); rest != ""; {
		key, value, next, ok := nextTagPair(rest)
		if !ok {
			// Malformed remainder is left untouched.
			kept = append(kept, rest)
			break
		}
		if key != TagKey {
			kept = append(kept, key+":"+value)
		}
		rest = strings.TrimSpace(next)
	}
	return strings.Join(kept, " ")
}

// nextTagPair splits the first key:"value" pair off a struct tag, following
// the conventions of reflect.StructTag.
func nextTagPair(tag string) (key, value, rest string, ok bool) {
	i := 0
	for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
		i++
	}
	if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
		return "", "", "", false
	}
	key = tag[:i]
	tag = tag[i+1:]
	i = 1
	for i < len(tag) && tag[i] != '"' {
		if tag[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(tag) {
		return "", "", "", false
	}
	return key, tag[:i+1], tag[i+1:], true
}
