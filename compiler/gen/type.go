package gen

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

// The following types describe a candidate struct type after
// classification. They are immutable once NewType returns.
type (
	// Type is one struct type of the package with all its members
	// classified.
	Type struct {
		def *load.Type
		// Name holds the declared type name.
		Name string
		// Pos is the declaration position.
		Pos string
		// Kind is the addressing kind of the generated methods.
		Kind schema.Kind
		// Marked is set when the type carries the opt-in marker.
		Marked bool
		// TypeParams of a generic type.
		TypeParams []*load.TypeParam
		// Members holds every field followed by every annotated getter,
		// participating or not.
		Members []*Member
		// woven is set once the routines of the type were attached.
		woven bool
	}

	// Member is a field or getter considered for equality.
	Member struct {
		// Name is the field or method name.
		Name string
		Pos  string
		// Info is the declared type; the result type for getters. Nil for
		// getters with an invalid signature.
		Info *field.TypeInfo
		// Bucket is the comparison strategy of the declared type.
		Bucket Bucket
		// Load is how the member value is read from an operand.
		Load LoadStrategy
		// Participates is set when the member carries an equals annotation.
		Participates bool
		// Collation applies to string members.
		Collation equatable.Collation
		// Embedded is set for embedded struct fields.
		Embedded bool
		// method is the declaration of a getter member.
		method *load.Method
		// ann is the raw equals annotation.
		ann *schema.Equals
	}
)

// Bucket is the classification of a member type. It selects how the
// member is compared and hashed.
type Bucket uint8

// Classification buckets, in priority order.
const (
	BucketInvalid Bucket = iota
	// BucketString members compare and hash under their collation.
	BucketString
	// BucketPrimitive members are booleans and numbers compared with ==.
	BucketPrimitive
	// BucketValueOperator members are non-nillable values with an Equal
	// method taking their own type.
	BucketValueOperator
	// BucketValueBoxed members are other non-nillable values, compared with
	// the universal equality.
	BucketValueBoxed
	// BucketReferenceOperator members are pointers or interfaces with an
	// Equal method taking their own type, compared nil-safely.
	BucketReferenceOperator
	// BucketReference members are other nillable values, compared with the
	// universal nil-safe equality.
	BucketReference
)

var bucketNames = [...]string{
	BucketInvalid:           "invalid",
	BucketString:            "string",
	BucketPrimitive:         "primitive",
	BucketValueOperator:     "value-operator",
	BucketValueBoxed:        "value-boxed",
	BucketReferenceOperator: "reference-operator",
	BucketReference:         "reference",
}

// String returns the bucket name.
func (b Bucket) String() string {
	if int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return fmt.Sprintf("Bucket(%d)", b)
}

// LoadStrategy tells how a member value is read from an operand.
type LoadStrategy uint8

const (
	// LoadField reads a struct field.
	LoadField LoadStrategy = iota
	// LoadGetter calls a getter on the operand.
	LoadGetter
	// LoadGetterAddr calls a pointer-receiver getter on a value operand
	// through its address, never through a copy.
	LoadGetterAddr
)

// String returns the strategy name.
func (s LoadStrategy) String() string {
	switch s {
	case LoadField:
		return "field"
	case LoadGetter:
		return "getter"
	case LoadGetterAddr:
		return "getter-addr"
	}
	return fmt.Sprintf("LoadStrategy(%d)", s)
}

// Classify returns the bucket of a member type. It is a pure function of
// the type information.
func Classify(info *field.TypeInfo) Bucket {
	switch {
	case info == nil || !info.Valid():
		return BucketInvalid
	case info.Type == field.TypeString && !info.HasEqual():
		return BucketString
	case info.Type.Basic() && !info.HasEqual():
		return BucketPrimitive
	case info.Type == field.TypeParam:
		return BucketReference
	case !info.Nillable() && info.HasEqual():
		return BucketValueOperator
	case !info.Nillable():
		return BucketValueBoxed
	case (info.Type == field.TypePointer || info.Type == field.TypeInterface) && info.HasEqual():
		return BucketReferenceOperator
	default:
		return BucketReference
	}
}

// NewType classifies the members of a loaded struct type.
func NewType(c *Config, def *load.Type) (*Type, error) {
	if def == nil || def.Name == "" {
		return nil, NewInternalError("", "", "missing type definition")
	}
	t := &Type{
		def:        def,
		Name:       def.Name,
		Pos:        def.Pos,
		Kind:       c.DefaultKind,
		TypeParams: def.TypeParams,
	}
	if ann, ok := def.Annotation(schema.GenerateName); ok {
		g := ann.(schema.Generate)
		t.Marked = true
		if g.Explicit {
			t.Kind = g.Kind
		}
	}
	for _, f := range def.Fields {
		if f.Info == nil {
			return nil, NewInternalError(t.Name, "", fmt.Sprintf("missing type info for field %s", f.Name))
		}
		m := &Member{
			Name:     f.Name,
			Pos:      f.Pos,
			Info:     f.Info,
			Bucket:   Classify(f.Info),
			Load:     LoadField,
			Embedded: f.Embedded,
		}
		if ann, ok := f.Annotation(schema.EqualsName); ok {
			eq := ann.(schema.Equals)
			m.ann = &eq
		}
		t.Members = append(t.Members, m)
	}
	for _, fn := range def.Methods {
		ann, ok := fn.Annotation(schema.EqualsName)
		if !ok {
			continue
		}
		eq := ann.(schema.Equals)
		m := &Member{
			Name:   fn.Name,
			Pos:    fn.Pos,
			Load:   LoadGetter,
			method: fn,
			ann:    &eq,
		}
		if len(fn.Params) == 0 && len(fn.Results) == 1 {
			m.Info = fn.Results[0]
			m.Bucket = Classify(m.Info)
		}
		if fn.PointerRecv && t.Kind == schema.KindValue {
			m.Load = LoadGetterAddr
		}
		t.Members = append(t.Members, m)
	}
	return t, nil
}

// Def returns the loaded definition of the type.
func (t *Type) Def() *load.Type { return t.def }

// Generic reports whether the type has type parameters.
func (t *Type) Generic() bool { return len(t.TypeParams) > 0 }

// Reference reports whether the type has reference semantics.
func (t *Type) Reference() bool { return t.Kind == schema.KindReference }

// Woven reports whether the routines of the type were attached.
func (t *Type) Woven() bool { return t.woven }

// Receiver returns the receiver name of generated methods.
func (t *Type) Receiver() string {
	r, _ := utf8.DecodeRuneInString(t.Name)
	if !unicode.IsLetter(r) {
		return "x"
	}
	return string(unicode.ToLower(r))
}

// InternalName returns the name of the internal two-operand predicate.
func (t *Type) InternalName() string {
	return "equals" + pascal(t.Name)
}

// EqualOpName returns the name of the equality operator function.
func (t *Type) EqualOpName() string {
	if t.Exported() {
		return "Equal" + t.Name
	}
	return "equal" + pascal(t.Name)
}

// NotEqualOpName returns the name of the inequality operator function.
func (t *Type) NotEqualOpName() string {
	if t.Exported() {
		return "NotEqual" + t.Name
	}
	return "notEqual" + pascal(t.Name)
}

// Exported reports whether the type name is exported.
func (t *Type) Exported() bool {
	r, _ := utf8.DecodeRuneInString(t.Name)
	return unicode.IsUpper(r)
}

// Member returns the member with the given name.
func (t *Type) Member(name string) (*Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Getter reports whether the member is read through a method.
func (m *Member) Getter() bool { return m.Load != LoadField }

// Annotated reports whether the member carries an equals annotation.
func (m *Member) Annotated() bool { return m.ann != nil }

// Method returns the getter declaration, if any.
func (m *Member) Method() *load.Method { return m.method }

// PlainInt reports whether the member is a plain int that feeds the hash
// mixer directly.
func (m *Member) PlainInt() bool {
	return m.Bucket == BucketPrimitive && m.Info.PlainInt()
}

func pascal(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
