package field

import (
	"fmt"
	"strings"
)

// A Type represents the kind of a member type.
type Type uint8

// List of member type kinds.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUintptr
	TypeFloat32
	TypeFloat64
	TypeComplex64
	TypeComplex128
	TypeString
	TypeStruct
	TypeArray
	TypePointer
	TypeSlice
	TypeMap
	TypeChan
	TypeFunc
	TypeInterface
	TypeParam
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:    "invalid",
	TypeBool:       "bool",
	TypeInt:        "int",
	TypeInt8:       "int8",
	TypeInt16:      "int16",
	TypeInt32:      "int32",
	TypeInt64:      "int64",
	TypeUint:       "uint",
	TypeUint8:      "uint8",
	TypeUint16:     "uint16",
	TypeUint32:     "uint32",
	TypeUint64:     "uint64",
	TypeUintptr:    "uintptr",
	TypeFloat32:    "float32",
	TypeFloat64:    "float64",
	TypeComplex64:  "complex64",
	TypeComplex128: "complex128",
	TypeString:     "string",
	TypeStruct:     "struct",
	TypeArray:      "array",
	TypePointer:    "pointer",
	TypeSlice:      "slice",
	TypeMap:        "map",
	TypeChan:       "chan",
	TypeFunc:       "func",
	TypeInterface:  "interface",
	TypeParam:      "typeparam",
}

// String returns the name of the kind.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type if known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Basic reports whether t is a predeclared boolean, numeric or string kind.
func (t Type) Basic() bool {
	return t >= TypeBool && t <= TypeString
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt && t <= TypeComplex128
}

// Nillable reports whether values of the kind can be nil.
func (t Type) Nillable() bool {
	switch t {
	case TypePointer, TypeSlice, TypeMap, TypeChan, TypeFunc, TypeInterface:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for i, name := range typeNames {
		if name == s {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("field: unknown type %q", text)
}

// Operator describes an Equal method whose single parameter has the type
// that declares it, for example time.Time.Equal(time.Time) bool.
type Operator struct {
	// PointerRecv is set when the method is declared on the pointer
	// receiver of a non-pointer type.
	PointerRecv bool `json:"pointer_recv,omitempty" yaml:"pointer_recv,omitempty"`
}

// TypeInfo holds the information of a member type.
type TypeInfo struct {
	Type Type `json:"type" yaml:"type"`
	// Ident is the type as spelled inside the declaring package,
	// for example "time.Time", "*Node" or "[]string".
	Ident string `json:"ident,omitempty" yaml:"ident,omitempty"`
	// PkgPath is the import path of a named type.
	PkgPath string `json:"pkg_path,omitempty" yaml:"pkg_path,omitempty"`
	// Named is set for defined (named) types and instantiated generics.
	Named bool `json:"named,omitempty" yaml:"named,omitempty"`
	// Comparable reports whether the type supports == and !=.
	Comparable bool `json:"comparable,omitempty" yaml:"comparable,omitempty"`
	// Equal is set when the type carries its own equality operator.
	Equal *Operator `json:"equal,omitempty" yaml:"equal,omitempty"`
	// Hasher is set when the type has a Hash() int method.
	Hasher bool `json:"hasher,omitempty" yaml:"hasher,omitempty"`
}

// String returns the type identifier.
func (t TypeInfo) String() string {
	if t.Ident != "" {
		return t.Ident
	}
	return t.Type.String()
}

// Valid reports if the type is a known type.
func (t TypeInfo) Valid() bool {
	return t.Type.Valid()
}

// Nillable reports whether values of the type can be nil.
func (t TypeInfo) Nillable() bool {
	return t.Type.Nillable()
}

// Numeric reports if the type is a numeric type.
func (t TypeInfo) Numeric() bool {
	return t.Type.Numeric()
}

// HasEqual reports whether the type carries its own equality operator.
func (t TypeInfo) HasEqual() bool {
	return t.Equal != nil
}

// PlainInt reports whether the type is the predeclared int.
func (t TypeInfo) PlainInt() bool {
	return t.Type == TypeInt && !t.Named
}
