package load

import (
	"encoding/json"
	"slices"

	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

// Package is a Go package loaded from source for equality generation.
type Package struct {
	Name    string `json:"name"`
	PkgPath string `json:"pkg_path"`
	Dir     string `json:"dir"`
	// Types holds every named struct type of the package in declaration order.
	Types []*Type `json:"types,omitempty"`
	// Funcs holds the names of package-level functions.
	Funcs []string `json:"funcs,omitempty"`
	// Orphans holds directive-carrying functions not bound to any struct type.
	Orphans []*Method `json:"orphans,omitempty"`
}

// Type represents a named struct type loaded from a package.
type Type struct {
	Name        string         `json:"name"`
	Pos         string         `json:"pos,omitempty"`
	TypeParams  []*TypeParam   `json:"type_params,omitempty"`
	Fields      []*Field       `json:"fields,omitempty"`
	Methods     []*Method      `json:"methods,omitempty"`
	Base        *Base          `json:"base,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// TypeParam is a type parameter of a generic type.
type TypeParam struct {
	Name string `json:"name"`
	// Constraint is the constraint as spelled inside the package.
	Constraint string `json:"constraint"`
	// ConstraintPath and ConstraintName are set when the constraint is a
	// single named type declared in another package.
	ConstraintPath string `json:"constraint_path,omitempty"`
	ConstraintName string `json:"constraint_name,omitempty"`
}

// Field is a struct field.
type Field struct {
	Name        string          `json:"name"`
	Pos         string          `json:"pos,omitempty"`
	Info        *field.TypeInfo `json:"type"`
	Tag         string          `json:"tag,omitempty"`
	Embedded    bool            `json:"embedded,omitempty"`
	Annotations map[string]any  `json:"annotations,omitempty"`
}

// Method is a method declared on a type, or a package function carrying a
// method directive (Static).
type Method struct {
	Name        string            `json:"name"`
	Pos         string            `json:"pos,omitempty"`
	PointerRecv bool              `json:"pointer_recv,omitempty"`
	Static      bool              `json:"static,omitempty"`
	Abstract    bool              `json:"abstract,omitempty"`
	Generated   bool              `json:"generated,omitempty"`
	Params      []*Param          `json:"params,omitempty"`
	Results     []*field.TypeInfo `json:"results,omitempty"`
	Annotations map[string]any    `json:"annotations,omitempty"`
}

// Param is a method parameter.
type Param struct {
	Info *field.TypeInfo `json:"type"`
	// Self is set when the parameter type is the declaring type, SelfPointer
	// when it is a pointer to it.
	Self        bool `json:"self,omitempty"`
	SelfPointer bool `json:"self_pointer,omitempty"`
}

// Base is the first untagged embedded struct of a type. It plays the role of
// the ancestor whose equality and hash the derived routines delegate to.
type Base struct {
	Field   string `json:"field"`
	Ident   string `json:"ident"`
	Pos     string `json:"pos,omitempty"`
	Pointer bool   `json:"pointer,omitempty"`
	// Local is set when the base type is declared in the same package;
	// TypeName is then its declared name.
	Local    bool   `json:"local,omitempty"`
	TypeName string `json:"type_name,omitempty"`
	// Equal is set when the method set of *Base provides an equality
	// operator, Hash when it provides Hash() int.
	Equal *BaseEqual `json:"equal,omitempty"`
	Hash  bool       `json:"hash,omitempty"`
}

// BaseEqual describes the Equal method of a base type.
type BaseEqual struct {
	// ParamPointer is set when Equal takes *Base rather than Base.
	ParamPointer bool `json:"param_pointer,omitempty"`
}

// Annotation returns the annotation with the given name, if present.
func (t *Type) Annotation(name string) (schema.Annotation, bool) {
	return lookupAnnotation(t.Annotations, name)
}

// Method returns the declared method with the given name.
func (t *Type) Method(name string) (*Method, bool) {
	i := slices.IndexFunc(t.Methods, func(m *Method) bool { return m.Name == name && !m.Static })
	if i < 0 {
		return nil, false
	}
	return t.Methods[i], true
}

// Annotation returns the annotation with the given name, if present.
func (f *Field) Annotation(name string) (schema.Annotation, bool) {
	return lookupAnnotation(f.Annotations, name)
}

// Annotation returns the annotation with the given name, if present.
func (m *Method) Annotation(name string) (schema.Annotation, bool) {
	return lookupAnnotation(m.Annotations, name)
}

// HasFunc reports whether the package declares a function with the given name.
func (p *Package) HasFunc(name string) bool {
	return slices.Contains(p.Funcs, name)
}

// Type returns the type with the given name.
func (p *Package) Type(name string) (*Type, bool) {
	i := slices.IndexFunc(p.Types, func(t *Type) bool { return t.Name == name })
	if i < 0 {
		return nil, false
	}
	return p.Types[i], true
}

// MarshalPackage encodes the loaded package to JSON.
func MarshalPackage(p *Package) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPackage decodes a package previously encoded by MarshalPackage.
// Annotations are restored to their schema types.
func UnmarshalPackage(buf []byte) (*Package, error) {
	p := &Package{}
	if err := json.Unmarshal(buf, p); err != nil {
		return nil, err
	}
	for _, t := range p.Types {
		if err := restoreAnnotations(t.Annotations); err != nil {
			return nil, err
		}
		for _, f := range t.Fields {
			if err := restoreAnnotations(f.Annotations); err != nil {
				return nil, err
			}
		}
		for _, m := range t.Methods {
			if err := restoreAnnotations(m.Annotations); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func lookupAnnotation(annotations map[string]any, name string) (schema.Annotation, bool) {
	v, ok := annotations[name]
	if !ok {
		return nil, false
	}
	ann, ok := v.(schema.Annotation)
	return ann, ok
}

func addAnnotation(annotations map[string]any, an schema.Annotation) {
	curr, ok := annotations[an.Name()]
	if !ok {
		annotations[an.Name()] = an
		return
	}
	if m, ok := curr.(schema.Merger); ok {
		annotations[an.Name()] = m.Merge(an)
	}
}

// restoreAnnotations converts decoded JSON objects back to annotations.
func restoreAnnotations(annotations map[string]any) error {
	for name, v := range annotations {
		buf, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var ann schema.Annotation
		switch name {
		case schema.GenerateName:
			var g schema.Generate
			err = json.Unmarshal(buf, &g)
			ann = g
		case schema.EqualsName:
			var e schema.Equals
			err = json.Unmarshal(buf, &e)
			ann = e
		case schema.CustomEqualsName:
			ann = schema.CustomEquals{}
		case schema.CustomHashName:
			ann = schema.CustomHash{}
		default:
			continue
		}
		if err != nil {
			return err
		}
		annotations[name] = ann
	}
	return nil
}
