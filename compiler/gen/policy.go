package gen

import (
	"fmt"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

// Names declared on a type that conflict with generated methods.
var contractMethods = []string{"Equal", "EqualAny", "Hash"}

type (
	// Policy is the resolved equality policy of a type.
	Policy struct {
		Type *Type
		// Members holds the participating members in declaration order,
		// fields first.
		Members []*Member
		// CustomEquals and CustomHash are the validated hooks, if any.
		CustomEquals *load.Method
		CustomHash   *load.Method
		// Base is the equality pair of the embedded ancestor, if any.
		Base *BasePair
		// Warnings are the non-fatal diagnostics of the resolution.
		Warnings []Diagnostic
	}

	// BasePair describes the Equal and Hash methods of an embedded base
	// type that derived routines delegate to.
	BasePair struct {
		// Field is the name of the embedded field.
		Field string
		// Ident is the base type as spelled in the package.
		Ident string
		// Pointer is set for a pointer embedding.
		Pointer bool
		// ParamPointer is set when Equal takes *Base.
		ParamPointer bool
		// Derived is set when the base is derived in the same pass.
		Derived bool
		// TypeName is the declared name of a local base.
		TypeName string
	}
)

// Len returns the number of comparisons of the equality chain.
func (p *Policy) Len() int {
	n := len(p.Members)
	if p.Base != nil {
		n++
	}
	if p.CustomEquals != nil {
		n++
	}
	return n
}

// Empty reports whether the policy contributes no comparison at all.
func (p *Policy) Empty() bool { return p.Len() == 0 }

// Resolver resolves the equality policies of the types of one package.
type Resolver struct {
	pkg   *load.Package
	types map[string]*Type
}

// NewResolver returns a resolver over the classified types of pkg.
func NewResolver(pkg *load.Package, types []*Type) *Resolver {
	r := &Resolver{pkg: pkg, types: make(map[string]*Type, len(types))}
	for _, t := range types {
		r.types[t.Name] = t
	}
	return r
}

// Candidate reports whether t has equality content or the opt-in marker.
func Candidate(t *Type) bool {
	return t.Marked || hasContent(t)
}

func hasContent(t *Type) bool {
	for _, m := range t.Members {
		if m.Annotated() {
			return true
		}
	}
	for _, fn := range t.def.Methods {
		if _, ok := fn.Annotation(schema.CustomEqualsName); ok {
			return true
		}
		if _, ok := fn.Annotation(schema.CustomHashName); ok {
			return true
		}
	}
	return false
}

// Resolve returns the policy of t. It returns a nil policy and a nil
// error when the type is not a derivation candidate.
func (r *Resolver) Resolve(t *Type) (*Policy, error) {
	content := hasContent(t)
	if !content && !t.Marked {
		return nil, nil
	}
	if err := r.guard(t); err != nil {
		return nil, err
	}
	if !content {
		return nil, NewValidationError(t.Name, "", t.Pos,
			fmt.Sprintf("marked with %sgenerate but has no participating members or hooks", schema.DirectivePrefix))
	}
	p := &Policy{Type: t}
	for _, m := range t.Members {
		if !m.Annotated() {
			continue
		}
		if err := r.member(p, m); err != nil {
			return nil, err
		}
		p.Members = append(p.Members, m)
	}
	if err := r.hooks(p); err != nil {
		return nil, err
	}
	if !t.Marked {
		p.warn(t.Pos, fmt.Sprintf("type %s has equality content but no %sgenerate marker", t.Name, schema.DirectivePrefix))
	}
	if t.Reference() {
		r.base(p)
	}
	return p, nil
}

// guard fails when t already declares what would be generated.
func (r *Resolver) guard(t *Type) error {
	for _, name := range contractMethods {
		if fn, ok := t.def.Method(name); ok {
			if fn.Generated {
				return NewContractError(t.Name, name, fn.Pos, "type is already woven by a generated file")
			}
			return NewContractError(t.Name, name, fn.Pos, "method is declared by the type")
		}
		if m, ok := t.Member(name); ok && !m.Getter() {
			return NewContractError(t.Name, name, m.Pos, "field conflicts with a generated method")
		}
	}
	for _, name := range []string{t.InternalName(), t.EqualOpName(), t.NotEqualOpName()} {
		if r.pkg.HasFunc(name) {
			return NewContractError(t.Name, name, t.Pos, "function is declared by the package")
		}
	}
	return nil
}

// member validates a participating member and settles its collation.
func (r *Resolver) member(p *Policy, m *Member) error {
	t := p.Type
	if fn := m.method; fn != nil {
		switch {
		case fn.Static:
			return NewValidationError(t.Name, m.Name, m.Pos, "getter must be a method, not a package function")
		case fn.Abstract:
			return NewValidationError(t.Name, m.Name, m.Pos, "getter must have a body")
		case m.Info == nil:
			return NewValidationError(t.Name, m.Name, m.Pos, "getter must take no parameters and return a single value")
		}
	}
	if m.Bucket == BucketInvalid {
		return NewValidationError(t.Name, m.Name, m.Pos, "member type cannot be classified")
	}
	m.Participates = true
	m.Collation = m.ann.Collation
	if m.Bucket != BucketString && m.Collation != equatable.Ordinal {
		p.warn(m.Pos, fmt.Sprintf("collation %s ignored on member %s.%s of non-string type %s", m.Collation, t.Name, m.Name, m.Info.Ident))
		m.Collation = equatable.Ordinal
	}
	return nil
}

// hooks validates the custom equals and hash hooks of the type.
func (r *Resolver) hooks(p *Policy) error {
	t := p.Type
	for _, fn := range t.def.Methods {
		if _, ok := fn.Annotation(schema.CustomEqualsName); ok {
			if p.CustomEquals != nil {
				return NewValidationError(t.Name, fn.Name, fn.Pos,
					fmt.Sprintf("more than one custom equals hook (also %s)", p.CustomEquals.Name))
			}
			if err := validateCustomEquals(t, fn); err != nil {
				return err
			}
			p.CustomEquals = fn
		}
		if _, ok := fn.Annotation(schema.CustomHashName); ok {
			if p.CustomHash != nil {
				return NewValidationError(t.Name, fn.Name, fn.Pos,
					fmt.Sprintf("more than one custom hash hook (also %s)", p.CustomHash.Name))
			}
			if err := validateCustomHash(t, fn); err != nil {
				return err
			}
			p.CustomHash = fn
		}
	}
	return nil
}

func validateCustomEquals(t *Type, fn *load.Method) error {
	self := t.Name
	if t.Reference() {
		self = "*" + self
	}
	switch {
	case fn.Static:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom equals hook must be a method, not a package function")
	case fn.Abstract:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom equals hook must have a body")
	case len(fn.Results) != 1 || fn.Results[0].Type != field.TypeBool:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom equals hook must return bool")
	case len(fn.Params) != 1:
		return NewValidationError(t.Name, fn.Name, fn.Pos,
			fmt.Sprintf("custom equals hook must take exactly one parameter of type %s", self))
	case t.Reference() && !fn.Params[0].SelfPointer, !t.Reference() && !fn.Params[0].Self:
		return NewValidationError(t.Name, fn.Name, fn.Pos,
			fmt.Sprintf("custom equals hook parameter must be of type %s, got %s", self, fn.Params[0].Info.Ident))
	}
	return nil
}

func validateCustomHash(t *Type, fn *load.Method) error {
	switch {
	case fn.Static:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom hash hook must be a method, not a package function")
	case fn.Abstract:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom hash hook must have a body")
	case len(fn.Params) != 0:
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom hash hook must take no parameters")
	case len(fn.Results) != 1 || !fn.Results[0].PlainInt():
		return NewValidationError(t.Name, fn.Name, fn.Pos, "custom hash hook must return int")
	}
	return nil
}

// base resolves the equality pair of the embedded ancestor.
func (r *Resolver) base(p *Policy) {
	b := p.Type.def.Base
	if b == nil {
		return
	}
	pair := &BasePair{
		Field:    b.Field,
		Ident:    b.Ident,
		Pointer:  b.Pointer,
		TypeName: b.TypeName,
	}
	if bt, ok := r.types[b.TypeName]; ok && b.Local && Candidate(bt) {
		pair.Derived = true
		pair.ParamPointer = bt.Reference()
		p.Base = pair
		return
	}
	switch {
	case b.Equal != nil && b.Hash:
		pair.ParamPointer = b.Equal.ParamPointer
		p.Base = pair
	case b.Equal != nil:
		p.warn(b.Pos, fmt.Sprintf("base %s of %s declares Equal but not Hash; base equality ignored", b.Ident, p.Type.Name))
	case b.Hash:
		p.warn(b.Pos, fmt.Sprintf("base %s of %s declares Hash but not Equal; base equality ignored", b.Ident, p.Type.Name))
	}
}

func (p *Policy) warn(pos, msg string) {
	p.Warnings = append(p.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Message:  msg,
		Pos:      pos,
		Type:     p.Type.Name,
	})
}
