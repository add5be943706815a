package load

import (
	"go/token"
	"go/types"

	"github.com/syssam/equatable/schema/field"
)

// inspector converts go/types objects of one package to the load model.
type inspector struct {
	fset *token.FileSet
	pkg  *types.Package
	qual types.Qualifier
}

func newInspector(fset *token.FileSet, pkg *types.Package) *inspector {
	return &inspector{
		fset: fset,
		pkg:  pkg,
		qual: types.RelativeTo(pkg),
	}
}

func (in *inspector) pos(p token.Pos) string {
	if !p.IsValid() {
		return ""
	}
	return in.fset.Position(p).String()
}

// typeInfo describes t as seen from inside the package.
func (in *inspector) typeInfo(t types.Type) *field.TypeInfo {
	t = types.Unalias(t)
	info := &field.TypeInfo{
		Type:       kindOf(t),
		Ident:      types.TypeString(t, in.qual),
		Comparable: types.Comparable(t),
	}
	if named, ok := t.(*types.Named); ok {
		info.Named = true
		if pkg := named.Obj().Pkg(); pkg != nil {
			info.PkgPath = pkg.Path()
		}
	}
	if m := in.method(t, "Equal"); m != nil {
		sig := m.Type().(*types.Signature)
		if sig.Params().Len() == 1 && sig.Results().Len() == 1 &&
			types.Identical(sig.Params().At(0).Type(), t) && isBool(sig.Results().At(0).Type()) {
			info.Equal = &field.Operator{
				PointerRecv: pointerRecv(sig) && info.Type != field.TypePointer,
			}
		}
	}
	info.Hasher = in.hasHash(t)
	return info
}

// typeParam describes a type parameter and its constraint.
func (in *inspector) typeParam(tp *types.TypeParam) *TypeParam {
	p := &TypeParam{
		Name:       tp.Obj().Name(),
		Constraint: types.TypeString(tp.Constraint(), in.qual),
	}
	if named, ok := types.Unalias(tp.Constraint()).(*types.Named); ok {
		if pkg := named.Obj().Pkg(); pkg != nil && pkg != in.pkg && named.TypeArgs().Len() == 0 {
			p.ConstraintPath, p.ConstraintName = pkg.Path(), named.Obj().Name()
		}
	}
	return p
}

// base describes an embedded field as the ancestor of its struct, or
// returns nil when the field does not embed a named struct.
func (in *inspector) base(v *types.Var) *Base {
	t := types.Unalias(v.Type())
	b := &Base{
		Field: v.Name(),
		Pos:   in.pos(v.Pos()),
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t, b.Pointer = types.Unalias(ptr.Elem()), true
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}
	b.Ident = types.TypeString(named, in.qual)
	b.TypeName = named.Obj().Name()
	b.Local = named.Obj().Pkg() == in.pkg
	ptr := types.NewPointer(named)
	if m := in.method(ptr, "Equal"); m != nil {
		sig := m.Type().(*types.Signature)
		if sig.Params().Len() == 1 && sig.Results().Len() == 1 && isBool(sig.Results().At(0).Type()) {
			switch pt := sig.Params().At(0).Type(); {
			case types.Identical(pt, named):
				b.Equal = &BaseEqual{}
			case types.Identical(pt, ptr):
				b.Equal = &BaseEqual{ParamPointer: true}
			}
		}
	}
	b.Hash = in.hasHash(named)
	return b
}

// method looks up a method by name on the addressable operand of type t.
func (in *inspector) method(t types.Type, name string) *types.Func {
	if _, ok := t.(*types.TypeParam); ok {
		return nil
	}
	obj, _, _ := types.LookupFieldOrMethod(t, true, in.pkg, name)
	fn, _ := obj.(*types.Func)
	return fn
}

func (in *inspector) hasHash(t types.Type) bool {
	m := in.method(t, "Hash")
	if m == nil {
		return false
	}
	sig := m.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		types.Identical(sig.Results().At(0).Type(), types.Typ[types.Int])
}

func pointerRecv(sig *types.Signature) bool {
	if sig.Recv() == nil {
		return false
	}
	_, ok := sig.Recv().Type().(*types.Pointer)
	return ok
}

func isBool(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Bool
}

var basicKinds = map[types.BasicKind]field.Type{
	types.Bool:       field.TypeBool,
	types.Int:        field.TypeInt,
	types.Int8:       field.TypeInt8,
	types.Int16:      field.TypeInt16,
	types.Int32:      field.TypeInt32,
	types.Int64:      field.TypeInt64,
	types.Uint:       field.TypeUint,
	types.Uint8:      field.TypeUint8,
	types.Uint16:     field.TypeUint16,
	types.Uint32:     field.TypeUint32,
	types.Uint64:     field.TypeUint64,
	types.Uintptr:    field.TypeUintptr,
	types.Float32:    field.TypeFloat32,
	types.Float64:    field.TypeFloat64,
	types.Complex64:  field.TypeComplex64,
	types.Complex128: field.TypeComplex128,
	types.String:     field.TypeString,
}

func kindOf(t types.Type) field.Type {
	if _, ok := t.(*types.TypeParam); ok {
		return field.TypeParam
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		return basicKinds[u.Kind()]
	case *types.Struct:
		return field.TypeStruct
	case *types.Array:
		return field.TypeArray
	case *types.Pointer:
		return field.TypePointer
	case *types.Slice:
		return field.TypeSlice
	case *types.Map:
		return field.TypeMap
	case *types.Chan:
		return field.TypeChan
	case *types.Signature:
		return field.TypeFunc
	case *types.Interface:
		return field.TypeInterface
	}
	return field.TypeInvalid
}
