package golang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/gen"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

var (
	stringInfo = &field.TypeInfo{Type: field.TypeString, Ident: "string", Comparable: true}
	intInfo    = &field.TypeInfo{Type: field.TypeInt, Ident: "int", Comparable: true}
	byteInfo   = &field.TypeInfo{Type: field.TypeUint8, Ident: "byte", Comparable: true}
	codeInfo   = &field.TypeInfo{Type: field.TypeString, Ident: "Code", PkgPath: "example.com/shapes", Named: true, Comparable: true}
	sliceInfo  = &field.TypeInfo{Type: field.TypeSlice, Ident: "[]string"}
	timeInfo   = &field.TypeInfo{Type: field.TypeStruct, Ident: "time.Time", PkgPath: "time", Named: true, Comparable: true, Equal: &field.Operator{}}
	nodeInfo   = &field.TypeInfo{Type: field.TypePointer, Ident: "*Node", Comparable: true, Equal: &field.Operator{}}
	personPtr  = &field.TypeInfo{Type: field.TypePointer, Ident: "*Person", Comparable: true}
)

func equals(c equatable.Collation) map[string]any {
	return map[string]any{schema.EqualsName: schema.Equals{Collation: c}}
}

func marker(kind schema.Kind) map[string]any {
	return map[string]any{schema.GenerateName: schema.Generate{Kind: kind, Explicit: true}}
}

func newField(name string, info *field.TypeInfo, ann map[string]any) *load.Field {
	return &load.Field{Name: name, Info: info, Annotations: ann}
}

// personType is a reference type with a custom equals hook, a getter and
// members of several buckets.
func personType() *load.Type {
	return &load.Type{
		Name:        "Person",
		Annotations: marker(schema.KindReference),
		Fields: []*load.Field{
			newField("Name", stringInfo, equals(equatable.OrdinalIgnoreCase)),
			newField("ID", intInfo, equals(equatable.Ordinal)),
			newField("Tags", sliceInfo, equals(equatable.Ordinal)),
			newField("Born", timeInfo, equals(equatable.Ordinal)),
			newField("Next", nodeInfo, equals(equatable.Ordinal)),
			newField("Code", codeInfo, equals(equatable.OrdinalIgnoreCase)),
			newField("Notes", stringInfo, nil),
		},
		Methods: []*load.Method{
			{
				Name:        "Initial",
				PointerRecv: true,
				Results:     []*field.TypeInfo{byteInfo},
				Annotations: equals(equatable.Ordinal),
			},
			{
				Name:        "sameNotes",
				PointerRecv: true,
				Params:      []*load.Param{{Info: personPtr, SelfPointer: true}},
				Results:     []*field.TypeInfo{{Type: field.TypeBool, Ident: "bool"}},
				Annotations: map[string]any{schema.CustomEqualsName: schema.CustomEquals{}},
			},
			{
				Name:        "notesHash",
				PointerRecv: true,
				Results:     []*field.TypeInfo{intInfo},
				Annotations: map[string]any{schema.CustomHashName: schema.CustomHash{}},
			},
		},
	}
}

func pointType() *load.Type {
	return &load.Type{
		Name:        "Point",
		Annotations: marker(schema.KindValue),
		Fields: []*load.Field{
			newField("X", intInfo, equals(equatable.Ordinal)),
			newField("Y", intInfo, equals(equatable.Ordinal)),
		},
	}
}

func pairType() *load.Type {
	return &load.Type{
		Name: "Pair",
		TypeParams: []*load.TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V", Constraint: "fmt.Stringer", ConstraintPath: "fmt", ConstraintName: "Stringer"},
		},
		Annotations: marker(schema.KindReference),
		Fields: []*load.Field{
			newField("Key", &field.TypeInfo{Type: field.TypeParam, Ident: "K"}, equals(equatable.Ordinal)),
			newField("Value", &field.TypeInfo{Type: field.TypeParam, Ident: "V"}, equals(equatable.Ordinal)),
		},
	}
}

func employeeType(base *load.Base) *load.Type {
	return &load.Type{
		Name:        "Employee",
		Annotations: marker(schema.KindReference),
		Base:        base,
		Fields: []*load.Field{
			{Name: base.Field, Info: &field.TypeInfo{Type: field.TypeStruct, Ident: base.Ident, Named: true}, Embedded: true},
			newField("Title", stringInfo, equals(equatable.Ordinal)),
		},
	}
}

// generate derives the given types and renders the generated file.
func generate(t *testing.T, types ...*load.Type) string {
	t.Helper()
	pkg := &load.Package{Name: "shapes", PkgPath: "example.com/shapes", Dir: t.TempDir(), Types: types}
	g, err := gen.NewGraph(&gen.Config{Diagnostics: &gen.Diagnostics{}}, pkg)
	require.NoError(t, err)
	generator := gen.NewJenniferGenerator(g)
	generator.WithDialect(NewDialect(generator))
	c := &gen.Collector{}
	_, err = g.Derive(context.Background(), c)
	require.NoError(t, err)
	return generator.File(c.Sets).GoString()
}
