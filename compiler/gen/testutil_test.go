package gen

import (
	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

var (
	stringInfo  = &field.TypeInfo{Type: field.TypeString, Ident: "string", Comparable: true}
	intInfo     = &field.TypeInfo{Type: field.TypeInt, Ident: "int", Comparable: true}
	int32Info   = &field.TypeInfo{Type: field.TypeInt32, Ident: "int32", Comparable: true}
	float64Info = &field.TypeInfo{Type: field.TypeFloat64, Ident: "float64", Comparable: true}
	boolInfo    = &field.TypeInfo{Type: field.TypeBool, Ident: "bool", Comparable: true}
	sliceInfo   = &field.TypeInfo{Type: field.TypeSlice, Ident: "[]string"}
	mapInfo     = &field.TypeInfo{Type: field.TypeMap, Ident: "map[string]int"}
	timeInfo    = &field.TypeInfo{Type: field.TypeStruct, Ident: "time.Time", PkgPath: "time", Named: true, Comparable: true, Equal: &field.Operator{}}
	structInfo  = &field.TypeInfo{Type: field.TypeStruct, Ident: "Box", Named: true, Comparable: true}
	nodeInfo    = &field.TypeInfo{Type: field.TypePointer, Ident: "*Node", Comparable: true, Equal: &field.Operator{}}
	ptrInfo     = &field.TypeInfo{Type: field.TypePointer, Ident: "*Box", Comparable: true}
	paramInfo   = &field.TypeInfo{Type: field.TypeParam, Ident: "K"}
)

func equalsAnn(c equatable.Collation) map[string]any {
	return map[string]any{schema.EqualsName: schema.Equals{Collation: c}}
}

func generateAnn(kind schema.Kind, explicit bool) map[string]any {
	return map[string]any{schema.GenerateName: schema.Generate{Kind: kind, Explicit: explicit}}
}

func customEqualsAnn() map[string]any {
	return map[string]any{schema.CustomEqualsName: schema.CustomEquals{}}
}

func customHashAnn() map[string]any {
	return map[string]any{schema.CustomHashName: schema.CustomHash{}}
}

func member(name string, info *field.TypeInfo, c equatable.Collation) *load.Field {
	return &load.Field{Name: name, Pos: "shapes.go:" + name, Info: info, Annotations: equalsAnn(c)}
}

func plain(name string, info *field.TypeInfo) *load.Field {
	return &load.Field{Name: name, Pos: "shapes.go:" + name, Info: info}
}

// equalsHook returns a valid custom equals hook for a reference type.
func equalsHook(name string) *load.Method {
	return &load.Method{
		Name:        name,
		Pos:         "shapes.go:" + name,
		PointerRecv: true,
		Params:      []*load.Param{{Info: &field.TypeInfo{Type: field.TypePointer}, SelfPointer: true}},
		Results:     []*field.TypeInfo{boolInfo},
		Annotations: customEqualsAnn(),
	}
}

func hashHook(name string) *load.Method {
	return &load.Method{
		Name:        name,
		Pos:         "shapes.go:" + name,
		PointerRecv: true,
		Results:     []*field.TypeInfo{intInfo},
		Annotations: customHashAnn(),
	}
}

func newPackage(types ...*load.Type) *load.Package {
	return &load.Package{Name: "shapes", PkgPath: "example.com/shapes", Types: types}
}

// newGraph classifies the types of a package with a collecting sink.
func newGraph(types ...*load.Type) (*Graph, *Diagnostics) {
	diags := &Diagnostics{}
	g, err := NewGraph(&Config{Diagnostics: diags, Workers: 2}, newPackage(types...))
	if err != nil {
		panic(err)
	}
	return g, diags
}

// policyOf resolves the policy of the named type of g.
func policyOf(g *Graph, name string) (*Policy, error) {
	t, ok := g.Type(name)
	if !ok {
		panic("unknown type " + name)
	}
	return g.resolver.Resolve(t)
}
