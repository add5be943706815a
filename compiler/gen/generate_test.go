package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
)

// newGenerator returns a generator writing into a temporary directory.
func newGenerator(t *testing.T, d MinimalDialect, types ...*load.Type) (*JenniferGenerator, string) {
	t.Helper()
	g, _ := newGraph(types...)
	g.Package.Dir = t.TempDir()
	gen := NewJenniferGenerator(g)
	if d != nil {
		gen.WithDialect(d)
	}
	return gen, g.Package.Dir
}

func pairType() *load.Type {
	return &load.Type{
		Name:        "Pair",
		Annotations: generateAnn(schema.KindValue, true),
		TypeParams: []*load.TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V", Constraint: "fmt.Stringer", ConstraintPath: "fmt", ConstraintName: "Stringer"},
		},
		Fields: []*load.Field{member("Key", paramInfo, equatable.Ordinal)},
	}
}

func TestJenniferGenerator_Generate(t *testing.T) {
	gen, dir := newGenerator(t, mockDialectGenerator{}, mixedTypes()[0], mixedTypes()[3])
	res, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Derived, 2)

	assert.Equal(t, filepath.Join(dir, DefaultOutput), gen.Path())
	buf, err := os.ReadFile(gen.Path())
	require.NoError(t, err)
	src := string(buf)
	assert.Contains(t, src, "// "+load.GeneratedHeader)
	assert.Contains(t, src, "package shapes")
	assert.Contains(t, src, "routinesGood")
	assert.Contains(t, src, "routinesLoose")
	assert.Contains(t, src, `_ = "Good"`)
	assert.NotContains(t, src, "equatable\"", "unused runtime import is dropped")
}

func TestJenniferGenerator_PartialFailure(t *testing.T) {
	gen, _ := newGenerator(t, mockMinimalDialect{}, mixedTypes()...)
	res, err := gen.Generate(context.Background())
	require.ErrorIs(t, err, ErrDerivationFailed)
	require.NotNil(t, res)

	buf, err := os.ReadFile(gen.Path())
	require.NoError(t, err, "derived types are written despite failures")
	assert.Contains(t, string(buf), "routinesGood")
	assert.NotContains(t, string(buf), "routinesBad")
}

func TestJenniferGenerator_NoDialect(t *testing.T) {
	gen, _ := newGenerator(t, nil, mixedTypes()[0])
	_, err := gen.Generate(context.Background())
	assert.True(t, IsConfigError(err))
	assert.True(t, IsConfigError(gen.Attach(&RoutineSet{})))
}

func TestJenniferGenerator_RemoveStale(t *testing.T) {
	plain := mixedTypes()[2]

	t.Run("generated", func(t *testing.T) {
		gen, _ := newGenerator(t, mockMinimalDialect{}, plain)
		require.NoError(t, os.WriteFile(gen.Path(), []byte("// "+load.GeneratedHeader+"\n\npackage shapes\n"), 0o644))
		res, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Plain"}, res.Skipped)
		assert.NoFileExists(t, gen.Path())
	})

	t.Run("handwritten", func(t *testing.T) {
		gen, _ := newGenerator(t, mockMinimalDialect{}, plain)
		require.NoError(t, os.WriteFile(gen.Path(), []byte("// Package shapes.\npackage shapes\n"), 0o644))
		_, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.FileExists(t, gen.Path())
	})

	t.Run("missing", func(t *testing.T) {
		gen, _ := newGenerator(t, mockMinimalDialect{}, plain)
		_, err := gen.Generate(context.Background())
		require.NoError(t, err)
	})
}

func TestJenniferGenerator_RenderError(t *testing.T) {
	gen, _ := newGenerator(t, brokenDialect{}, mixedTypes()[0])
	_, err := gen.Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.NoFileExists(t, gen.Path())
}

func TestJenniferGenerator_WithOutDir(t *testing.T) {
	gen, _ := newGenerator(t, mockMinimalDialect{}, mixedTypes()[0])
	out := t.TempDir()
	gen.WithOutDir(out).WithOutDir("")
	assert.Equal(t, filepath.Join(out, DefaultOutput), gen.Path())
}

func TestJenniferGenerator_Generic(t *testing.T) {
	gen, _ := newGenerator(t, mockDialectGenerator{}, pairType())
	pair, ok := gen.Graph().Type("Pair")
	require.True(t, ok)

	assert.Equal(t, "Pair[K, V]", jen.Add(gen.TypeCode(pair)).GoString())
	assert.Equal(t, "Pair[K, V]", jen.Add(gen.SelfType(pair)).GoString())
	params := gen.TypeParams(pair)
	require.Len(t, params, 2)
	decl := fmt.Sprintf("%#v", jen.Func().Id("f").Types(params...).Params().Block())
	assert.Contains(t, decl, "func f[K comparable, V fmt.Stringer]()")

	c := &Collector{}
	_, err := gen.Graph().Derive(context.Background(), c)
	require.NoError(t, err)
	src := gen.File(c.Sets).GoString()
	assert.Contains(t, src, "routinesPair")
	assert.NotContains(t, src, `_ = "Pair"`, "generic types get no assertion")
}

func TestJenniferGenerator_SelfType(t *testing.T) {
	gen, _ := newGenerator(t, mockMinimalDialect{}, mixedTypes()[0])
	good, _ := gen.Graph().Type("Good")
	assert.Equal(t, "*Good", jen.Add(gen.SelfType(good)).GoString())
}

func TestHasHeader(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"first line", "// " + load.GeneratedHeader + "\npackage p\n", true},
		{"after blank and comments", "\n// build notes\n//" + load.GeneratedHeader + "\npackage p\n", true},
		{"after package", "package p\n// " + load.GeneratedHeader + "\n", false},
		{"absent", "// hello\npackage p\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasHeader([]byte(tt.src), load.GeneratedHeader))
		})
	}
}

func TestWriteFile_WriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.go")
	f := jen.NewFile("p")
	f.Var().Id("X").Op("=").Lit(1)

	err := writeFile(path, f)
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "write", gerr.Phase)
	assert.Equal(t, path, gerr.File)
}

func TestWriteFile_ClearsDebugOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")
	require.NoError(t, os.WriteFile(path+".error", []byte("junk"), 0o644))
	f := jen.NewFile("p")
	f.Var().Id("X").Op("=").Lit(1)

	require.NoError(t, writeFile(path, f))
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".error")
}
