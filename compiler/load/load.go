// Package load loads Go packages from source and extracts the struct types,
// members, methods and annotations that drive equality generation.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/equatable/schema"
)

// GeneratedHeader is the header comment of files written by the generator.
const GeneratedHeader = "Code generated by equatable. DO NOT EDIT."

// Config holds the configuration for loading packages.
type Config struct {
	// Dir is the directory patterns are resolved against.
	Dir string
	// BuildFlags are passed to the build system, for example "-tags=foo".
	BuildFlags []string
	// Output is the base name of the generated file. Existing files with
	// this name are ignored while loading, so stale output never takes part
	// in type checking.
	Output string
	// Header is the header comment of generated files. Methods declared in
	// files carrying it belong to earlier passes. Defaults to
	// GeneratedHeader.
	Header string
}

func (c *Config) header() string {
	if c.Header != "" {
		return c.Header
	}
	return GeneratedHeader
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Load loads the packages matching the patterns.
func (c *Config) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	overlay, err := c.overlay(ctx, patterns)
	if err != nil {
		return nil, err
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
		Overlay:    overlay,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}
	var (
		errs   []error
		loaded = make([]*Package, 0, len(pkgs))
	)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			errs = append(errs, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors))
			continue
		}
		p, err := c.extract(pkg)
		if err != nil {
			errs = append(errs, fmt.Errorf("package %s: %w", pkg.PkgPath, err))
			continue
		}
		loaded = append(loaded, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return loaded, nil
}

// overlay blanks previously generated output files, keeping only their
// package clause.
func (c *Config) overlay(ctx context.Context, patterns []string) (map[string][]byte, error) {
	if c.Output == "" {
		return nil, nil
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	overlay := make(map[string][]byte)
	fset := token.NewFileSet()
	for _, pkg := range pkgs {
		for _, name := range pkg.GoFiles {
			if filepath.Base(name) != c.Output {
				continue
			}
			f, err := parser.ParseFile(fset, name, nil, parser.PackageClauseOnly)
			if err != nil {
				// Unparsable output is replaced as well.
				overlay[name] = []byte("package " + pkg.Name + "\n")
				continue
			}
			overlay[name] = []byte("package " + f.Name.Name + "\n")
		}
	}
	return overlay, nil
}

// extract builds the package model from a type-checked package.
func (c *Config) extract(pkg *packages.Package) (*Package, error) {
	p := &Package{
		Name:    pkg.Name,
		PkgPath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	in := newInspector(pkg.Fset, pkg.Types)
	var (
		funcs []*ast.FuncDecl
		gen   = make(map[*ast.FuncDecl]bool)
	)
	for _, file := range pkg.Syntax {
		generated := isGenerated(file, c.header())
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, spec := range decl.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(decl.Specs) == 1 {
						doc = decl.Doc
					}
					t, err := c.newType(pkg, in, ts, doc)
					if err != nil {
						return nil, err
					}
					if t != nil {
						p.Types = append(p.Types, t)
					}
				}
			case *ast.FuncDecl:
				funcs = append(funcs, decl)
				gen[decl] = generated
				if decl.Recv == nil {
					p.Funcs = append(p.Funcs, decl.Name.Name)
				}
			}
		}
	}
	for _, fd := range funcs {
		if err := c.addFunc(pkg, in, p, fd, gen[fd]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// newType returns the model of a struct type declaration, or nil for any
// other declaration.
func (c *Config) newType(pkg *packages.Package, in *inspector, ts *ast.TypeSpec, doc *ast.CommentGroup) (*Type, error) {
	if ts.Assign.IsValid() {
		return nil, nil
	}
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, nil
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, nil
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	t := &Type{
		Name:        obj.Name(),
		Pos:         in.pos(obj.Pos()),
		Annotations: make(map[string]any),
	}
	anns, err := schema.ParseAnnotations(commentLines(doc))
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", t.Name, err)
	}
	for _, ann := range anns {
		addAnnotation(t.Annotations, ann)
	}
	for i := 0; i < named.TypeParams().Len(); i++ {
		t.TypeParams = append(t.TypeParams, in.typeParam(named.TypeParams().At(i)))
	}
	for i := 0; i < st.NumFields(); i++ {
		v, tag := st.Field(i), st.Tag(i)
		f := &Field{
			Name:        v.Name(),
			Pos:         in.pos(v.Pos()),
			Info:        in.typeInfo(v.Type()),
			Tag:         tag,
			Embedded:    v.Embedded(),
			Annotations: make(map[string]any),
		}
		ann, ok, err := schema.ParseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("type %s field %s: %w", t.Name, f.Name, err)
		}
		if ok {
			addAnnotation(f.Annotations, ann)
		}
		t.Fields = append(t.Fields, f)
		if f.Embedded && !ok && t.Base == nil {
			t.Base = in.base(v)
		}
	}
	return t, nil
}

// addFunc records a method on its receiver type, or a directive-carrying
// package function on the type of its first parameter.
func (c *Config) addFunc(pkg *packages.Package, in *inspector, p *Package, fd *ast.FuncDecl, generated bool) error {
	fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
	if !ok {
		return nil
	}
	sig := fn.Type().(*types.Signature)
	anns, err := schema.ParseAnnotations(commentLines(fd.Doc))
	if err != nil {
		return fmt.Errorf("func %s: %w", fd.Name.Name, err)
	}
	m := &Method{
		Name:        fn.Name(),
		Pos:         in.pos(fn.Pos()),
		Abstract:    fd.Body == nil,
		Generated:   generated,
		Annotations: make(map[string]any),
	}
	for _, ann := range anns {
		addAnnotation(m.Annotations, ann)
	}
	var self types.Type
	if recv := sig.Recv(); recv != nil {
		self = recv.Type()
		if ptr, ok := self.(*types.Pointer); ok {
			self, m.PointerRecv = ptr.Elem(), true
		}
	} else {
		if len(anns) == 0 {
			return nil
		}
		m.Static = true
		if sig.Params().Len() > 0 {
			self = sig.Params().At(0).Type()
			if ptr, ok := self.(*types.Pointer); ok {
				self = ptr.Elem()
			}
		}
	}
	for i := 0; i < sig.Params().Len(); i++ {
		pt := sig.Params().At(i).Type()
		param := &Param{Info: in.typeInfo(pt)}
		if self != nil {
			param.Self = types.Identical(pt, self)
			param.SelfPointer = types.Identical(pt, types.NewPointer(self))
		}
		m.Params = append(m.Params, param)
	}
	for i := 0; i < sig.Results().Len(); i++ {
		m.Results = append(m.Results, in.typeInfo(sig.Results().At(i).Type()))
	}
	var t *Type
	if named, ok := self.(*types.Named); ok && named.Obj().Pkg() == pkg.Types {
		t, _ = p.Type(named.Obj().Name())
	}
	if t == nil {
		if m.Static {
			p.Orphans = append(p.Orphans, m)
		}
		return nil
	}
	t.Methods = append(t.Methods, m)
	return nil
}

// isGenerated reports whether the file carries the header before its
// package clause.
func isGenerated(file *ast.File, header string) bool {
	for _, cg := range file.Comments {
		if cg.Pos() > file.Package {
			break
		}
		for _, c := range cg.List {
			if strings.TrimSpace(strings.TrimPrefix(c.Text, "//")) == header {
				return true
			}
		}
	}
	return false
}

func commentLines(cg *ast.CommentGroup) []string {
	if cg == nil {
		return nil
	}
	lines := make([]string, 0, len(cg.List))
	for _, c := range cg.List {
		lines = append(lines, c.Text)
	}
	return lines
}
