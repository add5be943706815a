// Package cleanup removes equatable annotations from Go source files once
// the equality methods of their types were generated.
//
// Only the struct types given by name are touched: their equatable struct
// tag keys and directives are removed, along with the directives of their
// methods. Other tag keys, comments and declarations are kept as written.
package cleanup

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/equatable/schema"
)

// File rewrites the Go file at path in place. It reports whether the file
// changed; unchanged files are not written.
func File(path string, types ...string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, changed, err := Source(path, src, types...)
	if err != nil || !changed {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// Source strips the annotations of the named types from src and returns
// the formatted result.
func Source(filename string, src []byte, types ...string) ([]byte, bool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", filename, err)
	}
	s := &stripper{
		src:   src,
		file:  fset.File(file.Pos()),
		names: make(map[string]bool, len(types)),
	}
	for _, name := range types {
		s.names[name] = true
	}
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			s.genDecl(decl)
		case *ast.FuncDecl:
			if decl.Recv != nil && len(decl.Recv.List) == 1 && s.names[recvName(decl.Recv.List[0].Type)] {
				s.comments(decl.Doc)
			}
		}
	}
	if len(s.edits) == 0 {
		return src, false, nil
	}
	out, err := format.Source(s.apply())
	if err != nil {
		return nil, false, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return out, true, nil
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

type stripper struct {
	src   []byte
	file  *token.File
	names map[string]bool
	edits []edit
}

func (s *stripper) genDecl(decl *ast.GenDecl) {
	if decl.Tok != token.TYPE {
		return
	}
	for _, spec := range decl.Specs {
		ts := spec.(*ast.TypeSpec)
		st, ok := ts.Type.(*ast.StructType)
		if !ok || !s.names[ts.Name.Name] {
			continue
		}
		s.comments(ts.Doc)
		if len(decl.Specs) == 1 {
			s.comments(decl.Doc)
		}
		for _, f := range st.Fields.List {
			s.tag(f)
		}
	}
}

// comments removes the directive lines of cg, and the blank comment lines
// that separated them from the rest of the group.
func (s *stripper) comments(cg *ast.CommentGroup) {
	if cg == nil {
		return
	}
	list := cg.List
	remove := make([]bool, len(list))
	var removed bool
	for i, c := range list {
		if schema.IsDirective(c.Text) {
			remove[i], removed = true, true
		}
	}
	if !removed {
		return
	}
	for i := len(list) - 1; i >= 0; i-- {
		if remove[i] {
			continue
		}
		if strings.TrimSpace(list[i].Text) != "//" {
			break
		}
		remove[i] = true
	}
	for i, c := range list {
		if remove[i] {
			s.removeLine(c)
		}
	}
}

// removeLine deletes the source line holding c.
func (s *stripper) removeLine(c *ast.Comment) {
	start := s.file.Offset(c.Pos())
	end := s.file.Offset(c.End())
	for start > 0 && s.src[start-1] != '\n' {
		start--
	}
	if i := bytes.IndexByte(s.src[end:], '\n'); i >= 0 {
		end += i + 1
	} else {
		end = len(s.src)
	}
	s.edits = append(s.edits, edit{start: start, end: end})
}

func (s *stripper) tag(f *ast.Field) {
	if f.Tag == nil {
		return
	}
	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return
	}
	if _, ok := reflect.StructTag(raw).Lookup(schema.TagKey); !ok {
		return
	}
	var text string
	switch stripped := schema.StripTag(raw); {
	case stripped == "":
	case strconv.CanBackquote(stripped):
		text = "`" + stripped + "`"
	default:
		text = strconv.Quote(stripped)
	}
	s.edits = append(s.edits, edit{
		start: s.file.Offset(f.Tag.Pos()),
		end:   s.file.Offset(f.Tag.End()),
		text:  text,
	})
}

// apply returns the source with every edit applied. Edits never overlap.
func (s *stripper) apply() []byte {
	slices.SortFunc(s.edits, func(a, b edit) int { return a.start - b.start })
	var (
		buf  bytes.Buffer
		last int
	)
	for _, e := range s.edits {
		buf.Write(s.src[last:e.start])
		buf.WriteString(e.text)
		last = e.end
	}
	buf.Write(s.src[last:])
	return buf.Bytes()
}

// recvName returns the type name of a method receiver expression.
func recvName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}
