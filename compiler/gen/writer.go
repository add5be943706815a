package gen

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// writeFile renders f, formats it with goimports (which adds the imports
// of type parameter constraints spelled as plain identifiers) and writes
// it to path. Output that fails to format is written to path+".error"
// for debugging.
func writeFile(path string, f *jen.File) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", path, "rendering generated code", err)
	}
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// Errors intentionally ignored as we're already in error state.
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError("format", path, "unformatted output written to "+debugPath, err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	if err := os.Remove(path + ".error"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewGenerationError("write", path+".error", "removing stale debug output", err)
	}
	return nil
}

// removeStale deletes the file at path if it was written by the generator,
// that is, if its leading comment lines contain header.
func removeStale(path, header string) error {
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return NewGenerationError("write", path, "reading previous output", err)
	}
	if !hasHeader(buf, header) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return NewGenerationError("write", path, "removing stale output", err)
	}
	return nil
}

func hasHeader(src []byte, header string) bool {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case !strings.HasPrefix(line, "//"):
			return false
		case strings.TrimSpace(strings.TrimPrefix(line, "//")) == header:
			return true
		}
	}
	return false
}
