// Package ui renders diagnostics and run summaries on a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/go-openapi/inflect"
	"github.com/mattn/go-isatty"

	"github.com/syssam/equatable/compiler"
	"github.com/syssam/equatable/compiler/gen"
)

// Printer writes diagnostics in the "pos: severity: message" form of
// compilers, coloured by severity. It implements gen.DiagnosticSink.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	min gen.Severity

	pos, warn, fail, info, ok *color.Color
	errors                    int
}

// NewPrinter returns a printer writing to w. Mode is "auto", "always" or
// "never"; auto colours only terminals. Diagnostics below level are dropped.
func NewPrinter(w io.Writer, mode string, level gen.Severity) *Printer {
	p := &Printer{
		w:    w,
		min:  level,
		pos:  color.New(color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		info: color.New(color.FgCyan),
		ok:   color.New(color.FgGreen, color.Bold),
	}
	enabled := mode == "always" || (mode != "never" && IsTerminal(w))
	for _, c := range []*color.Color{p.pos, p.warn, p.fail, p.info, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report implements gen.DiagnosticSink.
func (p *Printer) Report(d gen.Diagnostic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d.Severity == gen.SeverityError {
		p.errors++
	}
	if d.Severity < p.min {
		return
	}
	if d.Pos != "" {
		p.pos.Fprint(p.w, d.Pos+": ")
	}
	p.severity(d.Severity).Fprint(p.w, d.Severity.String()+": ")
	fmt.Fprintln(p.w, d.Message)
}

// Errors returns the number of error diagnostics reported so far,
// including the ones below the printed severity.
func (p *Printer) Errors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors
}

// Status prints a progress line when info diagnostics are shown.
func (p *Printer) Status(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.min <= gen.SeverityInfo {
		p.info.Fprintf(p.w, format+"\n", args...)
	}
}

// Fail prints an error that was not reported as a diagnostic.
func (p *Printer) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail.Fprint(p.w, "error: ")
	fmt.Fprintln(p.w, err)
}

func (p *Printer) severity(s gen.Severity) *color.Color {
	switch s {
	case gen.SeverityError:
		return p.fail
	case gen.SeverityWarning:
		return p.warn
	}
	return p.info
}

// Summary prints the outcome of a run, such as
// "derived 3 types in 2 packages, skipped 1 type".
func (p *Printer) Summary(r *compiler.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	parts := []string{fmt.Sprintf("derived %s in %s", count(r.Derived(), "type"), count(len(r.Results), "package"))}
	if n := r.Skipped(); n > 0 {
		parts = append(parts, "skipped "+count(n, "type"))
	}
	if n := len(r.Cleaned); n > 0 {
		parts = append(parts, "cleaned "+count(n, "file"))
	}
	c := p.ok
	if n := r.Failed(); n > 0 {
		parts = append(parts, count(n, "failure"))
		c = p.fail
	}
	c.Fprintln(p.w, strings.Join(parts, ", "))
}

// count formats n with the singular or plural form of noun.
func count(n int, noun string) string {
	if n != 1 {
		noun = inflect.Pluralize(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

var _ gen.DiagnosticSink = (*Printer)(nil)
