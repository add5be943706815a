package gen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Severity of a diagnostic.
type Severity int8

// Diagnostic severities, from least to most severe.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Level maps the severity to a log level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Diagnostic is a message produced while deriving a package.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Pos is the source location, if known.
	Pos string
	// Type is the type the diagnostic is about, if any.
	Type string
	// Err is the error behind an error diagnostic.
	Err error
}

// String formats the diagnostic the way compilers do: "pos: severity: message".
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Pos != "" {
		b.WriteString(d.Pos)
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticSink accepts the diagnostics of a derivation pass.
// Implementations must be safe for concurrent use.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// Diagnostics collects diagnostics in memory.
type Diagnostics struct {
	mu   sync.Mutex
	list []Diagnostic
}

// Report implements DiagnosticSink.
func (d *Diagnostics) Report(diag Diagnostic) {
	d.mu.Lock()
	d.list = append(d.list, diag)
	d.mu.Unlock()
}

// All returns the collected diagnostics in report order.
func (d *Diagnostics) All() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Diagnostic(nil), d.list...)
}

// Filter returns the diagnostics with the given severity.
func (d *Diagnostics) Filter(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.All() {
		if diag.Severity == s {
			out = append(out, diag)
		}
	}
	return out
}

// Count returns the number of diagnostics with the given severity.
func (d *Diagnostics) Count(s Severity) int {
	return len(d.Filter(s))
}

// HasErrors reports whether an error diagnostic was collected.
func (d *Diagnostics) HasErrors() bool {
	return d.Count(SeverityError) > 0
}

// LogSink writes diagnostics to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink logging to l.
func NewLogSink(l *slog.Logger) *LogSink {
	return &LogSink{logger: l}
}

// Report implements DiagnosticSink.
func (s *LogSink) Report(d Diagnostic) {
	attrs := make([]slog.Attr, 0, 3)
	if d.Type != "" {
		attrs = append(attrs, slog.String("type", d.Type))
	}
	if d.Pos != "" {
		attrs = append(attrs, slog.String("pos", d.Pos))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.Any("error", d.Err))
	}
	s.logger.LogAttrs(context.Background(), d.Severity.Level(), d.Message, attrs...)
}

type multiSink []DiagnosticSink

func (m multiSink) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

// MultiSink returns a sink that reports to every given sink.
func MultiSink(sinks ...DiagnosticSink) DiagnosticSink {
	return multiSink(sinks)
}

var (
	_ DiagnosticSink = (*Diagnostics)(nil)
	_ DiagnosticSink = (*LogSink)(nil)
)
