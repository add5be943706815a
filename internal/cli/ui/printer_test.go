package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/equatable/compiler"
	"github.com/syssam/equatable/compiler/gen"
)

func TestPrinter_Report(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "auto", gen.SeverityWarning)

	p.Report(gen.Diagnostic{Severity: gen.SeverityInfo, Message: "derived Person (reference, 3 comparisons)"})
	p.Report(gen.Diagnostic{Severity: gen.SeverityWarning, Pos: "shapes.go:4:2", Message: "collation ignored"})
	p.Report(gen.Diagnostic{Severity: gen.SeverityError, Message: "bad hook"})

	assert.Equal(t, "shapes.go:4:2: warning: collation ignored\nerror: bad hook\n", buf.String())
	assert.Equal(t, 1, p.Errors())
}

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "always", gen.SeverityDebug)
	p.Report(gen.Diagnostic{Severity: gen.SeverityError, Message: "bad hook"})
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	p = NewPrinter(&buf, "never", gen.SeverityDebug)
	p.Report(gen.Diagnostic{Severity: gen.SeverityError, Message: "bad hook"})
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrinter_Summary(t *testing.T) {
	tests := []struct {
		name   string
		report *compiler.Report
		want   string
	}{
		{
			name:   "empty",
			report: &compiler.Report{},
			want:   "derived 0 types in 0 packages\n",
		},
		{
			name: "singular",
			report: &compiler.Report{
				Results: []*gen.Result{{Derived: make([]*gen.RoutineSet, 1), Skipped: []string{"Plain"}}},
				Cleaned: []string{"shapes.go"},
			},
			want: "derived 1 type in 1 package, skipped 1 type, cleaned 1 file\n",
		},
		{
			name: "failures",
			report: &compiler.Report{
				Results: []*gen.Result{
					{Derived: make([]*gen.RoutineSet, 2), Failed: []string{"Bad"}},
					{Failed: []string{"Worse"}},
				},
			},
			want: "derived 2 types in 2 packages, 2 failures\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, "never", gen.SeverityDebug).Summary(tt.report)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestPrinter_Status(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "never", gen.SeverityWarning).Status("watching %d packages", 2)
	assert.Empty(t, buf.String())

	NewPrinter(&buf, "never", gen.SeverityInfo).Status("watching %d packages", 2)
	assert.Equal(t, "watching 2 packages\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, "never", gen.SeverityError).Fail(assert.AnError)
	assert.Equal(t, "error: "+assert.AnError.Error()+"\n", buf.String())
}
