package gen

import (
	"log/slog"
	"runtime"

	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
)

const (
	// DefaultOutput is the name of the file generated in every package.
	DefaultOutput = "equatable_gen.go"
	// DefaultRuntime is the import path of the runtime support package.
	DefaultRuntime = "github.com/syssam/equatable"
)

// Config holds the global codegen configuration.
type Config struct {
	// Header is the comment written at the top of generated files.
	// Defaults to load.GeneratedHeader, which the loader recognises.
	Header string
	// Output is the base name of the file written in each package.
	Output string
	// Runtime is the import path of the runtime support package
	// referenced by generated code.
	Runtime string
	// DefaultKind is the kind of types whose marker does not name one,
	// and of unmarked types with equality content.
	DefaultKind schema.Kind
	// Workers bounds the number of types synthesized in parallel.
	// Zero means GOMAXPROCS.
	Workers int
	// BuildFlags are passed to the package loader.
	BuildFlags []string
	// Cleanup strips equatable annotations from the sources of derived
	// types once their code was written.
	Cleanup bool
	// Diagnostics receives the diagnostics of every pass. When nil they
	// are logged to Logger.
	Diagnostics DiagnosticSink
	// Logger is used for diagnostics and progress logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// header returns the generated file header.
func (c *Config) header() string {
	if c.Header != "" {
		return c.Header
	}
	return load.GeneratedHeader
}

// output returns the generated file name.
func (c *Config) output() string {
	if c.Output != "" {
		return c.Output
	}
	return DefaultOutput
}

// runtime returns the runtime package import path.
func (c *Config) runtime() string {
	if c.Runtime != "" {
		return c.Runtime
	}
	return DefaultRuntime
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// sink returns the diagnostics sink of the configuration.
func (c *Config) sink() DiagnosticSink {
	if c.Diagnostics != nil {
		return c.Diagnostics
	}
	return NewLogSink(c.logger())
}

// LoadConfig returns the loader configuration matching c.
func (c *Config) LoadConfig(dir string) *load.Config {
	return &load.Config{
		Dir:        dir,
		BuildFlags: c.BuildFlags,
		Output:     c.output(),
		Header:     c.header(),
	}
}
