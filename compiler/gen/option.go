package gen

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/syssam/equatable/schema"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file. Headers other than
// the default are not recognised as generator output when loading.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithOutput sets the name of the generated file.
func WithOutput(name string) Option {
	return func(c *Config) error {
		switch {
		case name == "":
			return NewConfigError("Output", nil, "output file name cannot be empty")
		case filepath.Base(name) != name:
			return NewConfigError("Output", name, "output must be a file name, not a path")
		case !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go"):
			return NewConfigError("Output", name, "output must be a non-test .go file")
		}
		c.Output = name
		return nil
	}
}

// WithRuntime sets the import path of the runtime support package.
// For example: "github.com/syssam/equatable".
func WithRuntime(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Runtime", nil, "runtime package cannot be empty")
		}
		c.Runtime = path
		return nil
	}
}

// WithDefaultKind sets the kind used when a type does not name one.
// Supported kinds: "reference", "value".
func WithDefaultKind(kind string) Option {
	return func(c *Config) error {
		k, err := schema.ParseKind(kind)
		if err != nil {
			return NewConfigError("DefaultKind", kind, "unsupported kind; use reference or value")
		}
		c.DefaultKind = k
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "must not be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithCleanup enables stripping equatable annotations from the sources of
// derived types.
func WithCleanup(enabled bool) Option {
	return func(c *Config) error {
		c.Cleanup = enabled
		return nil
	}
}

// WithDiagnostics sets the diagnostics sink.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(c *Config) error {
		if sink == nil {
			return NewConfigError("Diagnostics", nil, "sink cannot be nil")
		}
		c.Diagnostics = sink
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
