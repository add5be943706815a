// Package config loads the equatable command configuration from
// .equatable.yaml and EQUATABLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/syssam/equatable/compiler/gen"
)

// FileName is the base name of the configuration file, without extension.
const FileName = ".equatable"

// EnvPrefix prefixes the environment variables overriding the file.
const EnvPrefix = "EQUATABLE"

// Config is the command configuration.
type Config struct {
	// Output is the name of the generated file of each package.
	Output string `mapstructure:"output" validate:"required,endswith=.go,excludes=/"`
	// Runtime is the import path of the runtime support package.
	Runtime string `mapstructure:"runtime" validate:"required"`
	// Header overrides the generated file header.
	Header string `mapstructure:"header"`
	// DefaultKind is "reference" or "value".
	DefaultKind string `mapstructure:"default_kind" validate:"oneof=reference value"`
	// Workers bounds parallel synthesis. Zero means GOMAXPROCS.
	Workers    int      `mapstructure:"workers" validate:"gte=0,lte=256"`
	BuildFlags []string `mapstructure:"build_flags"`
	// Cleanup strips annotations from the sources of derived types.
	Cleanup bool `mapstructure:"cleanup"`
	// Color is "auto", "always" or "never".
	Color string `mapstructure:"color" validate:"oneof=auto always never"`
	// Verbose reports info and debug diagnostics too.
	Verbose bool `mapstructure:"verbose"`
	// Watch configures the watch command.
	Watch WatchConfig `mapstructure:"watch"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Delay is the debounce period in milliseconds.
	Delay int `mapstructure:"delay" validate:"gte=10,lte=60000"`
	// Ignore holds extra base name patterns whose changes are ignored.
	Ignore []string `mapstructure:"ignore"`
}

var validate = validator.New()

// Load reads the configuration of dir. The file is optional; when file is
// empty, .equatable.yaml is looked up in dir.
func Load(dir, file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("output", gen.DefaultOutput)
	v.SetDefault("runtime", gen.DefaultRuntime)
	v.SetDefault("header", "")
	v.SetDefault("default_kind", "reference")
	v.SetDefault("workers", 0)
	v.SetDefault("build_flags", []string{})
	v.SetDefault("cleanup", false)
	v.SetDefault("color", "auto")
	v.SetDefault("verbose", false)
	v.SetDefault("watch.delay", 200)
	v.SetDefault("watch.ignore", []string{})

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q validation (value %v)", key(fe.Namespace()), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// key turns a validator namespace such as "Config.Watch.Delay" into the
// configuration key "watch.delay".
func key(ns string) string {
	parts := strings.Split(ns, ".")[1:]
	for i, p := range parts {
		var b strings.Builder
		for j, r := range p {
			if j > 0 && r >= 'A' && r <= 'Z' && !(p[j-1] >= 'A' && p[j-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
		parts[i] = strings.ToLower(b.String())
	}
	return strings.Join(parts, ".")
}

// Options returns the generator options of the configuration.
func (c *Config) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithOutput(c.Output),
		gen.WithRuntime(c.Runtime),
		gen.WithDefaultKind(c.DefaultKind),
		gen.WithWorkers(c.Workers),
		gen.WithCleanup(c.Cleanup),
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if len(c.BuildFlags) > 0 {
		opts = append(opts, gen.WithBuildFlags(c.BuildFlags...))
	}
	return opts
}

// Ignore returns the file patterns the watch command ignores: the
// generated file and the configured patterns.
func (c *Config) Ignore() []string {
	return append([]string{filepath.Base(c.Output)}, c.Watch.Ignore...)
}
