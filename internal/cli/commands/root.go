// Package commands implements the equatable command line.
package commands

import (
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/equatable/compiler"
	"github.com/syssam/equatable/compiler/gen"
	"github.com/syssam/equatable/internal/cli/config"
	"github.com/syssam/equatable/internal/cli/ui"
)

// errReported is returned when every failure was already printed as a
// diagnostic.
var errReported = errors.New("derivation failed; see the errors above")

// globals holds the persistent flags and the loaded configuration.
type globals struct {
	dir     string
	file    string
	color   string
	verbose bool

	cfg *config.Config
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "equatable",
		Short: "Generate structural equality and hashing for Go struct types",
		Long: `equatable derives Equal, EqualAny, Hash and the equality operators of
annotated Go struct types and writes them to one generated file per package.

Annotate a type with a //equatable:generate doc directive and its
participating fields with an equatable:"<collation>" struct tag:

  //equatable:generate
  type Person struct {
      Name string ` + "`equatable:\"ignorecase\"`" + `
      Age  int    ` + "`equatable:\"\"`" + `
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load(cmd)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.dir, "dir", "C", ".", "directory package patterns are resolved against")
	flags.StringVar(&g.file, "config", "", "configuration file (default <dir>/.equatable.yaml)")
	flags.StringVar(&g.color, "color", "auto", "colour output: auto, always or never")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "report info and debug diagnostics")

	rootCmd.AddCommand(newGenerateCommand(g))
	rootCmd.AddCommand(newInspectCommand(g))
	rootCmd.AddCommand(newWatchCommand(g))
	rootCmd.AddCommand(NewVersionCommand())
	return rootCmd
}

// load reads the configuration and applies the flags overriding it.
func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := config.Load(g.dir, g.file)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = g.color
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = g.verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func (g *globals) printer(cmd *cobra.Command) *ui.Printer {
	level := gen.SeverityWarning
	if g.cfg.Verbose {
		level = gen.SeverityDebug
	}
	return ui.NewPrinter(cmd.ErrOrStderr(), g.cfg.Color, level)
}

// genConfig returns the generator configuration reporting to p.
func (g *globals) genConfig(p *ui.Printer) (*gen.Config, error) {
	return gen.NewConfig(append(g.cfg.Options(), gen.WithDiagnostics(p))...)
}

// generate runs one generation pass and prints its summary.
func (g *globals) generate(ctx context.Context, p *ui.Printer, patterns []string) error {
	c, err := g.genConfig(p)
	if err != nil {
		return err
	}
	report, err := compiler.Generate(ctx, c, g.dir, patterns...)
	if report != nil {
		p.Summary(report)
	}
	return unreported(err)
}

// unreported drops the derivation errors of err, which were already
// reported as diagnostics.
func unreported(err error) error {
	if err == nil {
		return nil
	}
	var kept []error
	for _, e := range flatten(err) {
		var derr *gen.DeriveError
		if !errors.As(e, &derr) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return errReported
	}
	return errors.Join(kept...)
}

// flatten returns the leaves of a tree of joined errors. Derivation errors
// are leaves.
func flatten(err error) []error {
	if _, ok := err.(*gen.DeriveError); ok {
		return []error{err}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
