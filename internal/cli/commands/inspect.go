package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/equatable/compiler"
	"github.com/syssam/equatable/compiler/gen"
)

func newInspectCommand(g *globals) *cobra.Command {
	var ir bool
	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Print the loaded model or the derived routines",
		Long: `Print the struct types, members, methods and annotations loaded from the
matching packages as YAML. With --ir, print the disassembly of the routines
derived for each type instead. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := g.printer(cmd)
			c, err := g.genConfig(p)
			if err != nil {
				return err
			}
			pkgs, err := compiler.Load(cmd.Context(), c, g.dir, args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ir {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(pkgs); err != nil {
					return fmt.Errorf("encoding model: %w", err)
				}
				return enc.Close()
			}
			var errs []error
			for _, pkg := range pkgs {
				graph, err := gen.NewGraph(c, pkg)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				sets := &gen.Collector{}
				if _, err := graph.Derive(cmd.Context(), sets); err != nil {
					errs = append(errs, err)
				}
				for _, s := range sets.Sets {
					fmt.Fprintf(out, "# %s.%s\n%s\n", pkg.PkgPath, s.Type.Name, s)
				}
			}
			return unreported(errors.Join(errs...))
		},
	}
	cmd.Flags().BoolVar(&ir, "ir", false, "print the derived routines instead of the loaded model")
	return cmd
}
