package commands

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand(g *globals) *cobra.Command {
	var cleanup bool
	cmd := &cobra.Command{
		Use:     "generate [packages]",
		Aliases: []string{"gen"},
		Short:   "Generate equality methods for the matching packages",
		Long: `Load the packages matching the patterns (default ".") and write the
equality routines of their annotated struct types to one generated file per
package. Types that fail are reported and skipped; the others are written.`,
		Example: `  # Generate for the package in the current directory
  equatable generate

  # Generate for every package of the module and strip the annotations
  equatable generate --cleanup ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cleanup") {
				g.cfg.Cleanup = cleanup
			}
			return g.generate(cmd.Context(), g.printer(cmd), args)
		},
	}
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "strip equatable annotations from the sources of derived types")
	return cmd
}
