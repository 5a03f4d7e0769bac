package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphworks/schematic/internal/cmdutil"
	"github.com/glyphworks/schematic/internal/config"
	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
)

// NewListCmd creates the list command.
func NewListCmd(cfg *config.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available schematics",
		Long: `List the built-in schematics and the user schematics found in the
configured schematics directory. A user schematic overrides the built-in of
the same type.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			registry, err := cmdutil.LoadRegistry(cfg, afero.NewOsFs())
			if err != nil {
				return oerrors.NewExitError(err)
			}

			tbl := output.NewTable("TYPE", "DESCRIPTION", "SOURCE")
			for _, def := range registry.List() {
				source := "built-in"
				if !def.Builtin {
					source = def.Source.String()
				}
				tbl.Row(output.StyleNoun.Render(def.Type), def.Description, source)
			}
			fmt.Fprintln(c.OutOrStdout(), tbl.String())
			return nil
		},
	}
}
