package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glyphworks/schematic/internal/config"
	"github.com/glyphworks/schematic/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *config.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show schematic version information.

Displays:
  - schematic version, commit, and build date
  - CUE SDK version used to validate schematic schemas`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
