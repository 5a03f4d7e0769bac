// Package cmdutil provides shared command utilities: flag groups, prompting,
// schematic registry loading and output helpers.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

// GenerateFlags holds the flags of the generate command.
type GenerateFlags struct {
	Set    []string
	DryRun bool
	Force  bool
}

// AddTo registers the generate flags on the given cobra command.
func (f *GenerateFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.Set, "set", nil,
		"Property value as key=value (can be repeated)")
	cmd.Flags().BoolVarP(&f.DryRun, "dry-run", "d", false,
		"Report the actions that would be taken without writing any file")
	cmd.Flags().BoolVar(&f.Force, "force", false,
		"Overwrite files that already exist (default: from config)")
}

// Values parses the --set pairs. Later pairs override earlier ones.
func (f *GenerateFlags) Values() (map[string]string, error) {
	values := make(map[string]string, len(f.Set))
	for _, pair := range f.Set {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("invalid --set value %q", pair),
				"", "set", "Use the form key=value, e.g. --set namespace=Acme")
		}
		values[key] = value
	}
	return values, nil
}

// PositionalArgs returns the invocation tokens after the schematic type.
func PositionalArgs(args []string) []string {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}
