package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/glyphworks/schematic/internal/cmdutil"
	"github.com/glyphworks/schematic/internal/config"
	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/schema"
	"github.com/glyphworks/schematic/internal/schematics"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd(cfg *config.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <schematic>",
		Short: "Show the properties and template files of a schematic",
		Long: `Show the properties a schematic accepts, how their defaults are resolved,
the module registration it performs and its template file tree.

Examples:
  schematic schema resource`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runSchema(c, args[0], cfg)
		},
	}
}

func runSchema(c *cobra.Command, typ string, cfg *config.GlobalConfig) error {
	registry, err := cmdutil.LoadRegistry(cfg, afero.NewOsFs())
	if err != nil {
		return oerrors.NewExitError(err)
	}
	def, err := registry.Lookup(typ)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	// Built-in trees are extracted into memory, user trees are read in place.
	var fsys afero.Fs = afero.NewOsFs()
	if def.Builtin {
		fsys = afero.NewMemMapFs()
	}
	files, err := def.Files(fsys)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n\n", output.StyleAction.Render(def.Type), def.Description)

	tbl := output.NewTable("PROPERTY", "TYPE", "DEFAULT", "PROMPT")
	for _, p := range def.Schema.Properties() {
		tbl.Row(output.StyleNoun.Render(p.Name), kindLabel(p), defaultLabel(p.Default), p.Prompt)
	}
	fmt.Fprintln(out, tbl.String())

	if u := def.Schema.Update; u != nil {
		fmt.Fprintf(out, "\n%s %s\n", output.StyleAction.Render("Registers in"), output.StyleNoun.Render(u.Path))
		for _, sec := range schema.Sections() {
			for _, entry := range u.Entries(sec) {
				fmt.Fprintf(out, "  %-12s %s\n", sec, entry)
			}
		}
		for _, ns := range u.Use {
			fmt.Fprintf(out, "  %-12s %s\n", "use", ns)
		}
	}

	fmt.Fprintf(out, "\n%s", output.RenderPathTree(schematics.FilesDir, files))
	return nil
}

func kindLabel(p schema.Property) string {
	if p.Kind == schema.KindEnum {
		return fmt.Sprintf("enum(%s)", strings.Join(p.Enum, "|"))
	}
	return string(p.Kind)
}

func defaultLabel(d *schema.DefaultSource) string {
	switch {
	case d == nil:
		return ""
	case d.IsPositional():
		return fmt.Sprintf("argv[%d]", d.Index())
	default:
		return cast.ToString(d.Value())
	}
}
