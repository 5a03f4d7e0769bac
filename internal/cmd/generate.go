package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphworks/schematic/internal/cmdutil"
	"github.com/glyphworks/schematic/internal/config"
	"github.com/glyphworks/schematic/internal/engine"
	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
	"github.com/glyphworks/schematic/internal/schema"
	"github.com/glyphworks/schematic/internal/schematics"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(cfg *config.GlobalConfig) *cobra.Command {
	var gf cmdutil.GenerateFlags

	c := &cobra.Command{
		Use:     "generate <schematic> [name] [path]",
		Aliases: []string{"g"},
		Short:   "Generate files from a schematic",
		Long: `Generate files from a schematic and register them in their module.

The template tree of the schematic is copied below the source root, every
placeholder in file names and contents is replaced with the bound property
values, and the enclosing module declaration is updated.

Arguments:
  schematic    Schematic type (see 'schematic list')
  name         Name of the generated artifact (prompted when missing)
  path         Output path below the source root (default: depends on the schematic)

Examples:
  # Generate a service in src/Users
  schematic generate service users

  # Generate a resource with a GraphQL transport
  schematic g resource orders --set transport=graphql

  # Show what would be written without touching the disk
  schematic generate module billing --dry-run`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c, args, cfg, &gf)
		},
	}

	gf.AddTo(c)
	return c
}

// runGenerate executes the generate command.
func runGenerate(c *cobra.Command, args []string, cfg *config.GlobalConfig, gf *cmdutil.GenerateFlags) error {
	registry, err := cmdutil.LoadRegistry(cfg, afero.NewOsFs())
	if err != nil {
		cmdutil.PrintError("loading schematics", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	def, err := registry.Lookup(args[0])
	if err != nil {
		cmdutil.PrintError("unknown schematic", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	values, err := gf.Values()
	if err != nil {
		return oerrors.NewExitError(err)
	}
	positional := cmdutil.PositionalArgs(args)
	for i, key := range []string{"name", "path"} {
		if _, set := values[key]; !set && i < len(positional) {
			values[key] = positional[i]
		}
	}

	prompter := cmdutil.NewLinePrompter(c.InOrStdin(), c.ErrOrStderr())
	if err := promptName(def, values, prompter); err != nil {
		return oerrors.NewExitError(err)
	}

	binder := schema.Binder{Prompter: prompter}
	bound, err := binder.Bind(def.Schema, def.Prepare(values), positional)
	if err != nil {
		cmdutil.PrintError("invalid property value", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	sourceRoot := cfg.Config.SourceRoot
	if !filepath.IsAbs(sourceRoot) {
		sourceRoot = filepath.Join(cfg.WorkDir, sourceRoot)
	}
	name, _ := bound.Lookup("name")
	path, _ := bound.Lookup("path")

	fsys := afero.NewOsFs()
	if gf.DryRun {
		fsys = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs())
	}
	force := cfg.Config.Force
	if c.Flags().Changed("force") {
		force = gf.Force
	}

	eng := engine.New(engine.Options{
		Fs:    fsys,
		Force: force,
		Sink:  cmdutil.EventLogger(),
	})

	var rep *report.Report
	runErr := output.RunWithSpinner(context.Background(), func() error {
		var err error
		rep, err = eng.Run(engine.Request{
			Name:       def.Type,
			Schema:     def.Schema,
			Context:    bound,
			Source:     def.Source,
			TargetRoot: schematics.OutputDir(sourceRoot, path),
			ModuleRoot: sourceRoot,
		})
		return err
	},
		output.WithTitle(fmt.Sprintf("Generating %s %s", def.Type, name)),
		output.WithDisabled(cfg.Flags.Verbose),
	)

	out := c.OutOrStdout()
	if rep != nil {
		cmdutil.WriteEvents(out, rep, cfg.WorkDir)
	}
	if runErr != nil {
		cmdutil.PrintError("generate failed", runErr)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(runErr), Err: runErr, Printed: true}
	}

	cmdutil.WriteSummary(out, def.Type, name, rep, gf.DryRun)
	return nil
}

// promptName asks for the name before normalization when it was not given,
// since Prepare derives other values from it.
func promptName(def schematics.Definition, values map[string]string, prompter schema.Prompter) error {
	if values["name"] != "" {
		return nil
	}
	prop, ok := def.Schema.Property("name")
	if !ok || prop.Prompt == "" {
		return nil
	}
	answer, err := prompter.Prompt(prop)
	if err != nil {
		return err
	}
	if answer == "" {
		return oerrors.NewValidationError("a name is required", "", "name",
			fmt.Sprintf("Run 'schematic generate %s <name>'", def.Type))
	}
	values["name"] = answer
	return nil
}
