// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/glyphworks/schematic/internal/config"
	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
)

// NewRootCmd creates the root command for the schematic CLI.
func NewRootCmd() *cobra.Command {
	var cfg config.GlobalConfig

	rootCmd := &cobra.Command{
		Use:   "schematic",
		Short: "Generate source files from schematics",
		Long: `schematic generates source files from template trees and registers the
generated artifacts in the enclosing module declaration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, &cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Flags.Config, "config", "", "Path to config file (env: SCHEMATIC_CONFIG)")
	pf.StringVar(&cfg.Flags.SourceRoot, "source-root", "", "Project source directory (env: SCHEMATIC_SOURCE_ROOT)")
	pf.BoolVarP(&cfg.Flags.Verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&cfg.Flags.Timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewGenerateCmd(&cfg),
		NewListCmd(&cfg),
		NewSchemaCmd(&cfg),
		NewVersionCmd(&cfg),
	)

	return rootCmd
}

// initializeGlobals loads configuration, applies flag overrides and sets up
// logging.
func initializeGlobals(c *cobra.Command, cfg *config.GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: cfg.Flags.Config,
	})
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("resolving config path: %w", err)}
	}
	cfg.ConfigPath = configPath.ConfigPath

	wd, err := os.Getwd()
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("getting working directory: %w", err)}
	}
	cfg.WorkDir = wd

	loader := config.NewLoader(nil)
	loaded, err := loader.Load(config.LoadOptions{
		ConfigFile: cfg.ConfigPath,
		WorkDir:    wd,
	})
	if err != nil {
		return oerrors.NewExitError(fmt.Errorf("loading config: %w", err))
	}

	sourceRoot := loader.Resolve("sourceRoot", cfg.Flags.SourceRoot, c.Flags().Changed("source-root"))
	loaded.SourceRoot = cast.ToString(sourceRoot.Value)
	if err := config.Validate(loaded); err != nil {
		return oerrors.NewExitError(err)
	}
	cfg.Config = loaded

	shadowed := make(map[config.ConfigSource]any, len(configPath.Shadowed))
	for src, v := range configPath.Shadowed {
		shadowed[src] = v
	}
	cfg.Resolved = []config.ResolvedValue{
		{Key: "config", Value: configPath.ConfigPath, Source: configPath.Source, Shadowed: shadowed},
		sourceRoot,
		loader.Resolve("schematicsDir", nil, false),
		loader.Resolve("force", nil, false),
	}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: cfg.Flags.Verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(cfg.Flags.Timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if cfg.Flags.Verbose {
		for _, f := range loader.Files() {
			output.Debug("config file loaded", "path", f)
		}
		config.LogResolvedValues(cfg.Resolved)
	}

	return nil
}
