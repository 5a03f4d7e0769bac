// Package config provides configuration loading and management.
package config

// DefaultSourceRoot is the project directory generated files are written
// under when nothing else is configured.
const DefaultSourceRoot = "src"

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the schematic CLI configuration.
// Loaded from ~/.schematic/config.yaml and ./schematic.yaml.
type Config struct {
	// SourceRoot is the project source directory, relative to the working
	// directory. Module files are looked up relative to it.
	// Env: SCHEMATIC_SOURCE_ROOT, Default: "src"
	SourceRoot string `mapstructure:"sourceRoot" yaml:"sourceRoot" validate:"required,notblank"`

	// SchematicsDir holds user schematics that extend or override the
	// built-in collection.
	// Env: SCHEMATIC_SCHEMATICS_DIR, Default: ~/.schematic/schematics
	SchematicsDir string `mapstructure:"schematicsDir" yaml:"schematicsDir,omitempty" validate:"omitempty,notblank"`

	// Force allows generate to overwrite existing files.
	// Env: SCHEMATIC_FORCE
	Force bool `mapstructure:"force" yaml:"force,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	cfg := &Config{SourceRoot: DefaultSourceRoot}
	if paths, err := DefaultPaths(); err == nil {
		cfg.SchematicsDir = paths.SchematicsDir
	}
	return cfg
}
