package config

// GlobalFlags holds the raw values of the root command's persistent flags.
type GlobalFlags struct {
	Config     string
	SourceRoot string
	Verbose    bool
	Timestamps bool
}

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is populated once at startup and passed explicitly
// into every sub-command constructor.
type GlobalConfig struct {
	// Config is the loaded configuration with flag overrides applied.
	Config *Config

	// ConfigPath is the resolved global config file path.
	ConfigPath string

	// WorkDir is the directory the CLI was started in. Relative source roots
	// are resolved against it.
	WorkDir string

	// Resolved lists how each configuration value was resolved.
	Resolved []ResolvedValue

	Flags GlobalFlags
}
