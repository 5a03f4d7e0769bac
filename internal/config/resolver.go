package config

import (
	"os"

	"github.com/glyphworks/schematic/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value together with its source.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Resolve resolves key using precedence: (1) flag, when flagSet,
// (2) environment variable, (3) config file, (4) built-in default.
// Call it after Load.
func (l *Loader) Resolve(key string, flagValue any, flagSet bool) ResolvedValue {
	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}

	envValue, envSet := os.LookupEnv(envKeys[key])
	envSet = envSet && envValue != ""
	inConfig := l.v.InConfig(key)

	switch {
	case flagSet:
		result.Value = flagValue
		result.Source = SourceFlag
		if envSet {
			result.Shadowed[SourceEnv] = envValue
		}
		if inConfig && !envSet {
			result.Shadowed[SourceConfig] = l.v.Get(key)
		}
	case envSet:
		result.Value = l.v.Get(key)
		result.Source = SourceEnv
	case inConfig:
		result.Value = l.v.Get(key)
		result.Source = SourceConfig
	default:
		result.Value = l.v.Get(key)
		result.Source = SourceDefault
	}
	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) SCHEMATIC_CONFIG env, (3) ~/.schematic/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("SCHEMATIC_CONFIG")

	// Get default path
	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	// Resolve using precedence: flag > env > default
	if opts.FlagValue != "" {
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		// Record shadowed values
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	} else if envValue != "" {
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	} else {
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
