package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Environment variable prefix for schematic configuration.
const envPrefix = "SCHEMATIC"

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"sourceRoot":     "SCHEMATIC_SOURCE_ROOT",
	"schematicsDir":  "SCHEMATIC_SCHEMATICS_DIR",
	"force":          "SCHEMATIC_FORCE",
	"log.timestamps": "SCHEMATIC_LOG_TIMESTAMPS",
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v     *viper.Viper
	fs    afero.Fs
	files []string
}

// NewLoader creates a new configuration loader reading files from fsys.
// A nil fsys means the OS filesystem.
func NewLoader(fsys afero.Fs) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("yaml")

	// Set up environment variable bindings
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	defaults := DefaultConfig()
	v.SetDefault("sourceRoot", defaults.SourceRoot)
	v.SetDefault("schematicsDir", defaults.SchematicsDir)
	v.SetDefault("force", false)

	return &Loader{v: v, fs: fsys}
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigFile is the global config file. Empty means GetConfigFile().
	ConfigFile string

	// WorkDir is searched for a workspace schematic.yaml, which is merged
	// over the global file. Empty skips the workspace file.
	WorkDir string
}

// Load loads configuration from the global and workspace files. Missing
// files are not an error. Environment variables take precedence over file
// values. The result is validated.
func (l *Loader) Load(opts LoadOptions) (*Config, error) {
	configFile := opts.ConfigFile
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	// Expand ~ in path
	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	if err := l.read(expandedPath, l.v.ReadInConfig); err != nil {
		return nil, err
	}
	if opts.WorkDir != "" {
		workspace := filepath.Join(opts.WorkDir, WorkspaceConfigName)
		if err := l.read(workspace, l.v.MergeInConfig); err != nil {
			return nil, err
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) read(path string, read func() error) error {
	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return fmt.Errorf("checking config file %s: %w", path, err)
	}
	if !exists {
		return nil
	}
	l.v.SetConfigFile(path)
	if err := read(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	l.files = append(l.files, path)
	return nil
}

// Files returns the config files read by Load, in the order they were merged.
func (l *Loader) Files() []string {
	return append([]string(nil), l.files...)
}
