package config

import (
	"os"
	"path/filepath"
)

// WorkspaceConfigName is the per-project config file looked up in the
// working directory.
const WorkspaceConfigName = "schematic.yaml"

// Paths contains standard filesystem paths for schematic.
type Paths struct {
	// ConfigFile is the path to the config file (~/.schematic/config.yaml).
	ConfigFile string

	// SchematicsDir is the user schematics directory (~/.schematic/schematics).
	SchematicsDir string

	// HomeDir is the schematic home directory (~/.schematic).
	HomeDir string
}

// DefaultPaths returns the default paths for schematic.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".schematic")

	return &Paths{
		ConfigFile:    filepath.Join(home, "config.yaml"),
		SchematicsDir: filepath.Join(home, "schematics"),
		HomeDir:       home,
	}, nil
}

// GetConfigFile returns the config file path.
// If SCHEMATIC_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("SCHEMATIC_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
