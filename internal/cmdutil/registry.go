package cmdutil

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/glyphworks/schematic/internal/config"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/schematics"
)

// LoadRegistry returns the built-in schematics overlaid with the user
// schematics found in the configured schematics directory. A relative
// directory is resolved against the working directory.
func LoadRegistry(cfg *config.GlobalConfig, fsys afero.Fs) (*schematics.Registry, error) {
	registry, err := schematics.Builtin()
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.Config == nil || cfg.Config.SchematicsDir == "" {
		return registry, nil
	}

	dir, err := config.ExpandPath(cfg.Config.SchematicsDir)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(dir) && cfg.WorkDir != "" {
		dir = filepath.Join(cfg.WorkDir, dir)
	}
	n, err := registry.LoadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		output.Debug("loaded user schematics", "dir", dir, "count", n)
	}
	return registry, nil
}
