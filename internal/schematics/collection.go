package schematics

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/materialize"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/schema"
)

//go:embed all:collection
var collectionFS embed.FS

const (
	// SchemaFile is the schema file name inside a schematic directory.
	SchemaFile = "schema.yaml"

	// FilesDir is the template tree directory inside a schematic directory.
	FilesDir = "files"
)

// builtinNaming lists the built-in schematics and their naming rules.
var builtinNaming = map[string]Naming{
	"class":      {},
	"controller": {PathFromName: true},
	"interface":  {Prefix: "I"},
	"module":     {PathFromName: true},
	"resource":   {PathFromName: true},
	"service":    {PathFromName: true},
}

// Builtin returns a registry holding the schematics embedded in the binary.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	for typ, naming := range builtinNaming {
		dir := path.Join("collection", typ)
		data, err := fs.ReadFile(collectionFS, path.Join(dir, SchemaFile))
		if err != nil {
			return nil, fmt.Errorf("reading built-in schematic %s: %w", typ, err)
		}
		s, err := schema.Parse(data, typ)
		if err != nil {
			return nil, err
		}
		if err := r.Register(Definition{
			Type:        typ,
			Description: s.Description,
			Schema:      s,
			Source:      materialize.PackagedSource{FS: collectionFS, Root: path.Join(dir, FilesDir)},
			Naming:      naming,
			Builtin:     true,
		}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Files returns the template file paths of d, relative to its template tree
// root, in lexicographic order.
func (d Definition) Files(fsys afero.Fs) (files []string, err error) {
	root, release, err := d.Source.Open(fsys)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	err = afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, oerrors.NewFileOperationError("read", root, err)
	}
	slices.Sort(files)
	return files, nil
}

// LoadDir registers the user schematics found in dir. Each subdirectory
// holding a schema.yaml and a files/ tree is one schematic named after the
// directory; it overrides a built-in of the same type. A missing dir is not
// an error. LoadDir returns the number of schematics loaded.
func (r *Registry) LoadDir(fsys afero.Fs, dir string) (int, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return 0, oerrors.NewFileOperationError("stat", dir, err)
	}
	if !exists {
		output.Debug("schematics directory does not exist", "path", dir)
		return 0, nil
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return 0, oerrors.NewFileOperationError("read", dir, err)
	}

	loaded := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		typ := e.Name()
		schemaPath := filepath.Join(dir, typ, SchemaFile)
		data, err := afero.ReadFile(fsys, schemaPath)
		if err != nil {
			output.Debug("skipping directory without schema", "path", filepath.Join(dir, typ))
			continue
		}
		s, err := schema.Parse(data, schemaPath)
		if err != nil {
			return loaded, err
		}

		naming := Naming{PathFromName: true}
		if n, ok := builtinNaming[typ]; ok {
			naming = n
		}
		if err := r.Register(Definition{
			Type:        typ,
			Description: s.Description,
			Schema:      s,
			Source:      materialize.DirSource(filepath.Join(dir, typ, FilesDir)),
			Naming:      naming,
		}); err != nil {
			return loaded, err
		}
		output.Debug("loaded schematic", "type", typ, "path", schemaPath)
		loaded++
	}
	return loaded, nil
}
