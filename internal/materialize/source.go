package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

// Source is a template tree. Open makes it available as a directory on fsys
// and returns a release func that must be called once staging is done.
type Source interface {
	Open(fsys afero.Fs) (root string, release func() error, err error)
	String() string
}

// DirSource is a template tree that already lives on the target filesystem.
type DirSource string

// Open returns the directory itself. Nothing needs releasing.
func (d DirSource) Open(fsys afero.Fs) (string, func() error, error) {
	info, err := fsys.Stat(string(d))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, oerrors.NewNotFoundError(
				fmt.Sprintf("template directory %s does not exist", d), string(d), "")
		}
		return "", nil, oerrors.NewFileOperationError("stat", string(d), err)
	}
	if !info.IsDir() {
		return "", nil, oerrors.NewFileOperationError("stat", string(d), fmt.Errorf("not a directory"))
	}
	return string(d), func() error { return nil }, nil
}

func (d DirSource) String() string {
	return string(d)
}

// PackagedSource is a template tree inside an fs.FS, typically one embedded
// in the binary. Open extracts it into a scratch directory which release
// removes.
type PackagedSource struct {
	FS   fs.FS
	Root string
}

// Open extracts the tree under Root into a fresh scratch directory on fsys.
func (p PackagedSource) Open(fsys afero.Fs) (string, func() error, error) {
	scratch, err := afero.TempDir(fsys, "", "schematic-")
	if err != nil {
		return "", nil, oerrors.NewFileOperationError("mkdir", os.TempDir(), err)
	}
	release := func() error {
		if err := fsys.RemoveAll(scratch); err != nil {
			return oerrors.NewFileOperationError("delete", scratch, err)
		}
		return nil
	}

	root := path.Clean(p.Root)
	err = fs.WalkDir(p.FS, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := name[len(root):]
		if root == "." {
			rel = name
		}
		dst := filepath.Join(scratch, filepath.FromSlash(rel))

		if d.IsDir() {
			return fsys.MkdirAll(dst, 0o755)
		}
		data, err := fs.ReadFile(p.FS, name)
		if err != nil {
			return err
		}
		return afero.WriteFile(fsys, dst, data, 0o644)
	})
	if err != nil {
		_ = release()
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, oerrors.NewNotFoundError(
				fmt.Sprintf("packaged template tree %s does not exist", p.Root), p.Root, "")
		}
		return "", nil, oerrors.NewFileOperationError("copy", p.Root, err)
	}
	return scratch, release, nil
}

func (p PackagedSource) String() string {
	return "packaged:" + p.Root
}
