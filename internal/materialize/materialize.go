// Package materialize copies a template tree into a target directory and
// rewrites it: placeholder tokens in file names and file contents are
// replaced with bound property values.
package materialize

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
	"github.com/glyphworks/schematic/internal/resolve"
)

// Options configures a Materializer.
type Options struct {
	// Fs is the filesystem the target tree lives on. Defaults to the OS filesystem.
	Fs afero.Fs

	// Force allows overwriting files that already exist in the target tree.
	Force bool
}

// Materializer stages and rewrites template trees.
type Materializer struct {
	fs    afero.Fs
	force bool
}

// New creates a Materializer.
func New(opts Options) *Materializer {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Materializer{fs: fsys, force: opts.Force}
}

// StagedFile is one template file copied into the target tree.
type StagedFile struct {
	// Rel is the slash-separated template path relative to the tree root.
	Rel string

	// Staged is the path the file was copied to.
	Staged string

	// Resolved is the final path. It is empty until Rewrite reaches the file.
	Resolved string

	// Preexisting is true when Staged already existed and was left alone.
	Preexisting bool

	// overwritten is true when Staged already existed and Force replaced it.
	overwritten bool
}

// Staging is the result of copying a template tree into a target root.
type Staging struct {
	TargetRoot string
	Files      []*StagedFile

	// Dirs lists directories created while staging.
	Dirs []string
}

// Stage copies the template tree into targetRoot. Existing files are never
// overwritten unless Force is set. Packaged sources are extracted to a
// scratch directory first, which is removed before Stage returns.
func (m *Materializer) Stage(src Source, targetRoot string) (st *Staging, err error) {
	root, release, err := src.Open(m.fs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	st = &Staging{TargetRoot: targetRoot}
	if err := m.mkdirAll(st, targetRoot); err != nil {
		return nil, err
	}

	walkErr := afero.Walk(m.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return oerrors.NewFileOperationError("read", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dst := filepath.Join(targetRoot, rel)

		if info.IsDir() {
			return m.mkdirAll(st, dst)
		}

		sf := &StagedFile{Rel: filepath.ToSlash(rel), Staged: dst}
		st.Files = append(st.Files, sf)

		if exists, err := afero.Exists(m.fs, dst); err != nil {
			return oerrors.NewFileOperationError("stat", dst, err)
		} else if exists && !m.force {
			sf.Preexisting = true
			output.Debug("staging target exists, leaving it", "path", dst)
			return nil
		} else if exists {
			sf.overwritten = true
		}

		data, err := afero.ReadFile(m.fs, path)
		if err != nil {
			return oerrors.NewFileOperationError("read", path, err)
		}
		if err := afero.WriteFile(m.fs, dst, data, info.Mode().Perm()|0o200); err != nil {
			return oerrors.NewFileOperationError("copy", dst, err)
		}
		return nil
	})
	if walkErr != nil {
		return st, walkErr
	}
	return st, nil
}

// mkdirAll creates dir and any missing parents, recording each directory it
// creates so Cleanup can remove the ones left empty.
func (m *Materializer) mkdirAll(st *Staging, dir string) error {
	var missing []string
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		exists, err := afero.DirExists(m.fs, d)
		if err != nil {
			return oerrors.NewFileOperationError("stat", d, err)
		}
		if exists {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return oerrors.NewFileOperationError("mkdir", dir, err)
	}
	st.Dirs = append(st.Dirs, missing...)
	return nil
}

// Rewrite moves every staged file to its resolved path and substitutes the
// content tokens inside it. Files are visited in lexicographic order. A file
// whose resolved path already exists is skipped and its staged copy is left
// for Cleanup. The first resolution or filesystem error stops the walk;
// files rewritten before it stay on disk.
func (m *Materializer) Rewrite(st *Staging, ctx *resolve.Context, rep *report.Report) error {
	files := slices.Clone(st.Files)
	slices.SortFunc(files, func(a, b *StagedFile) int { return cmp.Compare(a.Rel, b.Rel) })

	for _, f := range files {
		rel, err := resolve.ResolvePath(f.Rel, ctx)
		if err != nil {
			return err
		}
		f.Resolved = filepath.Join(st.TargetRoot, filepath.FromSlash(rel))

		existed, skipped, err := m.prepareTarget(f, rep)
		if err != nil {
			return err
		}
		if skipped {
			continue
		}

		n, err := m.rewriteContent(f.Resolved, ctx)
		if err != nil {
			return err
		}
		kind := report.KindCreated
		if existed {
			kind = report.KindUpdated
		}
		rep.Record(report.Event{Kind: kind, Path: f.Resolved, Bytes: n})
	}
	return nil
}

// prepareTarget moves f to its resolved path when the two differ. It reports
// whether the resolved path existed before this run, and whether the file was
// skipped. Skips are recorded on rep.
func (m *Materializer) prepareTarget(f *StagedFile, rep *report.Report) (existed, skipped bool, err error) {
	if f.Resolved == f.Staged {
		if f.Preexisting {
			rep.Record(report.Event{Kind: report.KindSkipped, Path: f.Resolved, Bytes: -1, Reason: "already exists"})
			return true, true, nil
		}
		return f.overwritten, false, nil
	}

	existed, err = afero.Exists(m.fs, f.Resolved)
	if err != nil {
		return false, false, oerrors.NewFileOperationError("stat", f.Resolved, err)
	}
	if existed && !m.force {
		rep.Record(report.Event{Kind: report.KindSkipped, Path: f.Resolved, Bytes: -1, Reason: "already exists"})
		return true, true, nil
	}
	if f.Preexisting {
		// The staged name belongs to a file that was there before this run.
		rep.Record(report.Event{Kind: report.KindSkipped, Path: f.Resolved, Bytes: -1, Reason: "staged name already taken"})
		return existed, true, nil
	}

	if err := m.fs.MkdirAll(filepath.Dir(f.Resolved), 0o755); err != nil {
		return false, false, oerrors.NewFileOperationError("mkdir", filepath.Dir(f.Resolved), err)
	}
	info, err := m.fs.Stat(f.Staged)
	if err != nil {
		return false, false, oerrors.NewFileOperationError("stat", f.Staged, err)
	}
	// Rename replaces an existing target, which may live in a read-only
	// base layer.
	if err := m.fs.Rename(f.Staged, f.Resolved); err != nil {
		return false, false, oerrors.NewFileOperationError("rename", f.Staged, err)
	}
	rep.Record(report.Event{Kind: report.KindRenamed, Path: f.Staged, To: f.Resolved, Bytes: int(info.Size())})
	return existed, false, nil
}

// rewriteContent substitutes content tokens in path, writing only when the
// content changed. It returns the final size.
func (m *Materializer) rewriteContent(path string, ctx *resolve.Context) (int, error) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return 0, oerrors.NewFileOperationError("read", path, err)
	}
	resolved, err := resolve.ResolveContent(string(data), ctx)
	if err != nil {
		return 0, err
	}
	if resolved == string(data) {
		return len(data), nil
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		return 0, oerrors.NewFileOperationError("stat", path, err)
	}
	if err := afero.WriteFile(m.fs, path, []byte(resolved), info.Mode().Perm()); err != nil {
		return 0, oerrors.NewFileOperationError("write", path, err)
	}
	return len(resolved), nil
}

// Cleanup deletes staged copies whose rewritten file lives elsewhere, then
// removes staging directories created by this run that ended up empty.
func (m *Materializer) Cleanup(st *Staging, rep *report.Report) error {
	for _, f := range st.Files {
		if f.Resolved == "" || f.Resolved == f.Staged || f.Preexisting {
			continue
		}
		info, err := m.fs.Stat(f.Staged)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return oerrors.NewFileOperationError("stat", f.Staged, err)
		}
		if err := m.fs.Remove(f.Staged); err != nil {
			return oerrors.NewFileOperationError("delete", f.Staged, err)
		}
		rep.Record(report.Event{Kind: report.KindDeleted, Path: f.Staged, Bytes: int(info.Size())})
	}

	dirs := slices.Clone(st.Dirs)
	slices.SortFunc(dirs, func(a, b string) int {
		// Deepest first, so parents are empty by the time they are checked.
		if d := cmp.Compare(strings.Count(b, string(filepath.Separator)), strings.Count(a, string(filepath.Separator))); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	for _, d := range dirs {
		empty, err := afero.IsEmpty(m.fs, d)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return oerrors.NewFileOperationError("stat", d, err)
		}
		if !empty {
			continue
		}
		if err := m.fs.Remove(d); err != nil {
			return oerrors.NewFileOperationError("delete", d, err)
		}
		rep.Record(report.Event{Kind: report.KindDeleted, Path: d, Bytes: 0})
	}
	return nil
}

// Materialize runs Stage, Rewrite and Cleanup in order and returns the
// resulting report. On failure the partial report is returned with the error.
func (m *Materializer) Materialize(src Source, targetRoot string, ctx *resolve.Context, sink report.Sink) (*report.Report, error) {
	rep := report.New(sink)

	st, err := m.Stage(src, targetRoot)
	if err != nil {
		rep.State = report.StateFailed
		return rep, err
	}
	rep.State = report.StateStaged

	if err := m.Rewrite(st, ctx, rep); err != nil {
		rep.State = report.StateFailed
		return rep, err
	}
	rep.State = report.StateRewritten

	if err := m.Cleanup(st, rep); err != nil {
		rep.State = report.StateFailed
		return rep, err
	}
	rep.State = report.StateDone
	return rep, nil
}
