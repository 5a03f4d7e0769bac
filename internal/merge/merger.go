package merge

import (
	"github.com/spf13/afero"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
	"github.com/glyphworks/schematic/internal/resolve"
	"github.com/glyphworks/schematic/internal/schema"
)

// Merger patches a module declaration file with update instructions.
type Merger interface {
	Merge(path string, instr *schema.UpdateInstructions, ctx *resolve.Context) (*report.MergeResult, error)
}

// TextMerger is a Merger that edits the module file as text using pattern
// matching on its metadata arrays.
type TextMerger struct {
	fs afero.Fs
}

// NewTextMerger creates a TextMerger working on fsys. A nil fsys means the
// OS filesystem.
func NewTextMerger(fsys afero.Fs) *TextMerger {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &TextMerger{fs: fsys}
}

// Merge applies instr to the file at path. A missing file is not an error:
// the result is marked skipped. The file is only written when its content
// changes.
func (m *TextMerger) Merge(path string, instr *schema.UpdateInstructions, ctx *resolve.Context) (*report.MergeResult, error) {
	exists, err := afero.Exists(m.fs, path)
	if err != nil {
		return nil, oerrors.NewFileOperationError("stat", path, err)
	}
	if !exists {
		output.Debug("module file not found, skipping merge", "path", path)
		return &report.MergeResult{Path: path, Skipped: true, Bytes: -1}, nil
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, oerrors.NewFileOperationError("stat", path, err)
	}
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, oerrors.NewFileOperationError("read", path, err)
	}

	merged, res, err := Apply(string(data), instr, ctx)
	res.Path = path
	if err != nil {
		return res, err
	}
	for _, sec := range res.Missing {
		output.Debug("no metadata block in module file", "section", sec, "path", path)
	}

	if merged == string(data) {
		return res, nil
	}
	if err := afero.WriteFile(m.fs, path, []byte(merged), info.Mode().Perm()); err != nil {
		return res, oerrors.NewFileOperationError("write", path, err)
	}
	res.Changed = true
	res.Bytes = len(merged)
	return res, nil
}
