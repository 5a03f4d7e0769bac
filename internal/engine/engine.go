// Package engine runs a schematic: it materializes the template tree into the
// target directory, registers the result in the module declaration, and
// cleans up staging artifacts.
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/glyphworks/schematic/internal/materialize"
	"github.com/glyphworks/schematic/internal/merge"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
	"github.com/glyphworks/schematic/internal/resolve"
	"github.com/glyphworks/schematic/internal/schema"
)

// Phase names a step of a run.
type Phase string

const (
	PhaseValidate Phase = "validate"
	PhaseStage    Phase = "stage"
	PhaseRewrite  Phase = "rewrite"
	PhaseMerge    Phase = "merge"
	PhaseCleanup  Phase = "cleanup"
)

// PhaseError wraps the error that stopped a run with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Options configures an Engine.
type Options struct {
	// Fs is the filesystem runs operate on. Defaults to the OS filesystem.
	Fs afero.Fs

	// Force allows overwriting existing files in the target tree.
	Force bool

	// Sink receives file events as they happen. Optional.
	Sink report.Sink

	// Merger patches the module file. Defaults to a TextMerger on Fs.
	Merger merge.Merger
}

// Engine runs schematics. It holds no state between runs.
type Engine struct {
	fs           afero.Fs
	materializer *materialize.Materializer
	merger       merge.Merger
	sink         report.Sink
}

// New creates an Engine.
func New(opts Options) *Engine {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	merger := opts.Merger
	if merger == nil {
		merger = merge.NewTextMerger(fsys)
	}
	return &Engine{
		fs:           fsys,
		materializer: materialize.New(materialize.Options{Fs: fsys, Force: opts.Force}),
		merger:       merger,
		sink:         opts.Sink,
	}
}

// Request describes one run.
type Request struct {
	// Name identifies the schematic in log output.
	Name string

	Schema  *schema.Schema
	Context *resolve.Context
	Source  materialize.Source

	// TargetRoot is the directory the template tree is materialized into.
	TargetRoot string

	// ModuleRoot is the directory the update instruction path is relative to.
	ModuleRoot string
}

// Run executes the request: stage, rewrite, merge (when the schema has
// update instructions) and cleanup. The report is returned in every case;
// on failure it holds everything done before the failing phase and its state
// is StateFailed.
func (e *Engine) Run(req Request) (*report.Report, error) {
	rep := report.New(e.sink)
	logger := output.RunLogger(req.Name, rep.RunID)

	fail := func(phase Phase, err error) (*report.Report, error) {
		rep.State = report.StateFailed
		logger.Debug("run failed", "phase", phase, "error", err)
		return rep, &PhaseError{Phase: phase, Err: err}
	}

	if err := req.Schema.Validate(); err != nil {
		return fail(PhaseValidate, err)
	}
	for _, name := range unknownTransforms(req.Schema) {
		logger.Warn("unknown transform is ignored", "transform", name)
	}

	logger.Debug("staging template tree", "source", req.Source, "target", req.TargetRoot)
	st, err := e.materializer.Stage(req.Source, req.TargetRoot)
	if err != nil {
		return fail(PhaseStage, err)
	}
	rep.State = report.StateStaged

	logger.Debug("rewriting staged files", "files", len(st.Files))
	if err := e.materializer.Rewrite(st, req.Context, rep); err != nil {
		return fail(PhaseRewrite, err)
	}
	rep.State = report.StateRewritten

	if update := req.Schema.Update; update != nil {
		rel, err := resolve.ResolvePath(update.Path, req.Context)
		if err != nil {
			return fail(PhaseMerge, err)
		}
		modulePath := filepath.Join(req.ModuleRoot, filepath.FromSlash(rel))

		logger.Debug("merging module metadata", "path", modulePath)
		res, err := e.merger.Merge(modulePath, update, req.Context)
		rep.Merge = res
		if err != nil {
			return fail(PhaseMerge, err)
		}
		if res.Changed {
			rep.Record(report.Event{Kind: report.KindUpdated, Path: modulePath, Bytes: res.Bytes})
		}
		rep.State = report.StateMerged
	}

	logger.Debug("cleaning up staging artifacts")
	if err := e.materializer.Cleanup(st, rep); err != nil {
		return fail(PhaseCleanup, err)
	}
	rep.State = report.StateDone
	return rep, nil
}

// unknownTransforms lists transform names in the update instructions that the
// resolver does not know. They are not errors: the value passes through.
func unknownTransforms(s *schema.Schema) []string {
	if s.Update == nil {
		return nil
	}
	templates := []string{s.Update.Path}
	for _, sec := range schema.Sections() {
		templates = append(templates, s.Update.Entries(sec)...)
	}
	templates = append(templates, s.Update.Use...)

	seen := make(map[string]bool)
	var out []string
	for _, tpl := range templates {
		for _, name := range resolve.UnknownTransforms(tpl) {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
