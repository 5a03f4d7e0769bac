package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
)

// PrintError prints a generation error in a user-friendly format. A
// DetailError gets a summary log line followed by its full multi-line
// rendering on stderr. Other errors use the key-value log format.
func PrintError(msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(fmt.Sprintf("%s: %s", msg, detail.Message))
		output.Details(detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

// EventLogger returns a sink logging every event at debug level.
func EventLogger() report.Sink {
	return report.SinkFunc(func(e report.Event) {
		kv := []interface{}{"kind", e.Kind, "path", e.Path}
		if e.To != "" {
			kv = append(kv, "to", e.To)
		}
		if e.Reason != "" {
			kv = append(kv, "reason", e.Reason)
		}
		output.Debug("file event", kv...)
	})
}

// WriteEvents writes one line per created, updated or skipped file. Staging
// renames and deletions are internal and only reach the debug log. Paths are
// shown relative to base when possible.
func WriteEvents(w io.Writer, rep *report.Report, base string) {
	for _, e := range rep.Events {
		bytes := e.Bytes
		switch e.Kind {
		case report.KindCreated, report.KindUpdated:
		case report.KindSkipped:
			bytes = -1
		default:
			continue
		}
		line := output.FormatFileEvent(string(e.Kind), displayPath(base, e.Path), bytes)
		if e.Reason != "" {
			line += " " + output.StyleDim.Render(e.Reason)
		}
		fmt.Fprintln(w, line)
	}
}

// WriteSummary writes the completion line of a generate run.
func WriteSummary(w io.Writer, typ, name string, rep *report.Report, dryRun bool) {
	msg := fmt.Sprintf("Generated %s %s: %d created, %d updated, %d skipped",
		typ, output.StyleNoun.Render(name),
		rep.Count(report.KindCreated), rep.Count(report.KindUpdated), rep.Count(report.KindSkipped))
	if dryRun {
		msg += output.StyleDim.Render(" (dry run, nothing written)")
	}
	fmt.Fprintln(w, output.FormatCheckmark(msg))
}

func displayPath(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
