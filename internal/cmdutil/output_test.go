package cmdutil

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/glyphworks/schematic/internal/errors"
	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/report"
)

func sampleReport() *report.Report {
	rep := report.New(nil)
	rep.Record(report.Event{Kind: report.KindRenamed, Path: "/work/src/Users/__name__.template.php", To: "/work/src/Users/__name__.php"})
	rep.Record(report.Event{Kind: report.KindCreated, Path: "/work/src/Users/UsersService.php", Bytes: 120})
	rep.Record(report.Event{Kind: report.KindSkipped, Path: "/work/src/Users/UsersModule.php", Reason: "already exists"})
	rep.Record(report.Event{Kind: report.KindUpdated, Path: "/work/src/AppModule.php", Bytes: 300})
	rep.Record(report.Event{Kind: report.KindDeleted, Path: "/work/src/Users/__name__.template.php"})
	return rep
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, sampleReport(), "/work")
	out := buf.String()

	assert.Contains(t, out, "CREATE")
	assert.Contains(t, out, "src/Users/UsersService.php")
	assert.Contains(t, out, "(120 bytes)")
	assert.Contains(t, out, "SKIP")
	assert.Contains(t, out, "already exists")
	assert.Contains(t, out, "UPDATE")
	assert.Contains(t, out, "src/AppModule.php")
	assert.NotContains(t, out, "RENAME", "staging renames stay out of the summary")
	assert.NotContains(t, out, "DELETE", "staging cleanup stays out of the summary")
	assert.NotContains(t, out, "/work/src", "paths are shown relative to the base")
}

func TestWriteEvents_PathOutsideBase(t *testing.T) {
	var buf bytes.Buffer
	rep := report.New(nil)
	rep.Record(report.Event{Kind: report.KindCreated, Path: "/elsewhere/Users.php", Bytes: 1})
	WriteEvents(&buf, rep, "/work")
	assert.Contains(t, buf.String(), "/elsewhere/Users.php")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, "service", "Users", sampleReport(), false)
	assert.Contains(t, buf.String(), "Generated service")
	assert.Contains(t, buf.String(), "Users")
	assert.Contains(t, buf.String(), "1 created, 1 updated, 1 skipped")
	assert.NotContains(t, buf.String(), "dry run")

	buf.Reset()
	WriteSummary(&buf, "service", "Users", sampleReport(), true)
	assert.Contains(t, buf.String(), "dry run")
}

func TestPrintError_PlainError(t *testing.T) {
	var logBuf bytes.Buffer
	output.SetupLogging(output.LogConfig{})
	output.SetLogWriter(&logBuf)

	PrintError("generate failed", fmt.Errorf("merge: %w", oerrors.ErrFileOperation))

	assert.Contains(t, logBuf.String(), "generate failed")
	assert.Contains(t, logBuf.String(), "file operation failed")
}

func TestPrintError_DetailError(t *testing.T) {
	var logBuf bytes.Buffer
	output.SetupLogging(output.LogConfig{})
	output.SetLogWriter(&logBuf)

	err := oerrors.NewValidationError("value \"x y\" does not match pattern", "", "name", "")
	PrintError("generate failed", err)

	assert.Contains(t, logBuf.String(), "generate failed")
	assert.Contains(t, logBuf.String(), "does not match pattern")
}

func TestEventLogger(t *testing.T) {
	var logBuf bytes.Buffer
	output.SetupLogging(output.LogConfig{Verbose: true})
	output.SetLogWriter(&logBuf)
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })

	EventLogger().Emit(report.Event{Kind: report.KindSkipped, Path: "/x/Users.php", Reason: "already exists"})

	assert.Contains(t, logBuf.String(), "file event")
	assert.Contains(t, logBuf.String(), "already exists")
}
