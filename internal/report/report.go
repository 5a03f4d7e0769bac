// Package report records what a generation run did to the target tree.
package report

import (
	"github.com/google/uuid"
)

// Kind classifies a file event.
type Kind string

const (
	// KindCreated marks a file that did not exist before the run.
	KindCreated Kind = "created"

	// KindUpdated marks an existing file whose content was rewritten.
	KindUpdated Kind = "updated"

	// KindRenamed marks a staged file moved to its resolved path.
	KindRenamed Kind = "renamed"

	// KindDeleted marks a staging artifact removed during cleanup.
	KindDeleted Kind = "deleted"

	// KindSkipped marks a file left untouched because its target exists.
	KindSkipped Kind = "skipped"
)

// Event is a single observable filesystem effect.
type Event struct {
	Kind Kind

	// Path is the file the event applies to. For renames it is the source.
	Path string

	// To is the rename destination.
	To string

	// Bytes is the size of the file written, renamed or deleted. It is 0 for
	// directories and -1 for skipped files.
	Bytes int

	// Reason explains skips.
	Reason string
}

// Sink receives events as they happen.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// MergeResult describes the outcome of patching a module declaration file.
type MergeResult struct {
	// Path is the module file that was considered.
	Path string

	// Skipped is true when the module file does not exist.
	Skipped bool

	// Added lists the entries inserted per section.
	Added map[string][]string

	// Imports lists the namespace import statements inserted.
	Imports []string

	// Missing lists sections that had entries to add but no block in the file.
	Missing []string

	// Changed is true when the file content was rewritten.
	Changed bool

	// Bytes is the size of the written file, or -1 when unchanged.
	Bytes int
}

// State is the orchestrator state a report was left in.
type State string

const (
	StatePending   State = "pending"
	StateStaged    State = "staged"
	StateRewritten State = "rewritten"
	StateMerged    State = "merged"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Report accumulates the events of one run. It is returned even when the run
// fails, describing everything done up to the failure.
type Report struct {
	RunID  string
	State  State
	Events []Event
	Merge  *MergeResult

	sink Sink
}

// New creates an empty report with a fresh run id. Events recorded on it are
// forwarded to sink when sink is non-nil.
func New(sink Sink) *Report {
	return &Report{
		RunID: uuid.NewString(),
		State: StatePending,
		sink:  sink,
	}
}

// Record appends e and forwards it to the sink.
func (r *Report) Record(e Event) {
	r.Events = append(r.Events, e)
	if r.sink != nil {
		r.sink.Emit(e)
	}
}

// Paths returns the paths of all events of kind k, in order.
func (r *Report) Paths(k Kind) []string {
	var out []string
	for _, e := range r.Events {
		if e.Kind != k {
			continue
		}
		if k == KindRenamed {
			out = append(out, e.To)
			continue
		}
		out = append(out, e.Path)
	}
	return out
}

// Count returns the number of events of kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
