package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New(nil)
	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err, "run id must be a uuid")
	assert.Equal(t, StatePending, r.State)
	assert.NotEqual(t, r.RunID, New(nil).RunID)
}

func TestRecordForwardsToSink(t *testing.T) {
	var got []Event
	r := New(SinkFunc(func(e Event) { got = append(got, e) }))

	r.Record(Event{Kind: KindCreated, Path: "a.php", Bytes: 10})
	r.Record(Event{Kind: KindRenamed, Path: "__name__.php", To: "b.php", Bytes: -1})
	r.Record(Event{Kind: KindCreated, Path: "b.php", Bytes: 3})

	assert.Equal(t, r.Events, got)
	assert.Equal(t, 2, r.Count(KindCreated))
	assert.Equal(t, []string{"a.php", "b.php"}, r.Paths(KindCreated))
	assert.Equal(t, []string{"b.php"}, r.Paths(KindRenamed))
	assert.Empty(t, r.Paths(KindDeleted))
}

func TestDiscard(t *testing.T) {
	r := New(Discard)
	r.Record(Event{Kind: KindSkipped, Path: "x"})
	assert.Len(t, r.Events, 1)
}
