package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/dispatch"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, j.Close()) })
	return j
}

func testEntry(input, path, outcome string, started time.Time) Entry {
	return Entry{
		Invocation: uuid.New(),
		Sender:     "amy",
		Input:      input,
		Path:       path,
		Outcome:    outcome,
		StartedAt:  started,
		Duration:   3 * time.Millisecond,
	}
}

func TestOpen_RunsMigrations(t *testing.T) {
	j := openTestJournal(t)

	version, err := currentVersion(j.db)
	require.NoError(t, err)
	require.Equal(t, 1, version)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(testEntry("version", "version", OutcomeOK, time.Now())))
	require.NoError(t, j.Close())

	// Migrations are idempotent and existing rows survive a reopen.
	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Tail(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "version", entries[0].Input)
}

func TestRecord_RoundTrip(t *testing.T) {
	j := openTestJournal(t)

	started := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	in := testEntry("greet bob --loud", "greet name", OutcomeOK, started)
	require.NoError(t, j.Record(in))

	entries, err := j.Tail(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	require.Equal(t, in.Invocation, got.Invocation)
	require.Equal(t, "amy", got.Sender)
	require.Equal(t, "greet bob --loud", got.Input)
	require.Equal(t, "greet name", got.Path)
	require.Equal(t, OutcomeOK, got.Outcome)
	require.Empty(t, got.ErrorText)
	require.True(t, got.StartedAt.Equal(started))
	require.Equal(t, 3*time.Millisecond, got.Duration)
}

func TestList_Filters(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(testEntry("greet bob", "greet name", OutcomeOK, base)))
	require.NoError(t, j.Record(testEntry("greet", "greet", "invalid-syntax", base.Add(time.Minute))))
	require.NoError(t, j.Record(testEntry("version", "version", OutcomeOK, base.Add(2*time.Minute))))

	tests := []struct {
		name   string
		filter Filter
		inputs []string
	}{
		{
			name:   "no filter newest first",
			filter: Filter{},
			inputs: []string{"version", "greet", "greet bob"},
		},
		{
			name:   "by outcome",
			filter: Filter{Outcome: "invalid-syntax"},
			inputs: []string{"greet"},
		},
		{
			name:   "by path prefix",
			filter: Filter{PathPrefix: "greet"},
			inputs: []string{"greet", "greet bob"},
		},
		{
			name:   "by since",
			filter: Filter{Since: timePtr(base.Add(30 * time.Second))},
			inputs: []string{"version", "greet"},
		},
		{
			name:   "limit",
			filter: Filter{Limit: 2},
			inputs: []string{"version", "greet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := j.List(tt.filter)
			require.NoError(t, err)
			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Input
			}
			require.Equal(t, tt.inputs, got)
		})
	}
}

func TestClassify(t *testing.T) {
	outcome, text := Classify(nil)
	require.Equal(t, OutcomeOK, outcome)
	require.Empty(t, text)

	derr := &dispatch.Error{Kind: dispatch.ErrNoSuchCommand, Message: "unknown command 'x'"}
	outcome, text = Classify(derr)
	require.Equal(t, "no-such-command", outcome)
	require.Equal(t, "unknown command 'x'", text)

	outcome, _ = Classify(errors.New("plain"))
	require.Equal(t, "unknown", outcome)
}

func timePtr(t time.Time) *time.Time { return &t }
