package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/core/model"
	"focusflow/internal/storage"
)

var started = time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

func sampleSessions() []model.Session {
	named := model.NewSession(model.SessionWork, started, 1500)
	named.Name = "write report"
	return []model.Session{
		named,
		model.NewSession(model.SessionShortBreak, started.Add(25*time.Minute), 300),
	}
}

func assertSameSessions(t *testing.T, want, got []model.Session) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.True(t, want[i].StartedAt.Equal(got[i].StartedAt), "started_at %v != %v", want[i].StartedAt, got[i].StartedAt)
		assert.Equal(t, want[i].Duration, got[i].Duration)
		assert.Equal(t, want[i].Name, got[i].Name)
	}
}

func TestUnmarshalDocumentKeepsUnknownFields(t *testing.T) {
	raw := []byte(`
theme: dark
sessions:
  - type: work
    started_at: 2024-03-06T09:00:00Z
    duration: 1500
  - type: nap
    started_at: 2024-03-06T10:00:00Z
    duration: 60
window:
  x: 10
  y: 20
`)

	document, err := storage.UnmarshalDocument(raw)
	require.NoError(t, err)
	require.Len(t, document.Sessions, 1)
	assert.Equal(t, model.SessionWork, document.Sessions[0].Type)
	assert.Contains(t, document.Extra, "theme")
	assert.Contains(t, document.Extra, "window")

	serialized, err := storage.MarshalDocument(document)
	require.NoError(t, err)
	assert.Contains(t, string(serialized), "theme: dark")
	assert.Contains(t, string(serialized), "x: 10")
	assert.NotContains(t, string(serialized), "nap")
}

func TestUnmarshalDocumentEmpty(t *testing.T) {
	document, err := storage.UnmarshalDocument([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, document.Sessions)
	assert.Empty(t, document.Extra)
}

func TestUnmarshalDocumentInvalid(t *testing.T) {
	_, err := storage.UnmarshalDocument([]byte("sessions: [unclosed"))
	assert.Error(t, err)
}

func TestYAMLHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.yaml")
	history := storage.NewYAMLHistory(path)
	ctx := context.Background()

	empty, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0o644))
	document, err := history.Load(ctx)
	require.NoError(t, err)
	document.Sessions = sampleSessions()
	require.NoError(t, history.Save(ctx, document))

	loaded, err := history.Load(ctx)
	require.NoError(t, err)
	assertSameSessions(t, sampleSessions(), loaded.Sessions)
	assert.Contains(t, loaded.Extra, "theme")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, history.Close())
}

func TestSQLiteHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	history, err := storage.OpenSQLiteHistory(ctx, path)
	require.NoError(t, err)

	empty, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)

	extra, err := storage.UnmarshalDocument([]byte("theme: dark\n"))
	require.NoError(t, err)
	extra.Sessions = sampleSessions()
	require.NoError(t, history.Save(ctx, extra))
	require.NoError(t, history.Close())

	reopened, err := storage.OpenSQLiteHistory(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assertSameSessions(t, sampleSessions(), loaded.Sessions)
	require.Contains(t, loaded.Extra, "theme")
	theme := loaded.Extra["theme"]
	assert.Equal(t, "dark", theme.Value)

	loaded.Sessions = loaded.Sessions[:1]
	require.NoError(t, reopened.Save(ctx, loaded))
	again, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Sessions, 1)
}

func TestOpenHistorySelectsBackend(t *testing.T) {
	ctx := context.Background()
	paths := storage.Paths{Dir: t.TempDir()}

	yamlHistory, err := storage.OpenHistory(ctx, paths, "")
	require.NoError(t, err)
	assert.IsType(t, &storage.YAMLHistory{}, yamlHistory)

	sqliteHistory, err := storage.OpenHistory(ctx, paths, model.BackendSQLite)
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteHistory{}, sqliteHistory)
	require.NoError(t, sqliteHistory.Close())

	_, err = storage.OpenHistory(ctx, paths, "mongo")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	paths := storage.Paths{Dir: "/cfg/focusflow"}

	assert.Equal(t, filepath.Join("/cfg/focusflow", "settings.yaml"), paths.Settings())
	assert.Equal(t, filepath.Join("/cfg/focusflow", "history.yaml"), paths.History(model.BackendYAML))
	assert.Equal(t, filepath.Join("/cfg/focusflow", "history.db"), paths.History(model.BackendSQLite))
}
