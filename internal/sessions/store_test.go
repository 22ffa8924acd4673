package sessions_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"focusflow/internal/core/model"
	"focusflow/internal/sessions"
	"focusflow/internal/storage"
)

type memoryBackend struct {
	mu       sync.Mutex
	document storage.Document
	saves    int
	loadErr  error
	saveErr  error
}

func (backend *memoryBackend) Load(context.Context) (storage.Document, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.loadErr != nil {
		return storage.Document{}, backend.loadErr
	}
	document := backend.document
	document.Sessions = append([]model.Session(nil), backend.document.Sessions...)
	return document, nil
}

func (backend *memoryBackend) Save(_ context.Context, document storage.Document) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.saveErr != nil {
		return backend.saveErr
	}
	backend.saves++
	backend.document = document
	return nil
}

func (backend *memoryBackend) saved() []model.Session {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.document.Sessions
}

func quietLogger(buffer *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buffer, nil))
}

func TestStoreLoadsExistingSessions(t *testing.T) {
	backend := &memoryBackend{document: storage.Document{Sessions: []model.Session{work(at(2024, 3, 1, 9), 1500)}}}

	store := sessions.NewStore(context.Background(), backend, quietLogger(&bytes.Buffer{}))
	defer store.Close()

	assert.Equal(t, 1, store.Len())
}

func TestStoreAppendPersists(t *testing.T) {
	backend := &memoryBackend{}
	store := sessions.NewStore(context.Background(), backend, quietLogger(&bytes.Buffer{}))
	defer store.Close()

	require.NoError(t, store.Append(work(at(2024, 3, 6, 9), 1500)))
	require.NoError(t, store.Append(work(at(2024, 3, 6, 10), 1500)))
	require.NoError(t, store.Flush())

	assert.Len(t, store.All(), 2)
	assert.Len(t, backend.saved(), 2)
}

func TestStoreClear(t *testing.T) {
	backend := &memoryBackend{}
	store := sessions.NewStore(context.Background(), backend, quietLogger(&bytes.Buffer{}))
	defer store.Close()

	require.NoError(t, store.Append(work(at(2024, 3, 6, 9), 1500)))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Flush())

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, backend.saved())
}

func TestStorePreservesOtherFields(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("theme: dark\n"), &node))
	backend := &memoryBackend{document: storage.Document{Extra: map[string]yaml.Node{"preferences": *node.Content[0]}}}
	store := sessions.NewStore(context.Background(), backend, quietLogger(&bytes.Buffer{}))

	require.NoError(t, store.Append(work(at(2024, 3, 6, 9), 1500)))
	require.NoError(t, store.Close())

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Contains(t, backend.document.Extra, "preferences")
	assert.Len(t, backend.document.Sessions, 1)
}

func TestStoreSaveFailureKeepsMemory(t *testing.T) {
	logs := &bytes.Buffer{}
	backend := &memoryBackend{saveErr: errors.New("read-only file system")}
	store := sessions.NewStore(context.Background(), backend, quietLogger(logs))
	defer store.Close()

	require.NoError(t, store.Append(work(at(2024, 3, 6, 9), 1500)))
	err := store.Flush()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Equal(t, 1, store.Len())
	assert.Contains(t, logs.String(), "save sessions")
}

func TestStoreLoadFailureStartsEmpty(t *testing.T) {
	logs := &bytes.Buffer{}
	backend := &memoryBackend{loadErr: errors.New("corrupt")}

	store := sessions.NewStore(context.Background(), backend, quietLogger(logs))
	defer store.Close()

	assert.Equal(t, 0, store.Len())
	assert.Contains(t, logs.String(), "load sessions")
}

func TestStoreClosed(t *testing.T) {
	store := sessions.NewStore(context.Background(), &memoryBackend{}, quietLogger(&bytes.Buffer{}))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Append(work(at(2024, 3, 6, 9), 60)), sessions.ErrClosed)
	assert.ErrorIs(t, store.Clear(), sessions.ErrClosed)
	assert.NoError(t, store.Flush())
}

func TestStoreWithoutBackend(t *testing.T) {
	store := sessions.NewStore(context.Background(), nil, nil)
	defer store.Close()

	require.NoError(t, store.Append(work(at(2024, 3, 6, 9), 60)))
	assert.NoError(t, store.Flush())
	assert.Equal(t, 1, store.Len())
}
