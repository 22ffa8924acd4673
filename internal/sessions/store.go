// Package sessions keeps the append-only log of completed intervals and
// derives statistics from it.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focusflow/internal/core/model"
	"focusflow/internal/storage"
)

// ErrClosed is returned by mutating calls after Close.
var ErrClosed = errors.New("session store closed")

const persistTimeout = 10 * time.Second

// Backend loads and saves the persisted document.
type Backend interface {
	Load(ctx context.Context) (storage.Document, error)
	Save(ctx context.Context, document storage.Document) error
}

// Store is the in-memory session log. Writes reach the backend
// asynchronously through a single writer goroutine; a failed save is
// logged and never rolls back the in-memory state.
type Store struct {
	mu       sync.RWMutex
	sessions []model.Session
	closed   bool
	lastErr  error

	backend Backend
	logger  *slog.Logger

	dirty   chan struct{}
	flushes chan chan error
	stopCh  chan struct{}
	done    chan struct{}
}

// NewStore loads the existing sessions from backend and starts the writer.
// A load failure is logged and the store starts empty.
func NewStore(ctx context.Context, backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{
		backend: backend,
		logger:  logger,
		dirty:   make(chan struct{}, 1),
		flushes: make(chan chan error),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	if backend != nil {
		document, err := backend.Load(ctx)
		if err != nil {
			logger.Error("load sessions", "error", err)
		} else {
			store.sessions = append(store.sessions, document.Sessions...)
		}
	}

	go store.run()
	return store
}

// Append records a session. The in-memory log is updated immediately.
func (store *Store) Append(session model.Session) error {
	store.mu.Lock()
	if store.closed {
		store.mu.Unlock()
		return ErrClosed
	}
	store.sessions = append(store.sessions, session)
	store.mu.Unlock()

	store.markDirty()
	return nil
}

// All returns a copy of every session in append order.
func (store *Store) All() []model.Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	sessions := make([]model.Session, len(store.sessions))
	copy(sessions, store.sessions)
	return sessions
}

// Len returns the number of stored sessions.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}

// Clear removes every session and persists the empty log.
func (store *Store) Clear() error {
	store.mu.Lock()
	if store.closed {
		store.mu.Unlock()
		return ErrClosed
	}
	store.sessions = nil
	store.mu.Unlock()

	store.logger.Info("sessions cleared")
	store.markDirty()
	return nil
}

// Flush waits for pending saves and returns the result of the last one.
func (store *Store) Flush() error {
	reply := make(chan error, 1)
	select {
	case store.flushes <- reply:
		return <-reply
	case <-store.done:
		return store.lastError()
	}
}

// Close flushes pending saves and stops the writer.
func (store *Store) Close() error {
	store.mu.Lock()
	if store.closed {
		store.mu.Unlock()
		<-store.done
		return store.lastError()
	}
	store.closed = true
	store.mu.Unlock()

	close(store.stopCh)
	<-store.done
	return store.lastError()
}

func (store *Store) markDirty() {
	select {
	case store.dirty <- struct{}{}:
	default:
	}
}

func (store *Store) run() {
	defer close(store.done)

	for {
		select {
		case <-store.dirty:
			store.persist()
		case reply := <-store.flushes:
			store.drain()
			reply <- store.lastError()
		case <-store.stopCh:
			store.drain()
			return
		}
	}
}

func (store *Store) drain() {
	select {
	case <-store.dirty:
		store.persist()
	default:
	}
}

// persist performs a read-modify-write so fields other than the session
// list survive untouched.
func (store *Store) persist() {
	if store.backend == nil {
		return
	}
	sessions := store.All()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	document, err := store.backend.Load(ctx)
	if err != nil {
		store.setLastError(fmt.Errorf("load document: %w", err))
		store.logger.Error("save sessions", "error", err)
		return
	}
	document.Sessions = sessions
	if err := store.backend.Save(ctx, document); err != nil {
		store.setLastError(fmt.Errorf("save document: %w", err))
		store.logger.Error("save sessions", "error", err)
		return
	}
	store.setLastError(nil)
	store.logger.Debug("sessions saved", "count", len(sessions))
}

func (store *Store) setLastError(err error) {
	store.mu.Lock()
	store.lastErr = err
	store.mu.Unlock()
}

func (store *Store) lastError() error {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.lastErr
}
