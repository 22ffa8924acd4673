package storage

import (
	"context"
	"fmt"

	"focusflow/internal/core/model"
)

// History is a persisted session document.
type History interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, document Document) error
	Close() error
}

// OpenHistory opens the history backend selected in settings.
func OpenHistory(ctx context.Context, paths Paths, backend string) (History, error) {
	switch backend {
	case "", model.BackendYAML:
		return NewYAMLHistory(paths.History(model.BackendYAML)), nil
	case model.BackendSQLite:
		return OpenSQLiteHistory(ctx, paths.History(model.BackendSQLite))
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
