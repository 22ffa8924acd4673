package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"focusflow/internal/core/model"
)

// MigratedSuffix is appended to a history file once its document has been
// moved to the other backend.
const MigratedSuffix = ".migrated"

// MigrateHistory moves the document of the other backend into backend when
// backend has no file yet. The source file is renamed with MigratedSuffix so
// it is only ever read once. It returns the number of sessions moved.
func MigrateHistory(ctx context.Context, paths Paths, backend string) (int, error) {
	if backend == "" {
		backend = model.BackendYAML
	}
	source, ok := otherBackend(backend)
	if !ok {
		return 0, nil
	}

	targetPath := paths.History(backend)
	if exists, err := fileExists(targetPath); err != nil || exists {
		return 0, err
	}
	sourcePath := paths.History(source)
	if exists, err := fileExists(sourcePath); err != nil || !exists {
		return 0, err
	}

	document, err := loadHistory(ctx, paths, source)
	if err != nil {
		return 0, err
	}
	if len(document.Sessions) == 0 && len(document.Extra) == 0 {
		return 0, nil
	}

	if err := saveHistory(ctx, paths, backend, document); err != nil {
		removeHistoryFiles(targetPath)
		return 0, err
	}
	if err := renameHistoryFiles(sourcePath); err != nil {
		return len(document.Sessions), fmt.Errorf("retire %s history: %w", source, err)
	}
	return len(document.Sessions), nil
}

func loadHistory(ctx context.Context, paths Paths, backend string) (Document, error) {
	history, err := OpenHistory(ctx, paths, backend)
	if err != nil {
		return Document{}, fmt.Errorf("open %s history: %w", backend, err)
	}
	defer history.Close()

	document, err := history.Load(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("load %s history: %w", backend, err)
	}
	return document, nil
}

func saveHistory(ctx context.Context, paths Paths, backend string, document Document) error {
	history, err := OpenHistory(ctx, paths, backend)
	if err != nil {
		return fmt.Errorf("open %s history: %w", backend, err)
	}
	if err := history.Save(ctx, document); err != nil {
		_ = history.Close()
		return fmt.Errorf("save %s history: %w", backend, err)
	}
	return history.Close()
}

func otherBackend(backend string) (string, bool) {
	switch backend {
	case model.BackendYAML:
		return model.BackendSQLite, true
	case model.BackendSQLite:
		return model.BackendYAML, true
	default:
		return "", false
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// sqliteSidecars lists the files SQLite may keep next to a database.
var sqliteSidecars = []string{"", "-wal", "-shm"}

func renameHistoryFiles(path string) error {
	for _, suffix := range sqliteSidecars {
		err := os.Rename(path+suffix, path+suffix+MigratedSuffix)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func removeHistoryFiles(path string) {
	for _, suffix := range sqliteSidecars {
		_ = os.Remove(path + suffix)
	}
}
