package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// YAMLHistory stores the document in a single YAML file.
type YAMLHistory struct {
	mu   sync.Mutex
	path string
}

// NewYAMLHistory returns a file backend rooted at path.
func NewYAMLHistory(path string) *YAMLHistory {
	return &YAMLHistory{path: path}
}

// Path returns the backing file.
func (history *YAMLHistory) Path() string {
	return history.path
}

// Load reads the document. A missing file yields an empty document.
func (history *YAMLHistory) Load(ctx context.Context) (Document, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	rawData, err := os.ReadFile(history.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UnmarshalDocument(nil)
		}
		return Document{}, fmt.Errorf("read history file: %w", err)
	}
	return UnmarshalDocument(rawData)
}

// Save replaces the file atomically.
func (history *YAMLHistory) Save(ctx context.Context, document Document) error {
	history.mu.Lock()
	defer history.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	serialized, err := MarshalDocument(document)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(history.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmpPath := history.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmpPath, history.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (history *YAMLHistory) Close() error {
	return nil
}
