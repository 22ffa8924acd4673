package storage

import (
	"fmt"
	"path/filepath"

	"focusflow/internal/core/model"
	"focusflow/internal/platform"
)

const (
	settingsFileName    = "settings.yaml"
	historyYAMLFileName = "history.yaml"
	historyDBFileName   = "history.db"
)

// Paths locates the files owned by the application.
type Paths struct {
	Dir string
}

// DefaultPaths resolves the per-user configuration directory for appName.
func DefaultPaths(appName string) (Paths, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve config dir: %w", err)
	}
	return Paths{Dir: filepath.Join(configDir, appName)}, nil
}

// Settings returns the settings file path.
func (paths Paths) Settings() string {
	return filepath.Join(paths.Dir, settingsFileName)
}

// History returns the history file path for backend.
func (paths Paths) History(backend string) string {
	if backend == model.BackendSQLite {
		return filepath.Join(paths.Dir, historyDBFileName)
	}
	return filepath.Join(paths.Dir, historyYAMLFileName)
}
