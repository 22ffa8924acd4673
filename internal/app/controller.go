// Package app wires the timer engine, the session store and analytics to
// the persisted settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"focusflow/internal/clock"
	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/platform"
	"focusflow/internal/sessions"
	"focusflow/internal/storage"
)

// Options configures a Controller.
type Options struct {
	Paths        storage.Paths
	Clock        clock.Clock
	Location     *time.Location
	Logger       *slog.Logger
	Notifier     timekeeper.Notifier
	IdleProvider platform.IdleProvider
}

// Controller owns the long-lived core objects of one process.
type Controller struct {
	paths   storage.Paths
	logger  *slog.Logger
	history storage.History

	mu       sync.Mutex
	settings model.Settings

	store     *sessions.Store
	keeper    *timekeeper.TimeKeeper
	analytics *sessions.Analytics
	idle      *IdleMonitor

	closeOnce sync.Once
	closeErr  error
}

// Open loads settings and history and builds the engine. Unreadable
// settings fall back to defaults; an unusable history backend falls back
// to the YAML file. A backend chosen since the last launch receives the
// sessions kept by the other one.
func Open(ctx context.Context, options Options) (*Controller, error) {
	if options.Clock == nil {
		options.Clock = clock.NewSystem()
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Notifier == nil {
		options.Notifier = LogNotifier{Logger: options.Logger}
	}
	if options.Paths.Dir == "" {
		return nil, errors.New("open controller: config dir is empty")
	}
	if err := os.MkdirAll(options.Paths.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	settings, err := storage.LoadSettings(options.Paths.Settings())
	if err != nil {
		options.Logger.Warn("load settings, using defaults", "path", options.Paths.Settings(), "error", err)
	}

	migrated, err := storage.MigrateHistory(ctx, options.Paths, settings.HistoryBackend)
	if err != nil {
		options.Logger.Error("migrate history", "backend", settings.HistoryBackend, "error", err)
	} else if migrated > 0 {
		options.Logger.Info("history migrated", "backend", settings.HistoryBackend, "sessions", migrated)
	}

	history, err := storage.OpenHistory(ctx, options.Paths, settings.HistoryBackend)
	if err != nil {
		options.Logger.Error("open history backend, falling back to yaml", "backend", settings.HistoryBackend, "error", err)
		history = storage.NewYAMLHistory(options.Paths.History(model.BackendYAML))
	}

	store := sessions.NewStore(ctx, history, options.Logger)
	keeper := timekeeper.New(settings.TimerConfig(), timekeeper.Options{
		Clock:    options.Clock,
		Recorder: store,
		Notifier: options.Notifier,
		Logger:   options.Logger,
	})

	controller := &Controller{
		paths:     options.Paths,
		logger:    options.Logger,
		history:   history,
		settings:  settings,
		store:     store,
		keeper:    keeper,
		analytics: sessions.NewAnalytics(store, options.Clock, options.Location),
	}
	if options.IdleProvider != nil {
		controller.idle = NewIdleMonitor(IdleConfig{
			Provider: options.IdleProvider,
			Keeper:   keeper,
			Clock:    options.Clock,
			Notifier: options.Notifier,
			Logger:   options.Logger,
		})
		controller.idle.SetThreshold(settings.PauseWhenIdle, settings.IdlePauseAfter)
		controller.idle.Start()
	}
	return controller, nil
}

// Keeper returns the timer engine.
func (controller *Controller) Keeper() *timekeeper.TimeKeeper {
	return controller.keeper
}

// Store returns the session store.
func (controller *Controller) Store() *sessions.Store {
	return controller.store
}

// Analytics returns the statistics view over the store.
func (controller *Controller) Analytics() *sessions.Analytics {
	return controller.analytics
}

// Paths returns the files used by the controller.
func (controller *Controller) Paths() storage.Paths {
	return controller.paths
}

// Settings returns the active settings.
func (controller *Controller) Settings() model.Settings {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.settings
}

// UpdateSettings persists settings and applies them to the running engine.
// The settings are applied even when saving fails.
func (controller *Controller) UpdateSettings(settings model.Settings) error {
	controller.apply(settings)
	if err := storage.SaveSettings(controller.paths.Settings(), settings); err != nil {
		controller.logger.Error("save settings", "error", err)
		return err
	}
	return nil
}

// ReloadSettings re-reads the settings file and applies it.
func (controller *Controller) ReloadSettings() error {
	settings, err := storage.LoadSettings(controller.paths.Settings())
	if err != nil {
		return fmt.Errorf("reload settings: %w", err)
	}
	controller.apply(settings)
	controller.logger.Info("settings reloaded", "path", controller.paths.Settings())
	return nil
}

// ExportCSV writes every session as CSV to path.
func (controller *Controller) ExportCSV(path string) error {
	if err := os.WriteFile(path, []byte(controller.analytics.ExportCSV()), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ClearHistory removes every recorded session and waits for the save.
func (controller *Controller) ClearHistory() error {
	if err := controller.store.Clear(); err != nil {
		return err
	}
	return controller.store.Flush()
}

// Close stops the engine, flushes pending writes and releases storage.
func (controller *Controller) Close() error {
	controller.closeOnce.Do(func() {
		controller.keeper.Cleanup()
		if controller.idle != nil {
			controller.idle.Stop()
		}
		storeErr := controller.store.Close()
		historyErr := controller.history.Close()
		controller.closeErr = errors.Join(storeErr, historyErr)
	})
	return controller.closeErr
}

func (controller *Controller) apply(settings model.Settings) {
	controller.mu.Lock()
	controller.settings = settings
	controller.mu.Unlock()

	controller.keeper.UpdateConfig(settings.TimerConfig())
	if controller.idle != nil {
		controller.idle.SetThreshold(settings.PauseWhenIdle, settings.IdlePauseAfter)
	}
}

// LogNotifier writes completion messages to the log. It is used when no
// desktop notifier is available, for example by the command line.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs an in-app message.
func (notifier LogNotifier) Notify(message string) {
	notifier.logger().Info("notice", "message", message)
}

// NotifySystem logs a system message.
func (notifier LogNotifier) NotifySystem(title, message string) {
	notifier.logger().Info("system notice", "title", title, "message", message)
}

func (notifier LogNotifier) logger() *slog.Logger {
	if notifier.Logger == nil {
		return slog.Default()
	}
	return notifier.Logger
}
