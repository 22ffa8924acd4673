package cmd

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/platform"
	"focusflow/internal/ui/notify"
	"focusflow/internal/ui/panel"
	"focusflow/internal/ui/preferences"
	"focusflow/internal/ui/tray"
	"focusflow/internal/watcher"
	"focusflow/resources"
)

// runTray starts the desktop application and blocks until it quits.
func runTray(ctx context.Context, opts *rootOptions) error {
	logger := opts.logger

	guard, err := platform.AcquireSingleInstance(opts.instanceName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("focusflow is already running", "error", err)
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := fyneapp.NewWithID("com.focusflow.app")
	fyneApp.SetIcon(resources.MustIcon(resources.AppIcon))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	sink := notify.New(fyneApp)
	controller, err := opts.openController(ctx, sink, platform.NewIdleProvider())
	if err != nil {
		return err
	}
	defer func() {
		if err := controller.Close(); err != nil {
			logger.Error("close", "error", err)
		}
	}()

	keeper := controller.Keeper()
	panelWindow := panel.New(fyneApp, controller.Analytics(), panel.Callbacks{
		OnStart: keeper.Start,
		OnPause: keeper.Pause,
		OnReset: keeper.Reset,
		OnSkip:  keeper.Skip,
	})
	sink.SetBanner(panelWindow.ShowBanner)

	autostart := platform.NewService()
	syncAutostart := func(settings model.Settings) {
		if err := platform.SyncAutostart(autostart, appName, settings.LaunchAtLogin); err != nil {
			logger.Warn("launch at login", "error", err)
		}
	}
	syncAutostart(controller.Settings())

	prefsWindow := preferences.New(fyneApp, controller.Settings(), controller.Analytics(), preferences.Callbacks{
		OnSave: func(settings model.Settings) {
			if err := controller.UpdateSettings(settings); err != nil {
				logger.Error("update settings", "error", err)
			}
			syncAutostart(settings)
		},
		OnClear: func() error {
			err := controller.ClearHistory()
			panelWindow.RefreshStats()
			return err
		},
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart:       keeper.Start,
		OnPause:       keeper.Pause,
		OnReset:       keeper.Reset,
		OnSkip:        keeper.Skip,
		OnOpenPanel:   panelWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})

	keeper.OnStatus(func(status timekeeper.Status) {
		fyne.Do(func() {
			panelWindow.SetStatus(status)
			trayManager.SetStatus(status)
		})
	})
	keeper.OnComplete(func(timekeeper.Completion) {
		fyne.Do(func() {
			panelWindow.RefreshStats()
			prefsWindow.RefreshStats()
		})
	})
	guard.OnActivate(func() {
		fyne.Do(panelWindow.Show)
	})

	settingsWatcher, err := watcher.New(watcher.Config{Path: controller.Paths().Settings(), Logger: logger})
	if err != nil {
		logger.Warn("settings watcher disabled", "error", err)
	} else if changes, err := settingsWatcher.Start(); err != nil {
		logger.Warn("settings watcher disabled", "error", err)
	} else {
		defer func() {
			_ = settingsWatcher.Stop()
		}()
		go func() {
			for range changes {
				if err := controller.ReloadSettings(); err != nil {
					logger.Warn("reload settings", "error", err)
					continue
				}
				settings := controller.Settings()
				fyne.Do(func() {
					prefsWindow.UpdateSettings(settings)
				})
			}
		}()
	}

	panelWindow.SetStatus(keeper.Status())
	panelWindow.Show()
	fyneApp.Run()
	return nil
}
