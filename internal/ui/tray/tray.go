package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/resources"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnPause       func()
	OnReset       func()
	OnSkip        func()
	OnOpenPanel   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resetItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	iconName   string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem(StatusText(timekeeper.Status{State: model.StateIdle}), nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnStart) })
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { call(manager.callbacks.OnPause) })
	manager.pauseItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })
	manager.skipItem = fyne.NewMenuItem("Skip", func() { call(manager.callbacks.OnSkip) })

	manager.setIcon(resources.AppIcon)
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line, menu items and icon from an engine
// snapshot. It must run on the fyne goroutine.
func (manager *Manager) SetStatus(status timekeeper.Status) {
	manager.statusItem.Label = StatusText(status)
	manager.startItem.Label = "Start"
	if status.State == model.StatePaused {
		manager.startItem.Label = "Resume"
	}
	manager.startItem.Disabled = status.State == model.StateRunning
	manager.pauseItem.Disabled = status.State != model.StateRunning

	manager.setIcon(IconFor(status))
	manager.refreshMenu()
}

// StatusText renders the tray status line: "Ready" when idle, otherwise a
// state glyph followed by the remaining time.
func StatusText(status timekeeper.Status) string {
	switch status.State {
	case model.StateRunning:
		return fmt.Sprintf("▶ %s", timekeeper.FormatClock(status.TimeLeft))
	case model.StatePaused:
		return fmt.Sprintf("⏸ %s", timekeeper.FormatClock(status.TimeLeft))
	default:
		return "Ready"
	}
}

// IconFor picks the tray icon for status.
func IconFor(status timekeeper.Status) string {
	switch {
	case status.State == model.StatePaused:
		return resources.PausedIcon
	case status.State == model.StateRunning && status.SessionType.IsBreak():
		return resources.BreakIcon
	case status.State == model.StateRunning:
		return resources.RunningIcon
	default:
		return resources.AppIcon
	}
}

func (manager *Manager) setIcon(name string) {
	if manager.app == nil || name == manager.iconName {
		return
	}
	manager.iconName = name
	manager.app.SetSystemTrayIcon(resources.MustIcon(name))
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("focusflow",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open focusflow", func() { call(manager.callbacks.OnOpenPanel) }),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	))
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
