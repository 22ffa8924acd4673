// Package panel is the main timer window: countdown, controls and a
// compact statistics grid.
package panel

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focusflow/internal/core/timekeeper"
	"focusflow/internal/sessions"
)

const bannerTimeout = 5 * time.Second

var (
	workColor  = color.NRGBA{R: 217, G: 72, B: 59, A: 255}
	breakColor = color.NRGBA{R: 63, G: 143, B: 58, A: 255}
)

// Callbacks defines panel action handlers.
type Callbacks struct {
	OnStart func()
	OnPause func()
	OnReset func()
	OnSkip  func()
}

// Window manages the panel UI. Methods must run on the fyne goroutine.
type Window struct {
	window    fyne.Window
	analytics *sessions.Analytics
	callbacks Callbacks

	sessionLabel *widget.Label
	timerLabel   *canvas.Text
	progress     *widget.ProgressBar
	banner       *widget.Label
	startButton  *widget.Button
	pauseButton  *widget.Button
	resetButton  *widget.Button
	skipButton   *widget.Button
	statValues   map[string]*widget.Label

	bannerMu    sync.Mutex
	bannerTimer *time.Timer
}

var statNames = []string{"Today", "Week", "Month", "Total", "Time Today", "Streak"}

// New creates the panel window. It starts hidden.
func New(app fyne.App, analytics *sessions.Analytics, callbacks Callbacks) *Window {
	window := app.NewWindow("focusflow")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	sessionLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	timerLabel := canvas.NewText("--:--", workColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 48

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	banner := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	banner.Wrapping = fyne.TextWrapWord
	banner.Hide()

	panel := &Window{
		window:       window,
		analytics:    analytics,
		callbacks:    callbacks,
		sessionLabel: sessionLabel,
		timerLabel:   timerLabel,
		progress:     progress,
		banner:       banner,
		statValues:   make(map[string]*widget.Label, len(statNames)),
	}

	panel.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() { call(panel.callbacks.OnStart) })
	panel.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), func() { call(panel.callbacks.OnPause) })
	panel.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() { call(panel.callbacks.OnReset) })
	panel.skipButton = widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), func() { call(panel.callbacks.OnSkip) })
	panel.startButton.Importance = widget.HighImportance

	grid := container.NewGridWithColumns(3)
	for _, name := range statNames {
		value := widget.NewLabelWithStyle("0", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		panel.statValues[name] = value
		grid.Add(container.NewVBox(value, widget.NewLabelWithStyle(name, fyne.TextAlignCenter, fyne.TextStyle{})))
	}

	controls := container.NewHBox(
		layout.NewSpacer(),
		panel.startButton,
		panel.pauseButton,
		panel.resetButton,
		panel.skipButton,
		layout.NewSpacer(),
	)

	content := container.NewVBox(
		banner,
		sessionLabel,
		timerLabel,
		progress,
		controls,
		widget.NewSeparator(),
		grid,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(380, 360))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	panel.SetStatus(timekeeper.Status{})
	return panel
}

// Show displays the panel and refreshes statistics.
func (panel *Window) Show() {
	panel.RefreshStats()
	panel.window.Show()
	panel.window.RequestFocus()
}

// Hide hides the panel.
func (panel *Window) Hide() {
	panel.window.Hide()
}

// SetStatus renders an engine snapshot.
func (panel *Window) SetStatus(status timekeeper.Status) {
	panel.sessionLabel.SetText(SessionLabel(status))

	panel.timerLabel.Text = timekeeper.FormatClock(status.TimeLeft)
	panel.timerLabel.Color = workColor
	if status.SessionType.IsBreak() {
		panel.timerLabel.Color = breakColor
	}
	panel.timerLabel.Refresh()
	panel.progress.SetValue(status.Progress())

	canStart, canPause := Controls(status.State)
	panel.startButton.SetText(StartLabel(status.State))
	setEnabled(panel.startButton, canStart)
	setEnabled(panel.pauseButton, canPause)
}

// RefreshStats recomputes the statistics grid.
func (panel *Window) RefreshStats() {
	if panel.analytics == nil {
		return
	}
	stats := panel.analytics.Stats()
	panel.statValues["Today"].SetText(fmt.Sprint(stats.Today))
	panel.statValues["Week"].SetText(fmt.Sprint(stats.Week))
	panel.statValues["Month"].SetText(fmt.Sprint(stats.Month))
	panel.statValues["Total"].SetText(fmt.Sprint(stats.Total))
	panel.statValues["Time Today"].SetText(sessions.FormatDuration(panel.analytics.TotalTimeSpentToday()))
	panel.statValues["Streak"].SetText(fmt.Sprint(panel.analytics.ProductivityStreak()))
}

// ShowBanner displays message above the countdown for a few seconds.
func (panel *Window) ShowBanner(message string) {
	panel.banner.SetText(message)
	panel.banner.Show()

	panel.bannerMu.Lock()
	defer panel.bannerMu.Unlock()
	if panel.bannerTimer != nil {
		panel.bannerTimer.Stop()
	}
	panel.bannerTimer = time.AfterFunc(bannerTimeout, func() {
		fyne.Do(panel.banner.Hide)
	})
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
