package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focusflow/internal/core/model"
	"focusflow/internal/sessions"
)

// Callbacks defines preferences action handlers.
type Callbacks struct {
	OnSave  func(model.Settings)
	OnClear func() error
}

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  model.Settings
	analytics *sessions.Analytics
	callbacks Callbacks

	workDur      *widget.Entry
	shortDur     *widget.Entry
	longDur      *widget.Entry
	longInterval *widget.Entry
	autoStart    *widget.Check
	inApp        *widget.Check
	system       *widget.Check
	idleCheck    *widget.Check
	idleAfter    *widget.Entry
	launch       *widget.Check
	backend      *widget.Select
	statValues   map[string]*widget.Label
}

// backendHint explains when a storage change takes effect.
const backendHint = "Storage changes apply after a restart. Existing sessions are moved over."

var statNames = []string{"Total", "Year", "Month", "Week", "Today", "Streak", "Total Time", "Time Today"}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, analytics *sessions.Analytics, callbacks Callbacks) *Window {
	window := app.NewWindow("focusflow Settings")

	prefs := &Window{
		window:       window,
		settings:     settings,
		analytics:    analytics,
		callbacks:    callbacks,
		workDur:      widget.NewEntry(),
		shortDur:     widget.NewEntry(),
		longDur:      widget.NewEntry(),
		longInterval: widget.NewEntry(),
		autoStart:    widget.NewCheck("Auto-start next session", nil),
		inApp:        widget.NewCheck("In-app notifications", nil),
		system:       widget.NewCheck("System notifications", nil),
		idleCheck:    widget.NewCheck("Pause work when idle", nil),
		idleAfter:    widget.NewEntry(),
		launch:       widget.NewCheck("Launch at login", nil),
		backend:      widget.NewSelect([]string{model.BackendYAML, model.BackendSQLite}, nil),
		statValues:   make(map[string]*widget.Label, len(statNames)),
	}

	timer := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work duration"), prefs.workDur, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.shortDur, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longDur, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break every"), prefs.longInterval, widget.NewLabel("sessions")),
		prefs.autoStart,
	)
	general := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.inApp,
		prefs.system,
		container.NewHBox(prefs.idleCheck, prefs.idleAfter, widget.NewLabel("min")),
		prefs.launch,
		container.NewHBox(widget.NewLabel("History storage"), prefs.backend),
		widget.NewLabelWithStyle(backendHint, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
	)

	grid := container.NewGridWithColumns(4)
	for _, name := range statNames {
		value := widget.NewLabelWithStyle("0", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		prefs.statValues[name] = value
		grid.Add(container.NewVBox(value, widget.NewLabelWithStyle(name, fyne.TextAlignCenter, fyne.TextStyle{})))
	}
	exportButton := widget.NewButton("Export CSV", prefs.handleExport)
	clearButton := widget.NewButton("Clear data", prefs.handleClear)
	clearButton.Importance = widget.DangerImportance
	data := container.NewVBox(
		widget.NewLabelWithStyle("Statistics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		grid,
		container.NewHBox(exportButton, clearButton),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	form := container.NewVBox(timer, widget.NewSeparator(), general, widget.NewSeparator(), data)
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(460, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.RefreshStats()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.workDur.SetText(minutesText(settings.WorkDuration))
	prefs.shortDur.SetText(minutesText(settings.ShortBreakDuration))
	prefs.longDur.SetText(minutesText(settings.LongBreakDuration))
	prefs.longInterval.SetText(strconv.Itoa(settings.LongBreakInterval))
	prefs.autoStart.SetChecked(settings.AutoStartNext)
	prefs.inApp.SetChecked(settings.InAppNotifications)
	prefs.system.SetChecked(settings.SystemNotifications)
	prefs.idleCheck.SetChecked(settings.PauseWhenIdle)
	prefs.idleAfter.SetText(minutesText(settings.IdlePauseAfter))
	prefs.launch.SetChecked(settings.LaunchAtLogin)
	prefs.backend.SetSelected(settings.HistoryBackend)
}

// Settings returns the form values applied over the last saved settings.
// Fields that do not hold a positive number keep their previous value.
func (prefs *Window) Settings() model.Settings {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.workDur.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortDur.Text); ok {
		settings.ShortBreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longDur.Text); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(prefs.longInterval.Text); ok {
		settings.LongBreakInterval = count
	}
	if minutes, ok := parsePositiveInt(prefs.idleAfter.Text); ok {
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}

	settings.AutoStartNext = prefs.autoStart.Checked
	settings.InAppNotifications = prefs.inApp.Checked
	settings.SystemNotifications = prefs.system.Checked
	settings.PauseWhenIdle = prefs.idleCheck.Checked
	settings.LaunchAtLogin = prefs.launch.Checked
	if prefs.backend.Selected != "" {
		settings.HistoryBackend = prefs.backend.Selected
	}
	return settings
}

// RefreshStats recomputes the statistics grid.
func (prefs *Window) RefreshStats() {
	if prefs.analytics == nil {
		return
	}
	stats := prefs.analytics.Stats()
	prefs.statValues["Total"].SetText(strconv.Itoa(stats.Total))
	prefs.statValues["Year"].SetText(strconv.Itoa(stats.Year))
	prefs.statValues["Month"].SetText(strconv.Itoa(stats.Month))
	prefs.statValues["Week"].SetText(strconv.Itoa(stats.Week))
	prefs.statValues["Today"].SetText(strconv.Itoa(stats.Today))
	prefs.statValues["Streak"].SetText(strconv.Itoa(prefs.analytics.ProductivityStreak()))
	prefs.statValues["Total Time"].SetText(sessions.FormatDuration(prefs.analytics.TotalTimeSpent()))
	prefs.statValues["Time Today"].SetText(sessions.FormatDuration(prefs.analytics.TotalTimeSpentToday()))
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.Settings()
	if prefs.callbacks.OnSave != nil {
		prefs.callbacks.OnSave(prefs.settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) handleExport() {
	if prefs.analytics == nil {
		return
	}
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write([]byte(prefs.analytics.ExportCSV())); err != nil {
			dialog.ShowError(fmt.Errorf("write export: %w", err), prefs.window)
		}
	}, prefs.window)
	saveDialog.SetFileName(sessions.ExportFileName(time.Now()))
	saveDialog.Show()
}

func (prefs *Window) handleClear() {
	dialog.ShowConfirm("Clear data", "Delete every recorded session? This cannot be undone.", func(confirmed bool) {
		if !confirmed || prefs.callbacks.OnClear == nil {
			return
		}
		if err := prefs.callbacks.OnClear(); err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		prefs.RefreshStats()
	}, prefs.window)
}

func minutesText(value time.Duration) string {
	return strconv.Itoa(int(value / time.Minute))
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
