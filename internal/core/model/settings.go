package model

import "time"

// History backends supported by the storage layer.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakInterval  int

	AutoStartNext       bool
	InAppNotifications  bool
	SystemNotifications bool

	PauseWhenIdle  bool
	IdlePauseAfter time.Duration
	LaunchAtLogin  bool

	HistoryBackend string
}

// DefaultSettings returns default settings for focusflow.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:        DefaultWorkDuration,
		ShortBreakDuration:  DefaultShortBreakDuration,
		LongBreakDuration:   DefaultLongBreakDuration,
		LongBreakInterval:   DefaultLongBreakInterval,
		AutoStartNext:       false,
		InAppNotifications:  true,
		SystemNotifications: true,
		PauseWhenIdle:       false,
		IdlePauseAfter:      5 * time.Minute,
		LaunchAtLogin:       false,
		HistoryBackend:      BackendYAML,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() TimerConfig {
	return TimerConfig{
		WorkSeconds:         int(settings.WorkDuration / time.Second),
		ShortBreakSeconds:   int(settings.ShortBreakDuration / time.Second),
		LongBreakSeconds:    int(settings.LongBreakDuration / time.Second),
		LongBreakInterval:   settings.LongBreakInterval,
		AutoStartNext:       settings.AutoStartNext,
		InAppNotifications:  settings.InAppNotifications,
		SystemNotifications: settings.SystemNotifications,
	}
}
