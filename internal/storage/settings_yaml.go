package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusflow/internal/core/model"
	"gopkg.in/yaml.v3"
)

type yamlSettings struct {
	WorkMinutes         int    `yaml:"work_minutes"`
	ShortBreakMinutes   int    `yaml:"short_break_minutes"`
	LongBreakMinutes    int    `yaml:"long_break_minutes"`
	LongBreakInterval   int    `yaml:"long_break_interval"`
	AutoStartNext       bool   `yaml:"auto_start_next"`
	InAppNotifications  *bool  `yaml:"in_app_notifications,omitempty"`
	SystemNotifications *bool  `yaml:"system_notifications,omitempty"`
	PauseWhenIdle       bool   `yaml:"pause_when_idle"`
	IdlePauseMinutes    int    `yaml:"idle_pause_minutes"`
	LaunchAtLogin       bool   `yaml:"launch_at_login"`
	HistoryBackend      string `yaml:"history_backend"`
}

// LoadSettings reads user preferences from YAML.
// If the settings file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	inApp := settings.InAppNotifications
	system := settings.SystemNotifications
	fileData := yamlSettings{
		WorkMinutes:         int(settings.WorkDuration / time.Minute),
		ShortBreakMinutes:   int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:    int(settings.LongBreakDuration / time.Minute),
		LongBreakInterval:   settings.LongBreakInterval,
		AutoStartNext:       settings.AutoStartNext,
		InAppNotifications:  &inApp,
		SystemNotifications: &system,
		PauseWhenIdle:       settings.PauseWhenIdle,
		IdlePauseMinutes:    int(settings.IdlePauseAfter / time.Minute),
		LaunchAtLogin:       settings.LaunchAtLogin,
		HistoryBackend:      settings.HistoryBackend,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.LongBreakInterval > 0 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseMinutes) * time.Minute
	}
	if fileData.InAppNotifications != nil {
		settings.InAppNotifications = *fileData.InAppNotifications
	}
	if fileData.SystemNotifications != nil {
		settings.SystemNotifications = *fileData.SystemNotifications
	}
	switch fileData.HistoryBackend {
	case model.BackendYAML, model.BackendSQLite:
		settings.HistoryBackend = fileData.HistoryBackend
	}

	settings.AutoStartNext = fileData.AutoStartNext
	settings.PauseWhenIdle = fileData.PauseWhenIdle
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}
