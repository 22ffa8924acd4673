package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/core/model"
)

func TestSanitizeFallsBackToLastGood(t *testing.T) {
	lastGood := model.TimerConfig{WorkSeconds: 600, ShortBreakSeconds: 120, LongBreakSeconds: 900, LongBreakInterval: 3}
	config := model.TimerConfig{WorkSeconds: 0, ShortBreakSeconds: -5, LongBreakSeconds: 300, LongBreakInterval: 0}

	got := config.Sanitize(lastGood)

	assert.Equal(t, 600, got.WorkSeconds)
	assert.Equal(t, 120, got.ShortBreakSeconds)
	assert.Equal(t, 300, got.LongBreakSeconds)
	assert.Equal(t, 1, got.LongBreakInterval)
}

func TestSanitizeUsesDefaultsWhenLastGoodInvalid(t *testing.T) {
	got := model.TimerConfig{}.Sanitize(model.TimerConfig{})
	defaults := model.DefaultTimerConfig()

	assert.Equal(t, defaults.WorkSeconds, got.WorkSeconds)
	assert.Equal(t, defaults.ShortBreakSeconds, got.ShortBreakSeconds)
	assert.Equal(t, defaults.LongBreakSeconds, got.LongBreakSeconds)
}

func TestDurationFor(t *testing.T) {
	config := model.DefaultTimerConfig()

	assert.Equal(t, 1500, config.DurationFor(model.SessionWork))
	assert.Equal(t, 300, config.DurationFor(model.SessionShortBreak))
	assert.Equal(t, 900, config.DurationFor(model.SessionLongBreak))
}

func TestSettingsTimerConfig(t *testing.T) {
	settings := model.DefaultSettings()
	settings.WorkDuration = 50 * time.Minute
	settings.AutoStartNext = true

	config := settings.TimerConfig()

	assert.Equal(t, 3000, config.WorkSeconds)
	assert.Equal(t, 4, config.LongBreakInterval)
	assert.True(t, config.AutoStartNext)
	assert.True(t, config.InAppNotifications)
}

func TestParseSessionType(t *testing.T) {
	sessionType, err := model.ParseSessionType("long-break")
	require.NoError(t, err)
	assert.Equal(t, model.SessionLongBreak, sessionType)
	assert.True(t, sessionType.IsBreak())

	_, err = model.ParseSessionType("nap")
	assert.Error(t, err)
}

func TestNewSessionClampsNegativeDuration(t *testing.T) {
	session := model.NewSession(model.SessionWork, time.Unix(0, 0), -4)
	assert.Equal(t, 0, session.Duration)
	assert.Equal(t, "Work session", session.Type.DisplayName())
}
