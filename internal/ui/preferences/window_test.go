package preferences

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/core/model"
)

func TestSaveAppliesValidFields(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved *model.Settings
	prefs := New(app, model.DefaultSettings(), nil, Callbacks{
		OnSave: func(settings model.Settings) { saved = &settings },
	})

	prefs.workDur.SetText("50")
	prefs.shortDur.SetText("0")
	prefs.longInterval.SetText("abc")
	prefs.autoStart.SetChecked(true)
	prefs.system.SetChecked(false)
	prefs.backend.SetSelected(model.BackendSQLite)
	prefs.handleSave()

	require.NotNil(t, saved)
	assert.Equal(t, 50*time.Minute, saved.WorkDuration)
	assert.Equal(t, model.DefaultShortBreakDuration, saved.ShortBreakDuration)
	assert.Equal(t, model.DefaultLongBreakInterval, saved.LongBreakInterval)
	assert.True(t, saved.AutoStartNext)
	assert.False(t, saved.SystemNotifications)
	assert.Equal(t, model.BackendSQLite, saved.HistoryBackend)
}

func TestUpdateSettingsFillsForm(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	prefs := New(app, model.DefaultSettings(), nil, Callbacks{})

	settings := model.DefaultSettings()
	settings.LongBreakDuration = 20 * time.Minute
	settings.PauseWhenIdle = true
	prefs.UpdateSettings(settings)

	assert.Equal(t, "20", prefs.longDur.Text)
	assert.True(t, prefs.idleCheck.Checked)
	assert.Equal(t, settings, prefs.Settings())
}

func TestParsePositiveInt(t *testing.T) {
	value, ok := parsePositiveInt("15")
	assert.True(t, ok)
	assert.Equal(t, 15, value)

	for _, input := range []string{"", "0", "-2", "ten"} {
		_, ok := parsePositiveInt(input)
		assert.False(t, ok, input)
	}
}
