package panel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/ui/panel"
)

func TestSessionLabel(t *testing.T) {
	assert.Equal(t, "Work session (Session 1)", panel.SessionLabel(timekeeper.Status{SessionType: model.SessionWork}))
	assert.Equal(t, "Work session (Session 4)", panel.SessionLabel(timekeeper.Status{SessionType: model.SessionWork, SessionCount: 3}))
	assert.Equal(t, "Long break", panel.SessionLabel(timekeeper.Status{SessionType: model.SessionLongBreak, SessionCount: 4}))
}

func TestControls(t *testing.T) {
	canStart, canPause := panel.Controls(model.StateRunning)
	assert.False(t, canStart)
	assert.True(t, canPause)

	for _, state := range []model.TimerState{model.StateIdle, model.StatePaused} {
		canStart, canPause = panel.Controls(state)
		assert.True(t, canStart, state)
		assert.False(t, canPause, state)
	}
}

func TestStartLabel(t *testing.T) {
	assert.Equal(t, "Resume", panel.StartLabel(model.StatePaused))
	assert.Equal(t, "Start", panel.StartLabel(model.StateIdle))
}
