package panel

import (
	"fmt"

	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
)

// SessionLabel names the current interval. Work intervals carry the
// number they will have once completed.
func SessionLabel(status timekeeper.Status) string {
	label := status.SessionType.DisplayName()
	if status.SessionType == model.SessionWork {
		label = fmt.Sprintf("%s (Session %d)", label, status.SessionCount+1)
	}
	return label
}

// Controls reports which of Start and Pause are usable in state.
func Controls(state model.TimerState) (canStart, canPause bool) {
	switch state {
	case model.StateRunning:
		return false, true
	default:
		return true, false
	}
}

// StartLabel is "Resume" for a paused interval and "Start" otherwise.
func StartLabel(state model.TimerState) string {
	if state == model.StatePaused {
		return "Resume"
	}
	return "Start"
}
