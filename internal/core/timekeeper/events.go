package timekeeper

import (
	"fmt"
	"time"

	"focusflow/internal/core/model"
)

// Status is a snapshot of the engine published on every tick and transition.
type Status struct {
	State       model.TimerState
	SessionType model.SessionType
	// TimeLeft and TotalTime are seconds.
	TimeLeft     int
	TotalTime    int
	SessionCount int
}

// Progress returns the elapsed fraction of the current interval in [0, 1].
func (status Status) Progress() float64 {
	if status.TotalTime <= 0 {
		return 1
	}
	progress := float64(status.TotalTime-status.TimeLeft) / float64(status.TotalTime)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Completion describes a finished or skipped interval.
type Completion struct {
	Session model.Session
	Next    model.SessionType
	Message string
	At      time.Time
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func completionMessage(completed, next model.SessionType) string {
	return fmt.Sprintf("%s completed! %s is ready.", completed.DisplayName(), next.DisplayName())
}
