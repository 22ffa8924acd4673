package model

import (
	"fmt"
	"time"
)

// SessionType identifies the kind of interval.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short-break"
	SessionLongBreak  SessionType = "long-break"
)

// ParseSessionType converts a stored value into a SessionType.
func ParseSessionType(value string) (SessionType, error) {
	switch SessionType(value) {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return SessionType(value), nil
	default:
		return "", fmt.Errorf("unknown session type %q", value)
	}
}

// DisplayName returns the human readable label.
func (sessionType SessionType) DisplayName() string {
	switch sessionType {
	case SessionWork:
		return "Work session"
	case SessionShortBreak:
		return "Short break"
	case SessionLongBreak:
		return "Long break"
	default:
		return "Session"
	}
}

// IsBreak reports whether the type is a short or long break.
func (sessionType SessionType) IsBreak() bool {
	return sessionType == SessionShortBreak || sessionType == SessionLongBreak
}

// TimerState represents whether the countdown advances.
type TimerState string

const (
	StateIdle    TimerState = "idle"
	StateRunning TimerState = "running"
	StatePaused  TimerState = "paused"
)

// Session is one completed or skipped interval.
type Session struct {
	Type      SessionType
	StartedAt time.Time
	// Duration is the elapsed time in seconds.
	Duration int
	Name     string
}

// NewSession builds a session record, clamping negative durations to zero.
func NewSession(sessionType SessionType, startedAt time.Time, durationSeconds int) Session {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return Session{
		Type:      sessionType,
		StartedAt: startedAt,
		Duration:  durationSeconds,
	}
}
