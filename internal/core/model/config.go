package model

import "time"

// Default durations used when configuration is missing or invalid.
const (
	DefaultWorkDuration       = 25 * time.Minute
	DefaultShortBreakDuration = 5 * time.Minute
	DefaultLongBreakDuration  = 15 * time.Minute
	DefaultLongBreakInterval  = 4
)

// TimerConfig contains runtime settings for the TimeKeeper state machine.
// Durations are whole seconds.
type TimerConfig struct {
	WorkSeconds       int
	ShortBreakSeconds int
	LongBreakSeconds  int
	LongBreakInterval int

	AutoStartNext       bool
	InAppNotifications  bool
	SystemNotifications bool
}

// DefaultTimerConfig returns the configuration used on first launch.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkSeconds:         int(DefaultWorkDuration / time.Second),
		ShortBreakSeconds:   int(DefaultShortBreakDuration / time.Second),
		LongBreakSeconds:    int(DefaultLongBreakDuration / time.Second),
		LongBreakInterval:   DefaultLongBreakInterval,
		InAppNotifications:  true,
		SystemNotifications: true,
	}
}

// Sanitize replaces every non-positive duration with the matching value
// from lastGood (or the default when lastGood is invalid too) and clamps
// the long-break interval to at least one.
func (config TimerConfig) Sanitize(lastGood TimerConfig) TimerConfig {
	defaults := DefaultTimerConfig()
	config.WorkSeconds = firstPositive(config.WorkSeconds, lastGood.WorkSeconds, defaults.WorkSeconds)
	config.ShortBreakSeconds = firstPositive(config.ShortBreakSeconds, lastGood.ShortBreakSeconds, defaults.ShortBreakSeconds)
	config.LongBreakSeconds = firstPositive(config.LongBreakSeconds, lastGood.LongBreakSeconds, defaults.LongBreakSeconds)
	if config.LongBreakInterval < 1 {
		config.LongBreakInterval = 1
	}
	return config
}

// DurationFor returns the configured length in seconds of the given session type.
func (config TimerConfig) DurationFor(sessionType SessionType) int {
	switch sessionType {
	case SessionShortBreak:
		return config.ShortBreakSeconds
	case SessionLongBreak:
		return config.LongBreakSeconds
	default:
		return config.WorkSeconds
	}
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 1
}
