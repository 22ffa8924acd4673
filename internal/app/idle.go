package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focusflow/internal/clock"
	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/platform"
)

// DefaultIdleCheckInterval is how often the idle provider is polled.
const DefaultIdleCheckInterval = 5 * time.Second

// Pauser is the part of the engine the idle monitor drives.
type Pauser interface {
	Status() timekeeper.Status
	Pause()
}

// IdleConfig contains collaborators for IdleMonitor.
type IdleConfig struct {
	Provider      platform.IdleProvider
	Keeper        Pauser
	Clock         clock.Clock
	Notifier      timekeeper.Notifier
	Logger        *slog.Logger
	CheckInterval time.Duration
}

// IdleMonitor pauses a running work session once the user has been idle
// for longer than the threshold.
type IdleMonitor struct {
	config IdleConfig

	mu          sync.Mutex
	enabled     bool
	threshold   time.Duration
	unsupported bool
	handle      clock.Handle
}

// NewIdleMonitor creates a stopped monitor.
func NewIdleMonitor(config IdleConfig) *IdleMonitor {
	if config.Clock == nil {
		config.Clock = clock.NewSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultIdleCheckInterval
	}
	return &IdleMonitor{config: config}
}

// SetThreshold enables or disables the monitor and sets the idle limit.
func (monitor *IdleMonitor) SetThreshold(enabled bool, threshold time.Duration) {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	monitor.enabled = enabled && threshold > 0
	monitor.threshold = threshold
}

// Start begins polling.
func (monitor *IdleMonitor) Start() {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if monitor.handle != nil {
		return
	}
	monitor.handle = monitor.config.Clock.Every(monitor.config.CheckInterval, func(time.Time) {
		monitor.Check()
	})
}

// Stop ends polling.
func (monitor *IdleMonitor) Stop() {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if monitor.handle != nil {
		monitor.handle.Stop()
		monitor.handle = nil
	}
}

// Check runs one idle poll. It reports whether the session was paused.
func (monitor *IdleMonitor) Check() bool {
	monitor.mu.Lock()
	enabled := monitor.enabled && !monitor.unsupported
	threshold := monitor.threshold
	monitor.mu.Unlock()
	if !enabled || monitor.config.Provider == nil {
		return false
	}

	status := monitor.config.Keeper.Status()
	if status.State != model.StateRunning || status.SessionType != model.SessionWork {
		return false
	}

	idleDuration, err := monitor.config.Provider.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			monitor.mu.Lock()
			monitor.unsupported = true
			monitor.mu.Unlock()
			monitor.config.Logger.Warn("idle detection unsupported, idle pause disabled")
			return false
		}
		monitor.config.Logger.Debug("idle check", "error", err)
		return false
	}
	if idleDuration < threshold {
		return false
	}

	monitor.config.Keeper.Pause()
	monitor.config.Logger.Info("paused on idle", "idle", idleDuration.String())
	if monitor.config.Notifier != nil {
		monitor.config.Notifier.Notify(fmt.Sprintf("Work session paused after %d minutes of inactivity.", int(idleDuration/time.Minute)))
	}
	return true
}
