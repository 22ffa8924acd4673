package app_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/app"
	"focusflow/internal/clock"
	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/platform"
)

type fakeIdle struct {
	mu    sync.Mutex
	idle  time.Duration
	err   error
	calls int
}

func (provider *fakeIdle) IdleDuration() (time.Duration, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	provider.calls++
	return provider.idle, provider.err
}

type recordingNotifier struct {
	messages []string
}

func (notifier *recordingNotifier) Notify(message string) {
	notifier.messages = append(notifier.messages, message)
}

func (notifier *recordingNotifier) NotifySystem(string, string) {}

func newIdleFixture(t *testing.T, provider *fakeIdle) (*app.IdleMonitor, *timekeeper.TimeKeeper, *clock.Manual, *recordingNotifier) {
	t.Helper()
	manual := clock.NewManual(epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keeper := timekeeper.New(model.DefaultTimerConfig(), timekeeper.Options{Clock: manual, Logger: logger})
	t.Cleanup(keeper.Cleanup)
	notifier := &recordingNotifier{}
	monitor := app.NewIdleMonitor(app.IdleConfig{
		Provider: provider,
		Keeper:   keeper,
		Clock:    manual,
		Notifier: notifier,
		Logger:   logger,
	})
	t.Cleanup(monitor.Stop)
	return monitor, keeper, manual, notifier
}

func TestIdleMonitorPausesWorkSession(t *testing.T) {
	provider := &fakeIdle{idle: 6 * time.Minute}
	monitor, keeper, manual, notifier := newIdleFixture(t, provider)
	monitor.SetThreshold(true, 5*time.Minute)
	monitor.Start()

	keeper.Start()
	manual.Advance(app.DefaultIdleCheckInterval)

	assert.Equal(t, model.StatePaused, keeper.Status().State)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "6 minutes")
}

func TestIdleMonitorBelowThreshold(t *testing.T) {
	provider := &fakeIdle{idle: time.Minute}
	monitor, keeper, _, _ := newIdleFixture(t, provider)
	monitor.SetThreshold(true, 5*time.Minute)

	keeper.Start()

	assert.False(t, monitor.Check())
	assert.Equal(t, model.StateRunning, keeper.Status().State)
}

func TestIdleMonitorDisabled(t *testing.T) {
	provider := &fakeIdle{idle: time.Hour}
	monitor, keeper, _, _ := newIdleFixture(t, provider)
	monitor.SetThreshold(false, 5*time.Minute)

	keeper.Start()

	assert.False(t, monitor.Check())
	assert.Equal(t, 0, provider.calls)
}

func TestIdleMonitorIgnoresBreaksAndIdleTimer(t *testing.T) {
	provider := &fakeIdle{idle: time.Hour}
	monitor, keeper, _, _ := newIdleFixture(t, provider)
	monitor.SetThreshold(true, time.Minute)

	assert.False(t, monitor.Check())

	keeper.Skip()
	keeper.Start()
	assert.False(t, monitor.Check())
	assert.Equal(t, model.StateRunning, keeper.Status().State)
	assert.Equal(t, 0, provider.calls)
}

func TestIdleMonitorStopsPollingWhenUnsupported(t *testing.T) {
	provider := &fakeIdle{err: platform.ErrIdleUnsupported}
	monitor, keeper, _, _ := newIdleFixture(t, provider)
	monitor.SetThreshold(true, time.Minute)
	keeper.Start()

	assert.False(t, monitor.Check())
	assert.False(t, monitor.Check())
	assert.Equal(t, 1, provider.calls)
}

func TestIdleMonitorTransientErrorKeepsPolling(t *testing.T) {
	provider := &fakeIdle{err: errors.New("xprintidle: exit status 1")}
	monitor, keeper, _, _ := newIdleFixture(t, provider)
	monitor.SetThreshold(true, time.Minute)
	keeper.Start()

	assert.False(t, monitor.Check())
	assert.False(t, monitor.Check())
	assert.Equal(t, 2, provider.calls)
}
