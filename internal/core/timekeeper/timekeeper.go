package timekeeper

import (
	"log/slog"
	"sync"
	"time"

	"focusflow/internal/clock"
	"focusflow/internal/core/model"
)

// NotificationTitle is the title used for system notifications.
const NotificationTitle = "focusflow"

// DefaultAutoStartDelay is the pause between a completion and the automatic
// start of the next interval.
const DefaultAutoStartDelay = 2 * time.Second

// Recorder stores completed sessions.
type Recorder interface {
	Append(session model.Session) error
}

// Notifier delivers completion messages. Both calls are fire-and-forget.
type Notifier interface {
	Notify(message string)
	NotifySystem(title, message string)
}

// Options contains runtime collaborators for TimeKeeper.
type Options struct {
	Clock          clock.Clock
	Recorder       Recorder
	Notifier       Notifier
	Logger         *slog.Logger
	TickInterval   time.Duration
	AutoStartDelay time.Duration
}

type statusListener struct {
	id int
	fn func(Status)
}

type completionListener struct {
	id int
	fn func(Completion)
}

// TimeKeeper is the work/break state machine.
//
// opMu serializes operations so listeners observe updates in emission
// order; mu guards the state so Status stays readable from a listener.
// Listeners must not call mutating methods synchronously.
type TimeKeeper struct {
	opMu sync.Mutex

	mu               sync.Mutex
	config           model.TimerConfig
	options          Options
	state            model.TimerState
	sessionType      model.SessionType
	timeLeft         int
	totalTime        int
	sessionCount     int
	sessionStartedAt time.Time

	tick         clock.Handle
	tickGen      uint64
	autoStart    clock.Handle
	autoStartGen uint64
	closed       bool

	nextListenerID int
	listeners      []statusListener
	completions    []completionListener
	events         []chan Status
}

// New creates a TimeKeeper in the Idle/Work state.
func New(config model.TimerConfig, options Options) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = clock.NewSystem()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.AutoStartDelay <= 0 {
		options.AutoStartDelay = DefaultAutoStartDelay
	}

	keeper := &TimeKeeper{
		config:      config.Sanitize(model.DefaultTimerConfig()),
		options:     options,
		state:       model.StateIdle,
		sessionType: model.SessionWork,
	}
	keeper.resetIntervalLocked()
	return keeper
}

// OnStatus registers a synchronous status observer and returns its remover.
func (keeper *TimeKeeper) OnStatus(fn func(Status)) func() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.nextListenerID++
	id := keeper.nextListenerID
	keeper.listeners = append(keeper.listeners, statusListener{id: id, fn: fn})
	return func() {
		keeper.mu.Lock()
		defer keeper.mu.Unlock()
		for i, listener := range keeper.listeners {
			if listener.id == id {
				keeper.listeners = append(keeper.listeners[:i:i], keeper.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnComplete registers a completion observer and returns its remover.
func (keeper *TimeKeeper) OnComplete(fn func(Completion)) func() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.nextListenerID++
	id := keeper.nextListenerID
	keeper.completions = append(keeper.completions, completionListener{id: id, fn: fn})
	return func() {
		keeper.mu.Lock()
		defer keeper.mu.Unlock()
		for i, listener := range keeper.completions {
			if listener.id == id {
				keeper.completions = append(keeper.completions[:i:i], keeper.completions[i+1:]...)
				return
			}
		}
	}
}

// Subscribe registers a new observer channel. Sends never block: a full
// channel drops the update. Channels are closed by Cleanup.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Status {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Status, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// Status returns the current snapshot.
func (keeper *TimeKeeper) Status() Status {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.statusLocked()
}

// Config returns the active configuration.
func (keeper *TimeKeeper) Config() model.TimerConfig {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.config
}

// Start begins or resumes the countdown. Every start, including a resume,
// stamps the interval's start time.
func (keeper *TimeKeeper) Start() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()
	keeper.start()
}

// Pause freezes the countdown. A pending auto-start is cancelled too.
func (keeper *TimeKeeper) Pause() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	keeper.cancelAutoStartLocked()
	if keeper.state != model.StateRunning {
		keeper.mu.Unlock()
		return
	}
	keeper.stopTickLocked()
	keeper.state = model.StatePaused
	status := keeper.statusLocked()
	keeper.mu.Unlock()

	keeper.options.Logger.Debug("timer paused", "session_type", status.SessionType, "time_left", status.TimeLeft)
	keeper.publish(status)
}

// Reset returns to an idle work interval. The work session count is kept.
func (keeper *TimeKeeper) Reset() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	keeper.cancelAutoStartLocked()
	keeper.stopTickLocked()
	keeper.state = model.StateIdle
	keeper.sessionType = model.SessionWork
	keeper.resetIntervalLocked()
	status := keeper.statusLocked()
	keeper.mu.Unlock()

	keeper.options.Logger.Debug("timer reset", "session_count", status.SessionCount)
	keeper.publish(status)
}

// Skip completes the current interval immediately. It does nothing after
// Cleanup.
func (keeper *TimeKeeper) Skip() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	closed := keeper.closed
	keeper.mu.Unlock()
	if closed {
		return
	}
	keeper.complete()
}

// UpdateConfig replaces the configuration. Invalid values fall back to the
// previous configuration. New durations apply from the next interval; an
// idle interval that has not elapsed at all is refreshed immediately.
func (keeper *TimeKeeper) UpdateConfig(config model.TimerConfig) {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	keeper.config = config.Sanitize(keeper.config)
	if keeper.state != model.StateIdle || keeper.timeLeft != keeper.totalTime {
		keeper.mu.Unlock()
		return
	}
	keeper.resetIntervalLocked()
	status := keeper.statusLocked()
	keeper.mu.Unlock()

	keeper.publish(status)
}

// Cleanup stops the clock subscription and any pending auto-start, and
// closes subscriber channels. It is safe to call more than once.
func (keeper *TimeKeeper) Cleanup() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.cancelAutoStartLocked()
	if keeper.state == model.StateRunning {
		keeper.stopTickLocked()
		keeper.state = model.StatePaused
	}
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) start() {
	keeper.mu.Lock()
	keeper.cancelAutoStartLocked()
	if keeper.closed || keeper.state == model.StateRunning {
		keeper.mu.Unlock()
		return
	}
	keeper.sessionStartedAt = keeper.options.Clock.Now()
	keeper.state = model.StateRunning
	keeper.tickGen++
	generation := keeper.tickGen
	keeper.tick = keeper.options.Clock.Every(keeper.options.TickInterval, func(time.Time) {
		keeper.onTick(generation)
	})
	status := keeper.statusLocked()
	keeper.mu.Unlock()

	keeper.options.Logger.Debug("timer started", "session_type", status.SessionType, "time_left", status.TimeLeft)
	keeper.publish(status)
}

func (keeper *TimeKeeper) onTick(generation uint64) {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if keeper.closed || keeper.state != model.StateRunning || generation != keeper.tickGen {
		keeper.mu.Unlock()
		return
	}
	if keeper.timeLeft > 0 {
		keeper.timeLeft--
	}
	exhausted := keeper.timeLeft <= 0
	keeper.mu.Unlock()

	if exhausted {
		keeper.complete()
	}
	keeper.publish(keeper.Status())
}

func (keeper *TimeKeeper) onAutoStart(generation uint64) {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if generation != keeper.autoStartGen || keeper.autoStart == nil {
		keeper.mu.Unlock()
		return
	}
	keeper.autoStart = nil
	keeper.mu.Unlock()

	keeper.start()
}

// complete runs the session-completion protocol. Callers hold opMu.
func (keeper *TimeKeeper) complete() {
	keeper.mu.Lock()
	keeper.cancelAutoStartLocked()
	keeper.stopTickLocked()

	now := keeper.options.Clock.Now()
	startedAt := keeper.sessionStartedAt
	if startedAt.IsZero() {
		startedAt = now
	}
	completedType := keeper.sessionType
	session := model.NewSession(completedType, startedAt, keeper.totalTime-keeper.timeLeft)

	keeper.sessionType = keeper.nextSessionTypeLocked()
	keeper.state = model.StateIdle
	keeper.resetIntervalLocked()

	completion := Completion{
		Session: session,
		Next:    keeper.sessionType,
		Message: completionMessage(completedType, keeper.sessionType),
		At:      now,
	}
	config := keeper.config
	if config.AutoStartNext && !keeper.closed {
		keeper.autoStartGen++
		generation := keeper.autoStartGen
		keeper.autoStart = keeper.options.Clock.AfterFunc(keeper.options.AutoStartDelay, func() {
			keeper.onAutoStart(generation)
		})
	}
	completions := make([]completionListener, len(keeper.completions))
	copy(completions, keeper.completions)
	status := keeper.statusLocked()
	keeper.mu.Unlock()

	keeper.options.Logger.Info("session completed",
		"session_type", session.Type,
		"duration_seconds", session.Duration,
		"next", completion.Next,
		"session_count", status.SessionCount,
	)

	if keeper.options.Recorder != nil {
		if err := keeper.options.Recorder.Append(session); err != nil {
			keeper.options.Logger.Error("record session", "error", err)
		}
	}
	keeper.notify(config, completion.Message)
	for _, listener := range completions {
		listener.fn(completion)
	}
	keeper.publish(status)
}

func (keeper *TimeKeeper) notify(config model.TimerConfig, message string) {
	notifier := keeper.options.Notifier
	if notifier == nil {
		return
	}
	if config.InAppNotifications {
		notifier.Notify(message)
	}
	if config.SystemNotifications {
		notifier.NotifySystem(NotificationTitle, message)
	}
}

func (keeper *TimeKeeper) nextSessionTypeLocked() model.SessionType {
	if keeper.sessionType != model.SessionWork {
		return model.SessionWork
	}
	keeper.sessionCount++
	interval := keeper.config.LongBreakInterval
	if interval < 1 {
		interval = 1
	}
	if keeper.sessionCount%interval == 0 {
		return model.SessionLongBreak
	}
	return model.SessionShortBreak
}

func (keeper *TimeKeeper) resetIntervalLocked() {
	keeper.totalTime = keeper.config.DurationFor(keeper.sessionType)
	keeper.timeLeft = keeper.totalTime
	keeper.sessionStartedAt = time.Time{}
}

func (keeper *TimeKeeper) stopTickLocked() {
	if keeper.tick != nil {
		keeper.tick.Stop()
		keeper.tick = nil
	}
	keeper.tickGen++
}

func (keeper *TimeKeeper) cancelAutoStartLocked() {
	if keeper.autoStart != nil {
		keeper.autoStart.Stop()
		keeper.autoStart = nil
	}
	keeper.autoStartGen++
}

func (keeper *TimeKeeper) statusLocked() Status {
	return Status{
		State:        keeper.state,
		SessionType:  keeper.sessionType,
		TimeLeft:     keeper.timeLeft,
		TotalTime:    keeper.totalTime,
		SessionCount: keeper.sessionCount,
	}
}

// publish delivers status to observers in registration order. Callers hold opMu.
func (keeper *TimeKeeper) publish(status Status) {
	keeper.mu.Lock()
	listeners := make([]statusListener, len(keeper.listeners))
	copy(listeners, keeper.listeners)
	events := append([]chan Status(nil), keeper.events...)
	keeper.mu.Unlock()

	for _, listener := range listeners {
		listener.fn(status)
	}
	for _, ch := range events {
		select {
		case ch <- status:
		default:
		}
	}
}
