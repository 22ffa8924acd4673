// Package clock supplies wall-clock time, repeating ticks and cancellable
// delayed callbacks to the timer engine.
package clock

import (
	"sync"
	"time"
)

// Handle cancels a tick subscription or a scheduled callback.
type Handle interface {
	// Stop cancels future invocations. It reports whether the handle was
	// still active.
	Stop() bool
}

// Clock is the time source consumed by the engine.
type Clock interface {
	Now() time.Time
	// Every invokes fn roughly once per interval until the handle is stopped.
	Every(interval time.Duration, fn func(time.Time)) Handle
	// AfterFunc invokes fn once after delay unless the handle is stopped first.
	AfterFunc(delay time.Duration, fn func()) Handle
}

// System is a Clock backed by the runtime timers.
type System struct{}

// NewSystem returns the wall clock.
func NewSystem() System {
	return System{}
}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Every starts a ticker goroutine.
func (System) Every(interval time.Duration, fn func(time.Time)) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := &tickerHandle{stopCh: make(chan struct{})}
	go ticker.run(interval, fn)
	return ticker
}

// AfterFunc schedules fn on its own goroutine.
func (System) AfterFunc(delay time.Duration, fn func()) Handle {
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}

type tickerHandle struct {
	once   sync.Once
	stopCh chan struct{}
}

func (handle *tickerHandle) run(interval time.Duration, fn func(time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case tickTime := <-ticker.C:
			select {
			case <-handle.stopCh:
				return
			default:
			}
			fn(tickTime)
		}
	}
}

func (handle *tickerHandle) Stop() bool {
	stopped := false
	handle.once.Do(func() {
		close(handle.stopCh)
		stopped = true
	})
	return stopped
}

type timerHandle struct {
	timer *time.Timer
}

func (handle timerHandle) Stop() bool {
	return handle.timer.Stop()
}
