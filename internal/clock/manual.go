package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Clock for tests and simulations. Time only
// moves when Advance or Set is called; due callbacks run synchronously on
// the calling goroutine.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	entries map[int]*manualEntry
}

type manualEntry struct {
	id       int
	due      time.Time
	interval time.Duration
	tick     func(time.Time)
	once     func()
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{
		now:     start,
		entries: make(map[int]*manualEntry),
	}
}

// Now returns the manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Every registers a repeating callback.
func (clock *Manual) Every(interval time.Duration, fn func(time.Time)) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	return clock.add(&manualEntry{interval: interval, tick: fn}, interval)
}

// AfterFunc registers a one-shot callback.
func (clock *Manual) AfterFunc(delay time.Duration, fn func()) Handle {
	return clock.add(&manualEntry{once: fn}, delay)
}

// Pending returns the number of active subscriptions and scheduled callbacks.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.entries)
}

// Set jumps to an absolute time without firing callbacks.
func (clock *Manual) Set(now time.Time) {
	clock.mu.Lock()
	clock.now = now
	for _, entry := range clock.entries {
		if entry.due.Before(now) {
			entry.due = now
		}
	}
	clock.mu.Unlock()
}

// Advance moves time forward by delta, firing every callback that falls
// due in order of due time.
func (clock *Manual) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		entry := clock.nextDueLocked(target)
		if entry == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = entry.due
		fireAt := entry.due
		if entry.interval > 0 {
			entry.due = entry.due.Add(entry.interval)
		} else {
			delete(clock.entries, entry.id)
		}
		clock.mu.Unlock()

		if entry.tick != nil {
			entry.tick(fireAt)
		} else if entry.once != nil {
			entry.once()
		}
	}
}

func (clock *Manual) add(entry *manualEntry, delay time.Duration) Handle {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.nextID++
	entry.id = clock.nextID
	entry.due = clock.now.Add(delay)
	clock.entries[entry.id] = entry
	return &manualHandle{clock: clock, id: entry.id}
}

func (clock *Manual) nextDueLocked(target time.Time) *manualEntry {
	due := make([]*manualEntry, 0, len(clock.entries))
	for _, entry := range clock.entries {
		if !entry.due.After(target) {
			due = append(due, entry)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

type manualHandle struct {
	clock *Manual
	id    int
}

func (handle *manualHandle) Stop() bool {
	handle.clock.mu.Lock()
	defer handle.clock.mu.Unlock()
	if _, ok := handle.clock.entries[handle.id]; !ok {
		return false
	}
	delete(handle.clock.entries, handle.id)
	return true
}
