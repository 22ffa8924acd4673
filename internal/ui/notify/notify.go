// Package notify delivers completion messages to the desktop and to the
// in-app banner.
package notify

import (
	"sync"

	"fyne.io/fyne/v2"
)

// Sink implements the engine notifier on top of a fyne app.
type Sink struct {
	app fyne.App

	mu     sync.Mutex
	banner func(message string)
}

// New creates a sink that sends system notifications through app.
func New(app fyne.App) *Sink {
	return &Sink{app: app}
}

// SetBanner sets the in-app banner handler. It runs on the fyne goroutine.
func (sink *Sink) SetBanner(banner func(message string)) {
	sink.mu.Lock()
	sink.banner = banner
	sink.mu.Unlock()
}

// Notify shows message in the in-app banner.
func (sink *Sink) Notify(message string) {
	sink.mu.Lock()
	banner := sink.banner
	sink.mu.Unlock()
	if banner == nil {
		return
	}
	fyne.Do(func() {
		banner(message)
	})
}

// NotifySystem posts a desktop notification.
func (sink *Sink) NotifySystem(title, message string) {
	if sink.app == nil {
		return
	}
	sink.app.SendNotification(fyne.NewNotification(title, message))
}
