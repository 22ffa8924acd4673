package tray_test

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/ui/tray"
	"focusflow/resources"
)

type fakeDesktop struct {
	menu  *fyne.Menu
	icons []fyne.Resource
}

func (desktop *fakeDesktop) SetSystemTrayMenu(menu *fyne.Menu) { desktop.menu = menu }

func (desktop *fakeDesktop) SetSystemTrayIcon(icon fyne.Resource) {
	desktop.icons = append(desktop.icons, icon)
}

func (desktop *fakeDesktop) SetSystemTrayWindow(fyne.Window) {}

func (desktop *fakeDesktop) item(label string) *fyne.MenuItem {
	for _, item := range desktop.menu.Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Ready", tray.StatusText(timekeeper.Status{State: model.StateIdle, TimeLeft: 1500}))
	assert.Equal(t, "▶ 24:59", tray.StatusText(timekeeper.Status{State: model.StateRunning, TimeLeft: 1499}))
	assert.Equal(t, "⏸ 03:05", tray.StatusText(timekeeper.Status{State: model.StatePaused, TimeLeft: 185}))
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, resources.AppIcon, tray.IconFor(timekeeper.Status{State: model.StateIdle}))
	assert.Equal(t, resources.RunningIcon, tray.IconFor(timekeeper.Status{State: model.StateRunning, SessionType: model.SessionWork}))
	assert.Equal(t, resources.BreakIcon, tray.IconFor(timekeeper.Status{State: model.StateRunning, SessionType: model.SessionShortBreak}))
	assert.Equal(t, resources.PausedIcon, tray.IconFor(timekeeper.Status{State: model.StatePaused}))
}

func TestManagerMenuFollowsStatus(t *testing.T) {
	desktop := &fakeDesktop{}
	started := 0
	manager := tray.New(desktop, tray.Callbacks{OnStart: func() { started++ }})

	require.NotNil(t, desktop.menu)
	assert.Equal(t, "Ready", desktop.menu.Items[0].Label)
	desktop.item("Start").Action()
	assert.Equal(t, 1, started)

	manager.SetStatus(timekeeper.Status{State: model.StateRunning, SessionType: model.SessionWork, TimeLeft: 60})
	assert.Equal(t, "▶ 01:00", desktop.menu.Items[0].Label)
	assert.True(t, desktop.item("Start").Disabled)
	assert.False(t, desktop.item("Pause").Disabled)

	manager.SetStatus(timekeeper.Status{State: model.StatePaused, SessionType: model.SessionWork, TimeLeft: 59})
	require.NotNil(t, desktop.item("Resume"))
	assert.False(t, desktop.item("Resume").Disabled)
	assert.True(t, desktop.item("Pause").Disabled)
	assert.Len(t, desktop.icons, 3)
}
