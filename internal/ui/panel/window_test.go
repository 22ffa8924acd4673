package panel_test

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"focusflow/internal/clock"
	"focusflow/internal/core/model"
	"focusflow/internal/core/timekeeper"
	"focusflow/internal/sessions"
	"focusflow/internal/ui/panel"
)

type fixedSource []model.Session

func (source fixedSource) All() []model.Session { return source }

func TestPanelRendersStatusAndStats(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	analytics := sessions.NewAnalytics(fixedSource{
		model.NewSession(model.SessionWork, now.Add(-time.Hour), 1500),
	}, clock.NewManual(now), time.UTC)

	window := panel.New(app, analytics, panel.Callbacks{})
	window.Show()
	window.SetStatus(timekeeper.Status{State: model.StateIdle, SessionType: model.SessionWork, TimeLeft: 1500, TotalTime: 1500})

	assert.NotPanics(t, func() {
		window.SetStatus(timekeeper.Status{State: model.StateRunning, SessionType: model.SessionShortBreak, TimeLeft: 30, TotalTime: 300})
		window.ShowBanner("Work session completed! Short break is ready.")
		window.RefreshStats()
	})
}
