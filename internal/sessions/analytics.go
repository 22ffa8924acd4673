package sessions

import (
	"time"

	"focusflow/internal/clock"
	"focusflow/internal/core/model"
)

// streakHorizonDays bounds the backward streak scan.
const streakHorizonDays = 365

// Stats counts work sessions per calendar period.
type Stats struct {
	Today int
	Week  int
	Month int
	Year  int
	Total int
}

// Source exposes the session log to Analytics.
type Source interface {
	All() []model.Session
}

// Analytics binds the pure computations below to a session source, a
// clock and the time zone used for calendar boundaries.
type Analytics struct {
	source   Source
	clock    clock.Clock
	location *time.Location
}

// NewAnalytics creates an analytics view. A nil location means time.Local.
func NewAnalytics(source Source, clk clock.Clock, location *time.Location) *Analytics {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if location == nil {
		location = time.Local
	}
	return &Analytics{source: source, clock: clk, location: location}
}

// Stats returns work-session counts for today, this week, month and year.
func (analytics *Analytics) Stats() Stats {
	return ComputeStats(analytics.source.All(), analytics.clock.Now(), analytics.location)
}

// RecentSessions returns up to limit sessions, most recent first.
func (analytics *Analytics) RecentSessions(limit int) []model.Session {
	return Recent(analytics.source.All(), limit)
}

// SessionsInRange returns sessions started within [start, end].
func (analytics *Analytics) SessionsInRange(start, end time.Time) []model.Session {
	return InRange(analytics.source.All(), start, end)
}

// TotalTimeSpent returns the summed duration of every session in seconds.
func (analytics *Analytics) TotalTimeSpent() int {
	return TotalSeconds(analytics.source.All())
}

// TotalTimeSpentToday returns the summed duration of today's sessions in seconds.
func (analytics *Analytics) TotalTimeSpentToday() int {
	return TodaySeconds(analytics.source.All(), analytics.clock.Now(), analytics.location)
}

// ProductivityStreak returns the number of consecutive days with work.
func (analytics *Analytics) ProductivityStreak() int {
	return Streak(analytics.source.All(), analytics.clock.Now(), analytics.location)
}

// ExportCSV renders every session as CSV.
func (analytics *Analytics) ExportCSV() string {
	return ExportCSV(analytics.source.All(), analytics.location)
}

// ComputeStats counts work sessions whose start falls in [periodStart, now].
// Weeks start on Sunday.
func ComputeStats(sessions []model.Session, now time.Time, location *time.Location) Stats {
	today := startOfDay(now, location)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, location)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, location)

	var stats Stats
	for _, session := range sessions {
		if session.Type != model.SessionWork {
			continue
		}
		stats.Total++
		if session.StartedAt.After(now) {
			continue
		}
		if !session.StartedAt.Before(today) {
			stats.Today++
		}
		if !session.StartedAt.Before(weekStart) {
			stats.Week++
		}
		if !session.StartedAt.Before(monthStart) {
			stats.Month++
		}
		if !session.StartedAt.Before(yearStart) {
			stats.Year++
		}
	}
	return stats
}

// Recent returns the last limit sessions in reverse order.
func Recent(sessions []model.Session, limit int) []model.Session {
	if limit <= 0 {
		return []model.Session{}
	}
	if limit > len(sessions) {
		limit = len(sessions)
	}
	recent := make([]model.Session, 0, limit)
	for i := len(sessions) - 1; i >= len(sessions)-limit; i-- {
		recent = append(recent, sessions[i])
	}
	return recent
}

// InRange filters sessions by start time, both bounds inclusive.
func InRange(sessions []model.Session, start, end time.Time) []model.Session {
	matched := make([]model.Session, 0)
	for _, session := range sessions {
		if session.StartedAt.Before(start) || session.StartedAt.After(end) {
			continue
		}
		matched = append(matched, session)
	}
	return matched
}

// TotalSeconds sums the duration of every session.
func TotalSeconds(sessions []model.Session) int {
	total := 0
	for _, session := range sessions {
		total += session.Duration
	}
	return total
}

// TodaySeconds sums the duration of sessions started between midnight and now.
func TodaySeconds(sessions []model.Session, now time.Time, location *time.Location) int {
	return TotalSeconds(InRange(sessions, startOfDay(now, location), now))
}

// Streak counts consecutive days, backwards from today, that contain at
// least one work session. An empty today does not break the streak.
func Streak(sessions []model.Session, now time.Time, location *time.Location) int {
	days := make(map[string]struct{})
	for _, session := range sessions {
		if session.Type != model.SessionWork {
			continue
		}
		days[dayKey(session.StartedAt, location)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}

	today := startOfDay(now, location)
	streak := 0
	for offset := 0; offset < streakHorizonDays; offset++ {
		if _, ok := days[dayKey(today.AddDate(0, 0, -offset), location)]; ok {
			streak++
			continue
		}
		if offset > 0 {
			break
		}
	}
	return streak
}

func startOfDay(value time.Time, location *time.Location) time.Time {
	local := value.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

func dayKey(value time.Time, location *time.Location) string {
	return value.In(location).Format(time.DateOnly)
}
