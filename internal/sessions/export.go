package sessions

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"focusflow/internal/core/model"
)

var csvHeader = []string{"Type", "Date", "Time", "Duration (min)", "Name"}

// ExportCSV serializes sessions with every field quoted and rows separated
// by newlines. Durations are rounded to whole minutes.
func ExportCSV(sessions []model.Session, location *time.Location) string {
	if location == nil {
		location = time.Local
	}
	rows := make([]string, 0, len(sessions)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, session := range sessions {
		startedAt := session.StartedAt.In(location)
		rows = append(rows, csvRow([]string{
			string(session.Type),
			startedAt.Format(time.DateOnly),
			startedAt.Format(time.TimeOnly),
			strconv.Itoa(int(math.Round(float64(session.Duration) / 60))),
			session.Name,
		}))
	}
	return strings.Join(rows, "\n")
}

// ExportFileName returns the suggested download name for an export made at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("focusflow-sessions-%s.csv", now.Format(time.DateOnly))
}

// FormatDuration renders seconds as "Xh Ym" or "Ym".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
