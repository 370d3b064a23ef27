package tracker

import (
	"time"

	"git.home.luguber.info/inful/timetracker/internal/store"
)

// ExportRow is one closed session shaped for CSV serialization.
type ExportRow struct {
	SessionID       int64
	Project         string
	StartTime       string
	EndTime         string
	DurationSeconds int64
	DurationHMS     string
	Note            string
}

// ProjectTotal returns the project's all-time tracked seconds. While a
// session on the project is running, its live elapsed time is added in, so
// callers see the eventual total without partial durations ever being
// written to the store.
func (t *Tracker) ProjectTotal(projectID int64) (int64, error) {
	total, err := t.store.ProjectTotal(projectID)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	if t.state == StateRunning && t.projectID == projectID {
		total += t.elapsedLocked()
	}
	t.mu.Unlock()
	return total, nil
}

// Dashboard returns per-project today/week/month/all-time totals with the
// running session's elapsed time added to its project. The active session
// started within today, so all four buckets receive the same increment.
func (t *Tracker) Dashboard() ([]store.DashboardRow, error) {
	rows, err := t.store.DashboardTotals()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	if t.state == StateRunning {
		live := t.elapsedLocked()
		for i := range rows {
			if rows[i].ProjectID == t.projectID {
				rows[i].Today += live
				rows[i].Week += live
				rows[i].Month += live
				rows[i].Total += live
			}
		}
	}
	t.mu.Unlock()
	return rows, nil
}

// History returns closed sessions matching the filter, newest first. The
// in-progress session never appears in history.
func (t *Tracker) History(filter store.SessionFilter) ([]store.Session, error) {
	return t.store.GetSessions(filter)
}

// ExportRows returns the filtered history shaped for CSV export.
func (t *Tracker) ExportRows(filter store.SessionFilter) ([]ExportRow, error) {
	sessions, err := t.store.GetSessions(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(sessions))
	for _, s := range sessions {
		row := ExportRow{
			SessionID:       s.ID,
			Project:         s.ProjectName,
			StartTime:       s.StartTime.Format(time.RFC3339),
			DurationSeconds: s.Duration,
			DurationHMS:     FormatSeconds(s.Duration),
			Note:            s.Note,
		}
		if s.EndTime != nil {
			row.EndTime = s.EndTime.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
