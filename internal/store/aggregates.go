package store

import (
	"fmt"
	"time"
)

// SumDuration returns the summed duration of a project's closed sessions
// whose start time falls in [rangeStart, rangeEnd] inclusive.
func (s *Store) SumDuration(projectID int64, rangeStart, rangeEnd time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumDurationLocked(projectID, &rangeStart, &rangeEnd)
}

// ProjectTotal returns the all-time summed duration of a project's closed
// sessions.
func (s *Store) ProjectTotal(projectID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumDurationLocked(projectID, nil, nil)
}

func (s *Store) sumDurationLocked(projectID int64, rangeStart, rangeEnd *time.Time) (int64, error) {
	query := "SELECT COALESCE(SUM(duration), 0) FROM sessions WHERE project_id = ? AND end_time IS NOT NULL"
	params := []any{projectID}
	if rangeStart != nil {
		query += " AND start_time >= ?"
		params = append(params, formatTime(*rangeStart))
	}
	if rangeEnd != nil {
		query += " AND start_time <= ?"
		params = append(params, formatTime(*rangeEnd))
	}

	var total int64
	if err := s.db.QueryRow(query, params...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum durations: %w", err)
	}
	return total, nil
}

// DashboardTotals returns today/week/month/all-time sums for every
// non-archived project. The day, week and month boundaries are computed
// once, at call time, from the caller's local date; week starts on the
// most recent Monday.
func (s *Store) DashboardTotals() ([]DashboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.listProjectsLocked()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dayStart, weekStart, monthStart, dayEnd := localRanges(now)

	rows := make([]DashboardRow, 0, len(projects))
	for _, p := range projects {
		row := DashboardRow{ProjectID: p.ID, ProjectName: p.Name, ProjectColor: p.Color}
		if row.Today, err = s.sumDurationLocked(p.ID, &dayStart, &dayEnd); err != nil {
			return nil, err
		}
		if row.Week, err = s.sumDurationLocked(p.ID, &weekStart, &dayEnd); err != nil {
			return nil, err
		}
		if row.Month, err = s.sumDurationLocked(p.ID, &monthStart, &dayEnd); err != nil {
			return nil, err
		}
		if row.Total, err = s.sumDurationLocked(p.ID, nil, nil); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// localRanges derives the dashboard range boundaries from a local time:
// start of day, most recent Monday 00:00, first of month 00:00, and the
// end of the current day (23:59:59).
func localRanges(now time.Time) (dayStart, weekStart, monthStart, dayEnd time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	dayStart = time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd = time.Date(y, m, d, 23, 59, 59, 0, loc)

	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart = dayStart.AddDate(0, 0, -daysSinceMonday)

	monthStart = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return dayStart, weekStart, monthStart, dayEnd
}
