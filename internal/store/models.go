// Package store provides durable SQLite persistence for projects, timer
// sessions and the active-session pointer.
package store

import "time"

// Project is a named bucket that tracked time is charged against.
type Project struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
	Archived  bool
}

// Session is one contiguous interval of tracked time against a project.
// EndTime is nil while the session is in progress; Duration is written
// exactly once when the session closes and never recomputed.
type Session struct {
	ID           int64
	ProjectID    int64
	ProjectName  string
	ProjectColor string
	StartTime    time.Time
	EndTime      *time.Time
	Duration     int64 // seconds
	Note         string
}

// SessionFilter narrows GetSessions results. Date bounds are inclusive and
// compared against the session start time.
type SessionFilter struct {
	ProjectID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
}

// DashboardRow aggregates one project's closed-session seconds into the
// today / this-week / this-month / all-time buckets.
type DashboardRow struct {
	ProjectID    int64
	ProjectName  string
	ProjectColor string
	Today        int64
	Week         int64
	Month        int64
	Total        int64
}

// App-state keys persisting the active-session pointer across restarts.
const (
	stateActiveSessionID = "active_session_id"
	stateActiveProjectID = "active_project_id"
)
