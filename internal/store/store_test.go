package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	trkerrors "git.home.luguber.info/inful/timetracker/internal/errors"
)

// testEpoch is a Wednesday, 10:00 local time.
var testEpoch = time.Date(2024, 3, 13, 10, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) (*Store, *clockwork.FakeClock) {
	return newTestStoreAt(t, testEpoch)
}

func newTestStoreAt(t *testing.T, at time.Time) (*Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(at)

	s, err := OpenWithClock(":memory:", clock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func openSessionCount(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE end_time IS NULL").Scan(&n))
	return n
}

func TestInitializeIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.CreateProject("Writing", "")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	projects, err := s2.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Writing", projects[0].Name)
}

func TestCreateProject(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.CreateProject("  Writing  ", "#FF0000")
	require.NoError(t, err)
	require.Positive(t, id)

	p, err := s.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "Writing", p.Name, "name should be trimmed")
	require.Equal(t, "#FF0000", p.Color)
	require.False(t, p.Archived)
	require.Equal(t, testEpoch.UTC().Truncate(time.Second), p.CreatedAt)
}

func TestCreateProjectEmptyName(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateProject("   ", "")
	require.Error(t, err)
	require.True(t, trkerrors.IsCategory(err, trkerrors.CategoryValidation))
}

func TestCreateProjectDuplicateName(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	_, err = s.CreateProject("Writing", "#00FF00")
	require.True(t, trkerrors.IsConstraintViolation(err))

	// Trimming applies before the uniqueness check.
	_, err = s.CreateProject(" Writing ", "")
	require.True(t, trkerrors.IsConstraintViolation(err))
}

func TestCreateProjectDuplicateOfArchived(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	require.NoError(t, s.ArchiveProject(id))

	_, err = s.CreateProject("Writing", "")
	require.True(t, trkerrors.IsConstraintViolation(err), "uniqueness is table-wide, archived included")
}

func TestListProjectsOrderAndArchiveFilter(t *testing.T) {
	s, _ := newTestStore(t)

	bID, err := s.CreateProject("Beta", "")
	require.NoError(t, err)
	_, err = s.CreateProject("Alpha", "")
	require.NoError(t, err)
	_, err = s.CreateProject("Gamma", "")
	require.NoError(t, err)

	require.NoError(t, s.ArchiveProject(bID))

	projects, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "Alpha", projects[0].Name)
	require.Equal(t, "Gamma", projects[1].Name)
}

func TestRenameProject(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	_, err = s.CreateProject("Reading", "")
	require.NoError(t, err)

	require.NoError(t, s.RenameProject(id, "  Essays "))
	p, err := s.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "Essays", p.Name)

	err = s.RenameProject(id, "Reading")
	require.True(t, trkerrors.IsConstraintViolation(err))

	err = s.RenameProject(9999, "Anything")
	require.True(t, trkerrors.IsNotFound(err))
}

func TestSetProjectColor(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	require.NoError(t, s.SetProjectColor(id, "#123456"))
	p, err := s.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "#123456", p.Color)

	err = s.SetProjectColor(9999, "#000000")
	require.True(t, trkerrors.IsNotFound(err))
}

func TestArchiveProjectNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, trkerrors.IsNotFound(s.ArchiveProject(12)))
}

func TestGetProjectNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetProject(7)
	require.True(t, trkerrors.IsNotFound(err))
}

func TestStartSessionRecordsActivePointer(t *testing.T) {
	s, _ := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	require.Positive(t, sid)

	active, err := s.GetActiveSession()
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, sid, active.ID)
	require.Equal(t, pid, active.ProjectID)
	require.Equal(t, "Writing", active.ProjectName)
	require.Nil(t, active.EndTime)
	require.Equal(t, 1, openSessionCount(t, s))
}

func TestStopSessionComputesDurationAndClearsPointer(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	sid, err := s.StartSession(pid)
	require.NoError(t, err)

	clock.Advance(90 * time.Second)

	duration, err := s.StopSession(sid, "")
	require.NoError(t, err)
	require.Equal(t, int64(90), duration)

	active, err := s.GetActiveSession()
	require.NoError(t, err)
	require.Nil(t, active)
	require.Equal(t, 0, openSessionCount(t, s))

	sessions, err := s.GetSessions(SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, int64(90), sessions[0].Duration)
	require.NotNil(t, sessions[0].EndTime)
}

func TestStopSessionStoresNote(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	_, err = s.StopSession(sid, "first draft")
	require.NoError(t, err)

	sessions, err := s.GetSessions(SessionFilter{})
	require.NoError(t, err)
	require.Equal(t, "first draft", sessions[0].Note)
}

func TestStopSessionMissingOrClosed(t *testing.T) {
	s, clock := newTestStore(t)

	duration, err := s.StopSession(42, "")
	require.NoError(t, err)
	require.Zero(t, duration)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = s.StopSession(sid, "")
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	duration, err = s.StopSession(sid, "")
	require.NoError(t, err)
	require.Zero(t, duration, "stopping a closed session must not mutate it")

	sessions, err := s.GetSessions(SessionFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(30), sessions[0].Duration)
}

func TestDiscardSessionForcesZeroDuration(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)

	require.NoError(t, s.DiscardSession(sid))

	active, err := s.GetActiveSession()
	require.NoError(t, err)
	require.Nil(t, active)

	sessions, err := s.GetSessions(SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Zero(t, sessions[0].Duration)
}

func TestSingleOpenSessionInvariant(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sid, err := s.StartSession(pid)
		require.NoError(t, err)
		require.Equal(t, 1, openSessionCount(t, s))
		clock.Advance(time.Second)
		_, err = s.StopSession(sid, "")
		require.NoError(t, err)
		require.Equal(t, 0, openSessionCount(t, s))
	}
}

func TestGetActiveSessionStalePointer(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)
	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = s.StopSession(sid, "")
	require.NoError(t, err)

	// Simulate a stale pointer left behind by a partial failure.
	_, err = s.db.Exec("INSERT OR REPLACE INTO app_state (key, value) VALUES (?, ?)",
		stateActiveSessionID, sid)
	require.NoError(t, err)

	active, err := s.GetActiveSession()
	require.NoError(t, err)
	require.Nil(t, active, "a closed session must never be reported as active")
}

func TestGetSessionsFilter(t *testing.T) {
	s, clock := newTestStore(t)

	pidA, err := s.CreateProject("Alpha", "")
	require.NoError(t, err)
	pidB, err := s.CreateProject("Beta", "")
	require.NoError(t, err)

	// Three closed sessions a day apart, then one left running.
	for _, pid := range []int64{pidA, pidB, pidA} {
		sid, err := s.StartSession(pid)
		require.NoError(t, err)
		clock.Advance(time.Hour)
		_, err = s.StopSession(sid, "")
		require.NoError(t, err)
		clock.Advance(23 * time.Hour)
	}
	_, err = s.StartSession(pidA)
	require.NoError(t, err)

	all, err := s.GetSessions(SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3, "in-progress sessions are not history")
	require.True(t, all[0].StartTime.After(all[1].StartTime), "newest first")

	byProject, err := s.GetSessions(SessionFilter{ProjectID: &pidA})
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	// Inclusive lower bound: a session starting exactly at DateFrom matches.
	from := all[1].StartTime
	inRange, err := s.GetSessions(SessionFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, inRange, 2)

	to := all[1].StartTime
	upTo, err := s.GetSessions(SessionFilter{DateTo: &to})
	require.NoError(t, err)
	require.Len(t, upTo, 2)
}

func TestSumDurationInclusiveBounds(t *testing.T) {
	s, clock := newTestStore(t)

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	start := s.now()
	sid, err := s.StartSession(pid)
	require.NoError(t, err)
	clock.Advance(600 * time.Second)
	_, err = s.StopSession(sid, "")
	require.NoError(t, err)

	total, err := s.SumDuration(pid, start, start)
	require.NoError(t, err)
	require.Equal(t, int64(600), total, "bounds are inclusive of the start time")

	total, err = s.SumDuration(pid, start.Add(time.Second), start.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, total)

	total, err = s.ProjectTotal(pid)
	require.NoError(t, err)
	require.Equal(t, int64(600), total)
}

func TestDashboardTotalsEmptyStore(t *testing.T) {
	s, _ := newTestStore(t)

	rows, err := s.DashboardTotals()
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDashboardTotalsProjectWithoutSessions(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	rows, err := s.DashboardTotals()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Zero(t, rows[0].Today)
	require.Zero(t, rows[0].Week)
	require.Zero(t, rows[0].Month)
	require.Zero(t, rows[0].Total)
}

func TestDashboardTotalsBuckets(t *testing.T) {
	// Start 40 days before the epoch and work forward to it.
	s, clock := newTestStoreAt(t, testEpoch.AddDate(0, 0, -40))

	pid, err := s.CreateProject("Writing", "")
	require.NoError(t, err)

	record := func(d time.Duration) {
		sid, err := s.StartSession(pid)
		require.NoError(t, err)
		clock.Advance(d)
		_, err = s.StopSession(sid, "")
		require.NoError(t, err)
	}

	// 40 days before the epoch (a Wednesday): previous month only.
	record(1000 * time.Second)
	// 4 days before (Saturday): this month, not this week.
	clock.Advance(36*24*time.Hour - 1000*time.Second)
	record(500 * time.Second)
	// 2 days before (Monday): this week, not today.
	clock.Advance(2*24*time.Hour - 500*time.Second)
	record(200 * time.Second)
	// The epoch day itself: today.
	clock.Advance(2*24*time.Hour - 200*time.Second)
	record(100 * time.Second)

	rows, err := s.DashboardTotals()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(100), rows[0].Today)
	require.Equal(t, int64(300), rows[0].Week)
	require.Equal(t, int64(800), rows[0].Month)
	require.Equal(t, int64(1800), rows[0].Total)
}

func TestLocalRanges(t *testing.T) {
	// Wednesday 2024-03-13 15:30 local.
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.Local)
	dayStart, weekStart, monthStart, dayEnd := localRanges(now)

	require.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), dayStart)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), weekStart, "most recent Monday")
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), monthStart)
	require.Equal(t, time.Date(2024, 3, 13, 23, 59, 59, 0, time.Local), dayEnd)

	// A Monday is its own week start.
	_, weekStart, _, _ = localRanges(time.Date(2024, 3, 11, 8, 0, 0, 0, time.Local))
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), weekStart)

	// Sunday belongs to the week of the previous Monday.
	_, weekStart, _, _ = localRanges(time.Date(2024, 3, 17, 8, 0, 0, 0, time.Local))
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), weekStart)
}
