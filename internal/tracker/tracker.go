// Package tracker implements the timer state machine on top of the store:
// at most one running session, crash-safe recovery on startup, and
// live-adjusted aggregate queries.
package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	trkerrors "git.home.luguber.info/inful/timetracker/internal/errors"
	"git.home.luguber.info/inful/timetracker/internal/metrics"
	"git.home.luguber.info/inful/timetracker/internal/store"
)

// State enumerates the timer states.
type State int

const (
	StateIdle State = iota
	StateRunning
)

// Status is a point-in-time snapshot of the timer.
type Status struct {
	Running   bool
	SessionID int64
	ProjectID int64
	StartedAt time.Time
}

// Tracker owns the timer state machine. All operations are serialized
// through one mutex: the single-active-session invariant is enforced as
// check-then-act and must not race across callers.
type Tracker struct {
	mu    sync.Mutex
	store *store.Store
	clock clockwork.Clock
	log   *slog.Logger
	rec   metrics.Recorder

	state     State
	sessionID int64
	projectID int64
	startedAt time.Time
	recovered bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock (tests).
func WithClock(clock clockwork.Clock) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(t *Tracker) { t.rec = rec }
}

// New constructs a Tracker over the store and recovers a session left
// running by an unclean shutdown. A recovered session puts the tracker
// directly into the running state and raises the recovered flag, which
// stays up until acknowledged once.
func New(st *store.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: st,
		clock: clockwork.NewRealClock(),
		log:   slog.Default(),
		rec:   metrics.NoopRecorder{},
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}

	active, err := st.GetActiveSession()
	if err != nil {
		return nil, err
	}
	if active != nil {
		t.state = StateRunning
		t.sessionID = active.ID
		t.projectID = active.ProjectID
		t.startedAt = active.StartTime
		t.recovered = true
		t.rec.IncSessionRecovered()
		t.log.Info("recovered running session",
			slog.Int64("session_id", active.ID),
			slog.Int64("project_id", active.ProjectID),
			slog.Time("started_at", active.StartTime))
	}
	return t, nil
}

// Start begins a timer on the project. A running timer is stopped first
// (stop-and-switch), so two sessions are never open at once. The project
// must exist and not be archived; the store's foreign key remains the
// backstop.
func (t *Tracker) Start(projectID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	project, err := t.store.GetProject(projectID)
	if err != nil {
		return err
	}
	if project.Archived {
		return trkerrors.ProjectArchived(projectID)
	}

	if t.state == StateRunning {
		if _, err := t.stopLocked(""); err != nil {
			return err
		}
	}

	sessionID, err := t.store.StartSession(projectID)
	if err != nil {
		return err
	}

	t.state = StateRunning
	t.sessionID = sessionID
	t.projectID = projectID
	t.startedAt = t.clock.Now().UTC().Truncate(time.Second)
	t.rec.IncSessionStarted()
	t.log.Info("timer started",
		slog.Int64("session_id", sessionID),
		slog.Int64("project_id", projectID),
		slog.String("project", project.Name))
	return nil
}

// Stop closes the running session and returns its duration in seconds.
// The duration is computed store-side from wall clock, never from a
// client-cached elapsed value. Stopping while idle is a no-op returning 0.
func (t *Tracker) Stop() (int64, error) {
	return t.StopWithNote("")
}

// StopWithNote is Stop with a free-text note attached to the session.
func (t *Tracker) StopWithNote(note string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return 0, nil
	}
	return t.stopLocked(note)
}

func (t *Tracker) stopLocked(note string) (int64, error) {
	duration, err := t.store.StopSession(t.sessionID, note)
	if err != nil {
		return 0, err
	}
	t.log.Info("timer stopped",
		slog.Int64("session_id", t.sessionID),
		slog.Int64("project_id", t.projectID),
		slog.Int64("duration_s", duration))
	t.resetLocked()
	t.rec.IncSessionStopped()
	t.rec.ObserveSessionDuration(time.Duration(duration) * time.Second)
	return duration, nil
}

// Discard force-closes the running session with its duration zeroed, for
// cancelling an accidental start. Discarding while idle is a no-op.
func (t *Tracker) Discard() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return nil
	}
	if err := t.store.DiscardSession(t.sessionID); err != nil {
		return err
	}
	t.log.Info("timer discarded", slog.Int64("session_id", t.sessionID))
	t.resetLocked()
	t.rec.IncSessionDiscarded()
	return nil
}

func (t *Tracker) resetLocked() {
	t.state = StateIdle
	t.sessionID = 0
	t.projectID = 0
	t.startedAt = time.Time{}
}

// Running reports whether a timer is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateRunning
}

// Status returns a snapshot of the current timer state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		Running:   t.state == StateRunning,
		SessionID: t.sessionID,
		ProjectID: t.projectID,
		StartedAt: t.startedAt,
	}
}

// ActiveProjectID returns the running timer's project id, or 0 when idle.
func (t *Tracker) ActiveProjectID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.projectID
}

// ElapsedSeconds returns whole seconds since the running session started,
// or 0 while idle. A clock anomaly is clamped to 0, never negative.
func (t *Tracker) ElapsedSeconds() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

func (t *Tracker) elapsedLocked() int64 {
	if t.state != StateRunning {
		return 0
	}
	elapsed := int64(t.clock.Now().UTC().Sub(t.startedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Recovered reports whether construction found a session surviving an
// unclean shutdown. It reads true until acknowledged once.
func (t *Tracker) Recovered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recovered
}

// AcknowledgeRecovery consumes the one-shot recovered flag.
func (t *Tracker) AcknowledgeRecovery() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recovered = false
}

// Close releases the store. A running session is deliberately left open on
// disk, pointer intact, so the next startup recovers it.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Close()
}
