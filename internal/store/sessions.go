package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StartSession inserts an in-progress session row for the project and
// records the active-session pointer, as one atomic unit.
func (s *Store) StartSession(projectID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin start session: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO sessions (project_id, start_time) VALUES (?, ?)",
		projectID, formatTime(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session insert id: %w", err)
	}

	for key, value := range map[string]string{
		stateActiveSessionID: strconv.FormatInt(sessionID, 10),
		stateActiveProjectID: strconv.FormatInt(projectID, 10),
	} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO app_state (key, value) VALUES (?, ?)", key, value); err != nil {
			return 0, fmt.Errorf("record active pointer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit start session: %w", err)
	}
	return sessionID, nil
}

// StopSession closes a session: end time is set to now, the duration is
// computed once from wall clock, and the active-session pointer is cleared,
// all atomically. Stopping a missing or already-closed session returns 0
// and mutates nothing. A non-empty note is stored with the session.
func (s *Store) StopSession(sessionID int64, note string) (int64, error) {
	return s.closeSession(sessionID, note, false)
}

// DiscardSession closes a session exactly like StopSession but forces the
// recorded duration to 0, so an accidental start counts no time.
func (s *Store) DiscardSession(sessionID int64) error {
	_, err := s.closeSession(sessionID, "", true)
	return err
}

func (s *Store) closeSession(sessionID int64, note string, discard bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin stop session: %w", err)
	}
	defer tx.Rollback()

	var startRaw string
	var endRaw sql.NullString
	err = tx.QueryRow("SELECT start_time, end_time FROM sessions WHERE id = ?", sessionID).Scan(&startRaw, &endRaw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read session: %w", err)
	}
	if endRaw.Valid {
		// Already closed; a stale pointer must not reopen history.
		return 0, nil
	}

	start, err := parseTime(startRaw)
	if err != nil {
		return 0, err
	}

	end := s.now()
	duration := int64(end.Sub(start) / time.Second)
	if duration < 0 {
		duration = 0
	}
	if discard {
		duration = 0
	}

	var noteVal any
	if note != "" {
		noteVal = note
	}
	if _, err := tx.Exec(
		"UPDATE sessions SET end_time = ?, duration = ?, note = ? WHERE id = ?",
		formatTime(end), duration, noteVal, sessionID,
	); err != nil {
		return 0, fmt.Errorf("close session: %w", err)
	}

	for _, key := range []string{stateActiveSessionID, stateActiveProjectID} {
		if _, err := tx.Exec("DELETE FROM app_state WHERE key = ?", key); err != nil {
			return 0, fmt.Errorf("clear active pointer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit stop session: %w", err)
	}
	return duration, nil
}

// GetActiveSession resolves the persisted active-session pointer. It
// returns nil when no pointer is set, and defensively when the pointed-to
// session is already closed.
func (s *Store) GetActiveSession() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", stateActiveSessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read active pointer: %w", err)
	}
	sessionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse active pointer %q: %w", raw, err)
	}

	row := s.db.QueryRow(`
		SELECT s.id, s.project_id, p.name, p.color, s.start_time, s.end_time, s.duration, s.note
		FROM sessions s
		JOIN projects p ON p.id = s.project_id
		WHERE s.id = ? AND s.end_time IS NULL
	`, sessionID)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSessions returns closed sessions matching the filter, newest first.
func (s *Store) GetSessions(filter SessionFilter) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(`
		SELECT s.id, s.project_id, p.name, p.color, s.start_time, s.end_time, s.duration, s.note
		FROM sessions s
		JOIN projects p ON p.id = s.project_id
		WHERE s.end_time IS NOT NULL
	`)
	var params []any
	if filter.ProjectID != nil {
		sb.WriteString(" AND s.project_id = ?")
		params = append(params, *filter.ProjectID)
	}
	if filter.DateFrom != nil {
		sb.WriteString(" AND s.start_time >= ?")
		params = append(params, formatTime(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		sb.WriteString(" AND s.start_time <= ?")
		params = append(params, formatTime(*filter.DateTo))
	}
	sb.WriteString(" ORDER BY s.start_time DESC")

	rows, err := s.db.Query(sb.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var startRaw string
	var endRaw, noteRaw sql.NullString

	err := row.Scan(&sess.ID, &sess.ProjectID, &sess.ProjectName, &sess.ProjectColor,
		&startRaw, &endRaw, &sess.Duration, &noteRaw)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if sess.StartTime, err = parseTime(startRaw); err != nil {
		return nil, err
	}
	if endRaw.Valid {
		t, err := parseTime(endRaw.String)
		if err != nil {
			return nil, err
		}
		sess.EndTime = &t
	}
	if noteRaw.Valid {
		sess.Note = noteRaw.String
	}
	return &sess, nil
}
