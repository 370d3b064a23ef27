package store

import (
	"database/sql"
	"fmt"
	"strings"

	trkerrors "git.home.luguber.info/inful/timetracker/internal/errors"
)

// CreateProject inserts a new project and returns its id. The name is
// trimmed of surrounding whitespace; a duplicate name (archived projects
// included, the UNIQUE constraint is table-wide) is a constraint violation.
func (s *Store) CreateProject(name, color string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, trkerrors.ValidationFailed("name", "must not be empty")
	}
	if color == "" {
		color = "#4A9EFF"
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects WHERE name = ?", name).Scan(&count); err != nil {
		return 0, fmt.Errorf("check project name: %w", err)
	}
	if count > 0 {
		return 0, trkerrors.DuplicateProjectName(name)
	}

	res, err := s.db.Exec(
		"INSERT INTO projects (name, color, created_at) VALUES (?, ?, ?)",
		name, color, formatTime(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("project insert id: %w", err)
	}
	return id, nil
}

// ListProjects returns all non-archived projects ordered by name.
func (s *Store) ListProjects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listProjectsLocked()
}

func (s *Store) listProjectsLocked() ([]Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, color, created_at, archived
		FROM projects
		WHERE archived = 0
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &createdAt, &p.Archived); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a project by id regardless of archived state.
func (s *Store) GetProject(id int64) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getProjectLocked(id)
}

func (s *Store) getProjectLocked(id int64) (*Project, error) {
	row := s.db.QueryRow("SELECT id, name, color, created_at, archived FROM projects WHERE id = ?", id)

	var p Project
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Color, &createdAt, &p.Archived); err != nil {
		if err == sql.ErrNoRows {
			return nil, trkerrors.ProjectNotFound(id)
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// RenameProject updates a project's name. Renaming a nonexistent project
// returns a not-found error; renaming to a name already in use is a
// constraint violation.
func (s *Store) RenameProject(id int64, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return trkerrors.ValidationFailed("name", "must not be empty")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects WHERE name = ? AND id != ?", newName, id).Scan(&count); err != nil {
		return fmt.Errorf("check project name: %w", err)
	}
	if count > 0 {
		return trkerrors.DuplicateProjectName(newName)
	}

	return s.updateProjectLocked(id, "UPDATE projects SET name = ? WHERE id = ?", newName)
}

// SetProjectColor updates a project's display color. A nonexistent project
// returns a not-found error.
func (s *Store) SetProjectColor(id int64, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateProjectLocked(id, "UPDATE projects SET color = ? WHERE id = ?", color)
}

// ArchiveProject soft-deletes a project. Its sessions are left untouched.
func (s *Store) ArchiveProject(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateProjectLocked(id, "UPDATE projects SET archived = 1 WHERE id = ?", nil)
}

func (s *Store) updateProjectLocked(id int64, query string, value any) error {
	var res sql.Result
	var err error
	if value == nil {
		res, err = s.db.Exec(query, id)
	} else {
		res, err = s.db.Exec(query, value, id)
	}
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project rows: %w", err)
	}
	if affected == 0 {
		return trkerrors.ProjectNotFound(id)
	}
	return nil
}
