package tracker

import (
	"log/slog"

	trkerrors "git.home.luguber.info/inful/timetracker/internal/errors"
	"git.home.luguber.info/inful/timetracker/internal/store"
)

// AddProject creates a project and returns its id.
func (t *Tracker) AddProject(name, color string) (int64, error) {
	id, err := t.store.CreateProject(name, color)
	if err != nil {
		return 0, err
	}
	t.rec.IncProjectCreated()
	t.log.Info("project created", slog.Int64("project_id", id), slog.String("name", name))
	return id, nil
}

// ListProjects returns all non-archived projects ordered by name.
func (t *Tracker) ListProjects() ([]store.Project, error) {
	return t.store.ListProjects()
}

// RenameProject updates a project's name.
func (t *Tracker) RenameProject(projectID int64, newName string) error {
	return t.store.RenameProject(projectID, newName)
}

// SetProjectColor updates a project's display color.
func (t *Tracker) SetProjectColor(projectID int64, color string) error {
	return t.store.SetProjectColor(projectID, color)
}

// RemoveProject archives a project. The project behind a running timer can
// never be archived out from under it.
func (t *Tracker) RemoveProject(projectID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning && t.projectID == projectID {
		return trkerrors.TimerProjectBusy(projectID)
	}
	if err := t.store.ArchiveProject(projectID); err != nil {
		return err
	}
	t.rec.IncProjectArchived()
	t.log.Info("project archived", slog.Int64("project_id", projectID))
	return nil
}
