package main

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/timetracker/internal/export"
	"git.home.luguber.info/inful/timetracker/internal/store"
	"git.home.luguber.info/inful/timetracker/internal/tracker"
)

func runProjectAdd(trk *tracker.Tracker, name, color string) error {
	id, err := trk.AddProject(name, color)
	if err != nil {
		return err
	}
	fmt.Printf("Created project %d: %s\n", id, name)
	return nil
}

func runProjectList(trk *tracker.Tracker) error {
	projects, err := trk.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects.")
		return nil
	}
	for _, p := range projects {
		fmt.Printf("%4d  %-24s %s\n", p.ID, p.Name, p.Color)
	}
	return nil
}

func runStop(trk *tracker.Tracker, note string) error {
	duration, err := trk.StopWithNote(note)
	if err != nil {
		return err
	}
	fmt.Printf("Stopped. Tracked %s.\n", tracker.FormatSeconds(duration))
	return nil
}

func runStatus(trk *tracker.Tracker) error {
	if trk.Recovered() {
		fmt.Println("Note: a running session was recovered from a previous shutdown.")
		trk.AcknowledgeRecovery()
	}

	status := trk.Status()
	if !status.Running {
		fmt.Println("Idle.")
		return nil
	}

	fmt.Printf("Running on project %d since %s (%s elapsed).\n",
		status.ProjectID,
		status.StartedAt.Local().Format("15:04:05"),
		tracker.FormatSeconds(trk.ElapsedSeconds()))
	return nil
}

func runDashboard(trk *tracker.Tracker) error {
	rows, err := trk.Dashboard()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No projects.")
		return nil
	}

	fmt.Printf("%-24s %10s %10s %10s %10s\n", "Project", "Today", "Week", "Month", "Total")
	for _, row := range rows {
		fmt.Printf("%-24s %10s %10s %10s %10s\n",
			row.ProjectName,
			tracker.FormatSeconds(row.Today),
			tracker.FormatSeconds(row.Week),
			tracker.FormatSeconds(row.Month),
			tracker.FormatSeconds(row.Total))
	}
	return nil
}

func runHistory(trk *tracker.Tracker, projectID int64, from, to string) error {
	filter, err := buildFilter(projectID, from, to)
	if err != nil {
		return err
	}

	sessions, err := trk.History(filter)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions.")
		return nil
	}

	for _, s := range sessions {
		end := ""
		if s.EndTime != nil {
			end = s.EndTime.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%5d  %-24s %s  %s  %s  %s\n",
			s.ID, s.ProjectName,
			s.StartTime.Local().Format("2006-01-02 15:04"), end,
			tracker.FormatSeconds(s.Duration), s.Note)
	}
	return nil
}

func runExport(trk *tracker.Tracker, output string, projectID int64, from, to string) error {
	filter, err := buildFilter(projectID, from, to)
	if err != nil {
		return err
	}

	rows, err := trk.ExportRows(filter)
	if err != nil {
		return err
	}

	count, err := export.WriteFile(output, rows)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d sessions to %s.\n", count, output)
	return nil
}

// buildFilter turns CLI flags into a session filter. Dates are local
// calendar days; the upper bound extends to the end of its day so both
// bounds are inclusive.
func buildFilter(projectID int64, from, to string) (store.SessionFilter, error) {
	var filter store.SessionFilter
	if projectID != 0 {
		filter.ProjectID = &projectID
	}
	if from != "" {
		day, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return filter, fmt.Errorf("parse --from: %w", err)
		}
		filter.DateFrom = &day
	}
	if to != "" {
		day, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return filter, fmt.Errorf("parse --to: %w", err)
		}
		end := day.Add(24*time.Hour - time.Second)
		filter.DateTo = &end
	}
	return filter, nil
}
