// Package export writes tracker history as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"git.home.luguber.info/inful/timetracker/internal/tracker"
)

var header = []string{
	"Session ID", "Project", "Start Time", "End Time",
	"Duration (s)", "Duration (HH:MM:SS)", "Note",
}

// Write emits the header followed by one CSV record per session row and
// returns the number of session rows written, header excluded.
func Write(w io.Writer, rows []tracker.ExportRow) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.SessionID, 10),
			row.Project,
			row.StartTime,
			row.EndTime,
			strconv.FormatInt(row.DurationSeconds, 10),
			row.DurationHMS,
			row.Note,
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(rows), nil
}

// WriteFile writes the rows to a CSV file at path, creating or truncating
// it, and returns the number of session rows written.
func WriteFile(path string, rows []tracker.ExportRow) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	count, err := Write(f, rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return count, err
}
