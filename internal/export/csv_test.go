package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/timetracker/internal/tracker"
)

func TestWriteEmptyStillEmitsHeader(t *testing.T) {
	var buf bytes.Buffer

	count, err := Write(&buf, nil)
	require.NoError(t, err)
	require.Zero(t, count, "row count excludes the header")

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []string{
		"Session ID", "Project", "Start Time", "End Time",
		"Duration (s)", "Duration (HH:MM:SS)", "Note",
	}, records[0])
}

func TestWriteRows(t *testing.T) {
	rows := []tracker.ExportRow{
		{
			SessionID:       7,
			Project:         "Writing",
			StartTime:       "2024-03-13T10:00:00Z",
			EndTime:         "2024-03-13T11:01:40Z",
			DurationSeconds: 3700,
			DurationHMS:     "01:01:40",
			Note:            "chapter one",
		},
		{
			SessionID:       8,
			Project:         "Reading, notes",
			StartTime:       "2024-03-13T12:00:00Z",
			EndTime:         "2024-03-13T12:05:00Z",
			DurationSeconds: 300,
			DurationHMS:     "00:05:00",
		},
	}

	var buf bytes.Buffer
	count, err := Write(&buf, rows)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, []string{"7", "Writing", "2024-03-13T10:00:00Z", "2024-03-13T11:01:40Z", "3700", "01:01:40", "chapter one"}, records[1])
	require.Equal(t, "Reading, notes", records[2][1], "fields containing commas survive the round trip")
	require.Equal(t, "", records[2][6])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")

	count, err := WriteFile(path, []tracker.ExportRow{{SessionID: 1, Project: "Writing"}})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Session ID")
	require.Contains(t, string(data), "Writing")
}
