package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	filter, err := buildFilter(0, "", "")
	require.NoError(t, err)
	require.Nil(t, filter.ProjectID)
	require.Nil(t, filter.DateFrom)
	require.Nil(t, filter.DateTo)

	filter, err = buildFilter(3, "2024-03-01", "2024-03-13")
	require.NoError(t, err)
	require.Equal(t, int64(3), *filter.ProjectID)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), *filter.DateFrom)
	require.Equal(t, time.Date(2024, 3, 13, 23, 59, 59, 0, time.Local), *filter.DateTo,
		"upper bound covers the whole end day")
}

func TestBuildFilterRejectsBadDates(t *testing.T) {
	_, err := buildFilter(0, "13/03/2024", "")
	require.Error(t, err)

	_, err = buildFilter(0, "", "not-a-date")
	require.Error(t, err)
}
