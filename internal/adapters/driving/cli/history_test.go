package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_PrintsRecords(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("history")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] 2026-08-30")
	assert.Contains(t, out, "Firefox")
	assert.Contains(t, out, "Reviewing a pull request")
}

func TestHistoryCmd_RejectsBadDate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { historyFrom = "" }()

	_, err := execute("history", "--from", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --from date")
}

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2026-08-01", "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, start.Before(end))

	// Open-ended range defaults.
	start, end, err = parseDateRange("", "2026-08-02")
	require.NoError(t, err)
	assert.True(t, start.Before(end))
}

func TestDeleteCmd_ParsesIDs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("delete", "1", "2", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 3 record(s).")

	mock := historyService.(*mockHistoryService)
	assert.Equal(t, []int64{1, 2, 3}, mock.deleted)
}

func TestDeleteCmd_RejectsNonNumericID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("delete", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid record id")
}
