package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldiza/recapd/internal/core/domain"
)

func exportFixture() []domain.CaptureRecord {
	at := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	return []domain.CaptureRecord{
		{
			ID:          1,
			ObservedAt:  at,
			Summary:     "Writing a design document",
			AppName:     "Obsidian",
			WindowTitle: "design.md",
			RecordedAt:  at,
		},
		{
			ID:         2,
			ObservedAt: at.Add(5 * time.Minute),
			Summary:    "Line one\nLine two",
			RecordedAt: at.Add(5 * time.Minute),
		},
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExport().Export(&buf, domain.ExportJSON, exportFixture()))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Writing a design document", out[0]["summary"])
	assert.Equal(t, "2026-08-30T09:15:00Z", out[0]["observed_at"])
	// Empty optional fields are omitted.
	_, hasApp := out[1]["app_name"]
	assert.False(t, hasApp)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExport().Export(&buf, domain.ExportCSV, exportFixture()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "Obsidian", rows[1][4])
	// Multi-line summaries survive CSV quoting.
	assert.Equal(t, "Line one\nLine two", rows[2][2])
}

func TestExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExport().Export(&buf, domain.ExportMarkdown, exportFixture()))

	out := buf.String()
	assert.Contains(t, out, "# Capture history")
	assert.Contains(t, out, "## 2026-08-30 09:15")
	assert.Contains(t, out, "Obsidian")
	assert.Contains(t, out, "*design.md*")
}

func TestExportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExport().Export(&buf, domain.ExportText, exportFixture()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[2026-08-30 09:15:00] Obsidian (design.md)"))
	assert.Contains(t, out, "Writing a design document")
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewExport().Export(&buf, "yaml", exportFixture())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportEmptyRecords(t *testing.T) {
	for _, format := range []domain.ExportFormat{
		domain.ExportJSON, domain.ExportCSV, domain.ExportMarkdown, domain.ExportText,
	} {
		var buf bytes.Buffer
		assert.NoError(t, NewExport().Export(&buf, format, nil))
	}
}
