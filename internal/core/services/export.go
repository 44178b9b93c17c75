package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driving"
)

// Ensure Export implements the interface.
var _ driving.Exporter = (*Export)(nil)

// Export renders capture records as JSON, CSV, Markdown or plain text.
// Pure data-to-text transforms; no concurrency, no state.
type Export struct{}

// NewExport creates an exporter.
func NewExport() *Export {
	return &Export{}
}

// exportRecord is the JSON shape of one exported record.
type exportRecord struct {
	ID             int64  `json:"id"`
	ObservedAt     string `json:"observed_at"`
	Summary        string `json:"summary"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	AppName        string `json:"app_name,omitempty"`
	WindowTitle    string `json:"window_title,omitempty"`
	RecordedAt     string `json:"recorded_at"`
}

// Export writes records to w in the requested format.
func (e *Export) Export(w io.Writer, format domain.ExportFormat, records []domain.CaptureRecord) error {
	switch format {
	case domain.ExportJSON:
		return e.writeJSON(w, records)
	case domain.ExportCSV:
		return e.writeCSV(w, records)
	case domain.ExportMarkdown:
		return e.writeMarkdown(w, records)
	case domain.ExportText:
		return e.writeText(w, records)
	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
}

func (e *Export) writeJSON(w io.Writer, records []domain.CaptureRecord) error {
	out := make([]exportRecord, len(records))
	for i, r := range records {
		out[i] = exportRecord{
			ID:             r.ID,
			ObservedAt:     r.ObservedAt.Format(time.RFC3339),
			Summary:        r.Summary,
			ScreenshotPath: r.ScreenshotPath,
			AppName:        r.AppName,
			WindowTitle:    r.WindowTitle,
			RecordedAt:     r.RecordedAt.Format(time.RFC3339),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (e *Export) writeCSV(w io.Writer, records []domain.CaptureRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "observed_at", "summary", "screenshot_path", "app_name", "window_title", "recorded_at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.ObservedAt.Format(time.RFC3339),
			r.Summary,
			r.ScreenshotPath,
			r.AppName,
			r.WindowTitle,
			r.RecordedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Export) writeMarkdown(w io.Writer, records []domain.CaptureRecord) error {
	var b strings.Builder
	b.WriteString("# Capture history\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "## %s", r.ObservedAt.Format("2006-01-02 15:04"))
		if r.AppName != "" {
			fmt.Fprintf(&b, " — %s", r.AppName)
		}
		b.WriteString("\n\n")
		if r.WindowTitle != "" {
			fmt.Fprintf(&b, "*%s*\n\n", r.WindowTitle)
		}
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *Export) writeText(w io.Writer, records []domain.CaptureRecord) error {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "[%s]", r.ObservedAt.Format("2006-01-02 15:04:05"))
		if r.AppName != "" {
			fmt.Fprintf(&b, " %s", r.AppName)
		}
		if r.WindowTitle != "" {
			fmt.Fprintf(&b, " (%s)", r.WindowTitle)
		}
		b.WriteString("\n")
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
