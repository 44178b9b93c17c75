// Package ocr summarizes a screenshot by extracting its visible text
// with tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// Recognized-text limits. A screenshot of a text editor yields far more
// text than a useful journal entry needs.
const (
	maxLines = 20
	maxChars = 1000
)

// noTextFallback is stored when recognition finds nothing, keeping the
// record's summary non-empty.
const noTextFallback = "(no text detected)"

const ocrTimeout = 60 * time.Second

// Summarizer runs tesseract over the screenshot and returns the
// recognized text, truncated to summary size.
type Summarizer struct{}

// New creates the OCR summarizer.
func New() *Summarizer {
	return &Summarizer{}
}

// Summarize extracts text from the image. The prompt override is ignored;
// OCR has no prompt.
func (s *Summarizer) Summarize(ctx context.Context, imagePath, _ string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return FormatRecognizedText(stdout.String()), nil
}

// FormatRecognizedText turns raw OCR output into a summary: blank lines
// dropped, capped at 20 lines and 1000 characters with a truncation
// marker. Empty output becomes the no-text fallback.
func FormatRecognizedText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
		if len(lines) == maxLines {
			break
		}
	}
	if len(lines) == 0 {
		return noTextFallback
	}

	text := strings.Join(lines, "\n")
	// The cap counts characters, not bytes; slicing bytes would split a
	// multi-byte rune and store invalid UTF-8.
	if utf8.RuneCountInString(text) > maxChars {
		runes := []rune(text)
		text = string(runes[:maxChars]) + "..."
	}
	return text
}
