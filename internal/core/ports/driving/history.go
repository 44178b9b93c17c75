package driving

import (
	"context"
	"io"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
)

// HistoryService exposes the query operations of the record store with
// input validation and bounded limits.
type HistoryService interface {
	Recent(ctx context.Context, limit, offset int) ([]domain.CaptureRecord, error)
	Today(ctx context.Context) ([]domain.CaptureRecord, error)
	Range(ctx context.Context, start, end time.Time) ([]domain.CaptureRecord, error)
	Search(ctx context.Context, query string, limit int) ([]domain.CaptureRecord, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)

	// Delete removes records and the screenshot files they reference.
	Delete(ctx context.Context, ids []int64) (int, error)
}

// Exporter renders capture records to a writer in a given format.
type Exporter interface {
	Export(w io.Writer, format domain.ExportFormat, records []domain.CaptureRecord) error
}
