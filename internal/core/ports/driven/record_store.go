package driven

import (
	"context"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
)

// RecordStore persists capture records together with a full-text search
// index that can never observably diverge from the primary table.
type RecordStore interface {
	// Insert stores a record and returns its assigned id.
	// Fails with domain.ErrInvalidInput when the summary is empty.
	Insert(ctx context.Context, rec *domain.CaptureRecord) (int64, error)

	// FetchRecent returns records ordered by id descending. Ordering is
	// by id, not by captured time, so pagination stays consistent even
	// for historical rows with absent or out-of-order timestamps.
	FetchRecent(ctx context.Context, limit, offset int) ([]domain.CaptureRecord, error)

	// FetchToday returns records persisted since the start of the local
	// day, ordered by id descending.
	FetchToday(ctx context.Context) ([]domain.CaptureRecord, error)

	// FetchInRange returns records with RecordedAt within the inclusive
	// bounds. Fails with domain.ErrInvalidInput when start > end,
	// before touching storage.
	FetchInRange(ctx context.Context, start, end time.Time) ([]domain.CaptureRecord, error)

	// Search runs a full-text query over summary, application name and
	// window title. Whitespace-delimited tokens are independent prefix
	// terms, OR-combined, ranked by index relevance.
	Search(ctx context.Context, query string, limit int) ([]domain.CaptureRecord, error)

	// Delete removes one record and its index entries.
	Delete(ctx context.Context, id int64) error

	// DeleteMany removes a set of records in one transaction. Returns
	// the number of rows removed and their screenshot paths so the
	// caller can delete the files it owns.
	DeleteMany(ctx context.Context, ids []int64) (int, []string, error)

	// DeleteOlderThan removes records with RecordedAt strictly before
	// cutoff. Records recorded exactly at cutoff are retained. Returns
	// the number removed and their screenshot paths so the caller can
	// delete the files it owns.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, []string, error)

	// Statistics aggregates the stored records.
	Statistics(ctx context.Context) (*domain.Statistics, error)

	// Close shuts down the store. Pending operations complete first.
	Close() error
}
