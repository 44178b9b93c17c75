package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/core/ports/driving"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure History implements the interface.
var _ driving.HistoryService = (*History)(nil)

// Query limits.
const (
	DefaultFetchLimit  = 50
	DefaultSearchLimit = 50
	MaxFetchLimit      = 500
)

// History exposes the record store's query operations with input
// validation and bounded limits.
type History struct {
	store driven.RecordStore
}

// NewHistory creates a history service.
func NewHistory(store driven.RecordStore) *History {
	return &History{store: store}
}

// Recent returns records ordered by id descending.
func (h *History) Recent(ctx context.Context, limit, offset int) ([]domain.CaptureRecord, error) {
	limit = clampLimit(limit, DefaultFetchLimit)
	if offset < 0 {
		offset = 0
	}
	return h.store.FetchRecent(ctx, limit, offset)
}

// Today returns records persisted since the start of the local day.
func (h *History) Today(ctx context.Context) ([]domain.CaptureRecord, error) {
	return h.store.FetchToday(ctx)
}

// Range returns records with RecordedAt within the inclusive bounds.
func (h *History) Range(ctx context.Context, start, end time.Time) ([]domain.CaptureRecord, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start is after end", domain.ErrInvalidInput)
	}
	return h.store.FetchInRange(ctx, start, end)
}

// Search runs a full-text query over the stored records.
func (h *History) Search(ctx context.Context, query string, limit int) ([]domain.CaptureRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	limit = clampLimit(limit, DefaultSearchLimit)
	return h.store.Search(ctx, query, limit)
}

// Statistics aggregates the stored records.
func (h *History) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return h.store.Statistics(ctx)
}

// Delete removes records by id and unlinks the screenshot files they
// reference. File removal is best-effort: a missing file never fails the
// delete.
func (h *History) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, paths, err := h.store.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	removeFiles(paths)
	return n, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxFetchLimit {
		return MaxFetchLimit
	}
	return limit
}

// removeFiles unlinks screenshot files, logging failures without
// propagating them.
func removeFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove screenshot %s: %v", p, err)
		}
	}
}
