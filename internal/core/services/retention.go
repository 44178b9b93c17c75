package services

import (
	"context"
	"fmt"
	"time"

	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/core/ports/driving"
	"github.com/haldiza/recapd/internal/logger"
)

// retentionCheckInterval is how often the daemon re-runs the sweep.
const retentionCheckInterval = 12 * time.Hour

// Retention removes records older than the configured age and deletes the
// screenshot files they referenced. Records recorded exactly at the cutoff
// are retained.
type Retention struct {
	store    driven.RecordStore
	settings driving.SettingsService
}

// NewRetention creates a retention service.
func NewRetention(store driven.RecordStore, settings driving.SettingsService) *Retention {
	return &Retention{store: store, settings: settings}
}

// Sweep deletes records older than the retention window. Returns the
// number of records removed. A zero retention setting disables the sweep.
func (r *Retention) Sweep(ctx context.Context) (int, error) {
	cfg, err := r.settings.Get()
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	if cfg.RetentionDays <= 0 {
		return 0, nil
	}
	return r.SweepBefore(ctx, time.Now().AddDate(0, 0, -cfg.RetentionDays))
}

// SweepBefore deletes records recorded strictly before cutoff.
func (r *Retention) SweepBefore(ctx context.Context, cutoff time.Time) (int, error) {
	n, paths, err := r.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old records: %w", err)
	}
	removeFiles(paths)
	if n > 0 {
		logger.Info("retention sweep removed %d records", n)
	}
	return n, nil
}

// Run executes the sweep periodically until stopCh closes. Intended to be
// started as a goroutine by the daemon.
func (r *Retention) Run(ctx context.Context, stopCh <-chan struct{}) {
	if _, err := r.Sweep(ctx); err != nil {
		logger.Warn("retention sweep: %v", err)
	}

	ticker := time.NewTicker(retentionCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				logger.Warn("retention sweep: %v", err)
			}
		}
	}
}
