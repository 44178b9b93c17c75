package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// In-memory test doubles for the driven ports.

type fakeStore struct {
	mu      sync.Mutex
	records []domain.CaptureRecord
	nextID  int64

	insertDelay time.Duration
	insertErr   error
}

func (f *fakeStore) Insert(_ context.Context, rec *domain.CaptureRecord) (int64, error) {
	if f.insertDelay > 0 {
		time.Sleep(f.insertDelay)
	}
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *rec
	stored.ID = f.nextID
	f.records = append(f.records, stored)
	return stored.ID, nil
}

func (f *fakeStore) all() []domain.CaptureRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.CaptureRecord, len(f.records))
	copy(out, f.records)
	return out
}

func (f *fakeStore) FetchRecent(_ context.Context, limit, offset int) ([]domain.CaptureRecord, error) {
	all := f.all()
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStore) FetchToday(context.Context) ([]domain.CaptureRecord, error) {
	return f.all(), nil
}

func (f *fakeStore) FetchInRange(_ context.Context, start, end time.Time) ([]domain.CaptureRecord, error) {
	var out []domain.CaptureRecord
	for _, r := range f.all() {
		if !r.RecordedAt.Before(start) && !r.RecordedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, query string, limit int) ([]domain.CaptureRecord, error) {
	return f.FetchRecent(context.Background(), limit, 0)
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) DeleteMany(_ context.Context, ids []int64) (int, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var (
		kept  []domain.CaptureRecord
		paths []string
		n     int
	)
	for _, r := range f.records {
		if want[r.ID] {
			n++
			if r.ScreenshotPath != "" {
				paths = append(paths, r.ScreenshotPath)
			}
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return n, paths, nil
}

func (f *fakeStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		kept  []domain.CaptureRecord
		paths []string
		n     int
	)
	for _, r := range f.records {
		if r.RecordedAt.Before(cutoff) {
			n++
			if r.ScreenshotPath != "" {
				paths = append(paths, r.ScreenshotPath)
			}
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return n, paths, nil
}

func (f *fakeStore) Statistics(context.Context) (*domain.Statistics, error) {
	return &domain.Statistics{TotalCount: len(f.all())}, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeCapturer struct {
	checkErr   error
	checkDelay time.Duration
	captureErr error
	captures   atomic.Int64
}

func (f *fakeCapturer) Check(context.Context) error {
	if f.checkDelay > 0 {
		time.Sleep(f.checkDelay)
	}
	return f.checkErr
}

func (f *fakeCapturer) CaptureScreen(context.Context) (string, error) {
	if f.captureErr != nil {
		return "", f.captureErr
	}
	n := f.captures.Add(1)
	return fmt.Sprintf("/tmp/fake/shot-%d.png", n), nil
}

type fakeInspector struct {
	ctx     domain.WindowContext
	ctxErr  error
	running []string
}

func (f *fakeInspector) ActiveContext(context.Context) (domain.WindowContext, error) {
	return f.ctx, f.ctxErr
}

func (f *fakeInspector) RunningApps(context.Context) ([]string, error) {
	return f.running, nil
}

type fakeDetector struct{ private bool }

func (f *fakeDetector) IsPrivate(string, string) bool { return f.private }

type fakeSummarizer struct {
	text  string
	err   error
	delay time.Duration

	mu      sync.Mutex
	prompts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, _, promptOverride string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, promptOverride)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeFactory struct {
	summarizer *fakeSummarizer
	err        error
}

func (f *fakeFactory) For(domain.CommandSpec) (driven.Summarizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summarizer, nil
}

type fakeProfiles struct{ profiles []domain.BrowserProfile }

func (f *fakeProfiles) Profiles() []domain.BrowserProfile { return f.profiles }

type fakeFeedback struct{ cues atomic.Int64 }

func (f *fakeFeedback) CaptureCue() { f.cues.Add(1) }

type fakeSettings struct {
	mu  sync.Mutex
	cfg domain.Settings
	err error
}

func (f *fakeSettings) Get() (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, f.err
}

func (f *fakeSettings) Update(fn func(*domain.Settings)) (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.cfg)
	return f.cfg, nil
}

func (f *fakeSettings) Reload() error { return nil }

func (f *fakeSettings) set(fn func(*domain.Settings)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.cfg)
}
