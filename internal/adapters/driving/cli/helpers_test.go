package cli

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
)

// setupTestServices swaps the package services for in-memory mocks and
// returns a cleanup that restores the previous state.
func setupTestServices() func() {
	oldSettings := settingsService
	oldHistory := historyService
	oldExporter := exporter
	oldProfiles := profileSource

	settingsService = &mockSettingsService{cfg: domain.DefaultSettings()}
	historyService = &mockHistoryService{records: testRecords()}
	exporter = &noopExporter{}
	profileSource = &mockProfileSource{}

	return func() {
		settingsService = oldSettings
		historyService = oldHistory
		exporter = oldExporter
		profileSource = oldProfiles
	}
}

func testRecords() []domain.CaptureRecord {
	at := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	return []domain.CaptureRecord{
		{
			ID:          1,
			ObservedAt:  at,
			Summary:     "Reviewing a pull request",
			AppName:     "Firefox",
			WindowTitle: "PR #7",
			RecordedAt:  at,
		},
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

type mockSettingsService struct {
	cfg     domain.Settings
	updates int
}

func (m *mockSettingsService) Get() (domain.Settings, error) { return m.cfg, nil }

func (m *mockSettingsService) Update(fn func(*domain.Settings)) (domain.Settings, error) {
	m.updates++
	fn(&m.cfg)
	return m.cfg, nil
}

func (m *mockSettingsService) Reload() error { return nil }

type mockHistoryService struct {
	records []domain.CaptureRecord
	deleted []int64
}

func (m *mockHistoryService) Recent(context.Context, int, int) ([]domain.CaptureRecord, error) {
	return m.records, nil
}

func (m *mockHistoryService) Today(context.Context) ([]domain.CaptureRecord, error) {
	return m.records, nil
}

func (m *mockHistoryService) Range(context.Context, time.Time, time.Time) ([]domain.CaptureRecord, error) {
	return m.records, nil
}

func (m *mockHistoryService) Search(context.Context, string, int) ([]domain.CaptureRecord, error) {
	return m.records, nil
}

func (m *mockHistoryService) Statistics(context.Context) (*domain.Statistics, error) {
	return &domain.Statistics{
		TotalCount: len(m.records),
		TodayCount: len(m.records),
		AppCounts:  []domain.AppCount{{AppName: "Firefox", Count: len(m.records)}},
	}, nil
}

func (m *mockHistoryService) Delete(_ context.Context, ids []int64) (int, error) {
	m.deleted = append(m.deleted, ids...)
	return len(ids), nil
}

type noopExporter struct{}

func (*noopExporter) Export(io.Writer, domain.ExportFormat, []domain.CaptureRecord) error {
	return nil
}

type mockProfileSource struct {
	profiles []domain.BrowserProfile
}

func (m *mockProfileSource) Profiles() []domain.BrowserProfile { return m.profiles }
