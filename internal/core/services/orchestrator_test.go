package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldiza/recapd/internal/core/domain"
)

type orchestratorFixture struct {
	settings *fakeSettings
	capturer *fakeCapturer
	window   *fakeInspector
	detector *fakeDetector
	factory  *fakeFactory
	profiles *fakeProfiles
	store    *fakeStore
	feedback *fakeFeedback
	orch     *Orchestrator
}

func newOrchestratorFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		settings: &fakeSettings{cfg: domain.DefaultSettings()},
		capturer: &fakeCapturer{},
		window: &fakeInspector{ctx: domain.WindowContext{
			AppName:     "Terminal",
			WindowTitle: "vim notes.md",
			AppID:       "org.gnome.Terminal",
		}},
		detector: &fakeDetector{},
		factory:  &fakeFactory{summarizer: &fakeSummarizer{text: "editing notes"}},
		profiles: &fakeProfiles{},
		store:    &fakeStore{},
		feedback: &fakeFeedback{},
	}
	f.orch = NewOrchestrator(
		f.settings, f.capturer, f.window, f.detector,
		f.factory, f.profiles, f.store, f.feedback,
	)
	return f
}

func TestCaptureNowStoresRecord(t *testing.T) {
	f := newOrchestratorFixture()

	require.NoError(t, f.orch.CaptureNow(context.Background()))

	records := f.store.all()
	require.Len(t, records, 1)
	assert.Equal(t, "editing notes", records[0].Summary)
	assert.Equal(t, "Terminal", records[0].AppName)
	assert.Equal(t, "vim notes.md", records[0].WindowTitle)
	assert.NotEmpty(t, records[0].ScreenshotPath)
	assert.False(t, records[0].ObservedAt.After(records[0].RecordedAt))

	status := f.orch.Status()
	assert.Equal(t, int64(1), status.CaptureCount)
	assert.Empty(t, status.LastError)
}

func TestSingleFlight(t *testing.T) {
	f := newOrchestratorFixture()
	f.factory.summarizer.delay = 200 * time.Millisecond

	var (
		wg       sync.WaitGroup
		inProg   int
		stored   int
		progress sync.Mutex
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.orch.runCycle(context.Background())
			progress.Lock()
			defer progress.Unlock()
			switch {
			case errors.Is(err, domain.ErrCycleInProgress):
				inProg++
			case err == nil:
				stored++
			}
		}()
	}
	wg.Wait()

	// Exactly one cycle ran; the overlapping triggers were dropped.
	assert.Equal(t, 1, stored)
	assert.Equal(t, 3, inProg)
	assert.Len(t, f.store.all(), 1)
}

func TestCaptureNowRateLimited(t *testing.T) {
	f := newOrchestratorFixture()

	require.NoError(t, f.orch.CaptureNow(context.Background()))
	err := f.orch.CaptureNow(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestPausedSkipsCycle(t *testing.T) {
	f := newOrchestratorFixture()

	f.orch.NotifySleep()
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.store.all())

	f.orch.NotifyWake()
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Len(t, f.store.all(), 1)
}

func TestNotifySleepHonorsSetting(t *testing.T) {
	f := newOrchestratorFixture()
	f.settings.set(func(s *domain.Settings) { s.PauseDuringSleep = false })

	f.orch.NotifySleep()
	assert.False(t, f.orch.Status().PausedForSleep)
}

func TestExcludedAppSkips(t *testing.T) {
	f := newOrchestratorFixture()
	f.settings.set(func(s *domain.Settings) {
		s.ExcludedApps = []string{"ORG.GNOME.TERMINAL"}
	})

	// Identifier comparison is case-insensitive.
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.store.all())
	assert.Equal(t, int64(0), f.capturer.captures.Load())
}

func TestPrivateBrowsingSkips(t *testing.T) {
	f := newOrchestratorFixture()
	f.detector.private = true

	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.store.all())

	f.settings.set(func(s *domain.Settings) { s.SkipPrivateBrowsing = false })
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Len(t, f.store.all(), 1)
}

func TestExcludeVerdictSkipsBeforeCapture(t *testing.T) {
	f := newOrchestratorFixture()
	f.window.ctx.WindowTitle = "My Bank Account"
	f.settings.set(func(s *domain.Settings) {
		s.ExcludeKeywords = []string{"bank"}
	})

	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.store.all())
	// The screen was never captured.
	assert.Equal(t, int64(0), f.capturer.captures.Load())
}

func TestMaskVerdictStoresPlaceholder(t *testing.T) {
	f := newOrchestratorFixture()
	f.window.ctx.WindowTitle = "Enter your password"

	require.NoError(t, f.orch.runCycle(context.Background()))

	records := f.store.all()
	require.Len(t, records, 1)
	assert.Equal(t, domain.MaskedSummary, records[0].Summary)
	// The screenshot is still taken; only the summary is replaced.
	assert.NotEmpty(t, records[0].ScreenshotPath)
	// The summarizer never saw the masked capture.
	assert.Empty(t, f.factory.summarizer.prompts)
}

func TestBackgroundExclusion(t *testing.T) {
	f := newOrchestratorFixture()
	f.window.running = []string{"org.keepassxc.KeePassXC", "org.gnome.Terminal"}
	f.settings.set(func(s *domain.Settings) {
		s.ExcludeOnlyWhenForeground = false
		s.FrontmostOnly = false
		s.ExcludedApps = []string{"org.keepassxc.KeePassXC"}
	})

	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.store.all())

	// Foreground-only mode ignores background apps.
	f.settings.set(func(s *domain.Settings) { s.ExcludeOnlyWhenForeground = true })
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Len(t, f.store.all(), 1)
}

func TestSummarizerFailureRecordsLastError(t *testing.T) {
	f := newOrchestratorFixture()
	f.factory.summarizer.err = errors.New("model unavailable")

	err := f.orch.runCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, f.orch.Status().LastError, "model unavailable")
	assert.Empty(t, f.store.all())

	// A later successful cycle clears the error.
	f.factory.summarizer.err = nil
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Empty(t, f.orch.Status().LastError)
}

func TestCustomPromptPassedToSummarizer(t *testing.T) {
	f := newOrchestratorFixture()
	f.settings.set(func(s *domain.Settings) { s.CustomPrompt = "be terse" })

	require.NoError(t, f.orch.runCycle(context.Background()))
	require.Len(t, f.factory.summarizer.prompts, 1)
	assert.Equal(t, "be terse", f.factory.summarizer.prompts[0])
}

func TestFeedbackCueFiresOnlyWhenEnabled(t *testing.T) {
	f := newOrchestratorFixture()

	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Equal(t, int64(0), f.feedback.cues.Load())

	f.settings.set(func(s *domain.Settings) { s.CaptureFeedback = true })
	require.NoError(t, f.orch.runCycle(context.Background()))
	assert.Eventually(t, func() bool {
		return f.feedback.cues.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStartPreconditions(t *testing.T) {
	t.Run("capture not authorized", func(t *testing.T) {
		f := newOrchestratorFixture()
		f.capturer.checkErr = domain.ErrNotAuthorized

		err := f.orch.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrPrecondition)
		assert.False(t, f.orch.Status().Running)
	})

	t.Run("no summarizer selected", func(t *testing.T) {
		f := newOrchestratorFixture()
		f.settings.set(func(s *domain.Settings) { s.SelectedCommand = "" })

		err := f.orch.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrPrecondition)
	})
}

func TestConcurrentStartSpawnsOneScheduler(t *testing.T) {
	f := newOrchestratorFixture()
	f.settings.set(func(s *domain.Settings) { s.Interval = time.Hour })
	// A slow authorization probe widens the window between the running
	// check and the scheduler spawn.
	f.capturer.checkDelay = 100 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, f.orch.Start(context.Background()))
		}()
	}
	wg.Wait()
	assert.True(t, f.orch.Status().Running)

	// Both schedulers would each run an immediate first cycle; only one
	// may exist. The rate limiter does not apply to scheduled ticks, so a
	// second scheduler would store a second record.
	assert.Eventually(t, func() bool {
		return len(f.store.all()) >= 1
	}, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, f.store.all(), 1)

	// Stop must not deadlock waiting on an orphaned scheduler.
	done := make(chan struct{})
	go func() {
		require.NoError(t, f.orch.Stop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, f.orch.Status().Running)
}

func TestStartAndStop(t *testing.T) {
	f := newOrchestratorFixture()
	f.settings.set(func(s *domain.Settings) { s.Interval = time.Hour })

	require.NoError(t, f.orch.Start(context.Background()))
	assert.True(t, f.orch.Status().Running)

	// Starting twice is a no-op.
	require.NoError(t, f.orch.Start(context.Background()))

	// The first cycle fires immediately.
	assert.Eventually(t, func() bool {
		return len(f.store.all()) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, f.orch.Stop())
	assert.False(t, f.orch.Status().Running)
	require.NoError(t, f.orch.Stop())
}
