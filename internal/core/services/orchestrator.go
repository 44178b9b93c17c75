package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/core/ports/driving"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.CaptureController = (*Orchestrator)(nil)

// manualTriggerInterval bounds how often the manual capture trigger may
// fire, so a wedged hotkey cannot spam cycles.
const manualTriggerInterval = 2 * time.Second

// Orchestrator drives the periodic capture cycle: exclusion pre-checks,
// privacy verdict, summarization and persistence. At most one cycle is
// ever in flight; ticks and manual triggers that arrive while a cycle is
// executing are dropped, not queued.
type Orchestrator struct {
	settings driving.SettingsService
	screen   driven.ScreenCapturer
	window   driven.WindowInspector
	detector driven.PrivateBrowsingDetector
	factory  driven.SummarizerFactory
	profiles driven.ProfileSource
	store    driven.RecordStore
	feedback driven.Feedback

	mu       sync.Mutex
	running  bool
	starting bool
	paused   bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	lastErr  string

	inFlight     atomic.Bool
	captureCount atomic.Int64
	limiter      *rate.Limiter
}

// NewOrchestrator creates a capture orchestrator. All collaborators are
// required except feedback, which may be nil when no cue is configured.
func NewOrchestrator(
	settings driving.SettingsService,
	screen driven.ScreenCapturer,
	window driven.WindowInspector,
	detector driven.PrivateBrowsingDetector,
	factory driven.SummarizerFactory,
	profiles driven.ProfileSource,
	store driven.RecordStore,
	feedback driven.Feedback,
) *Orchestrator {
	return &Orchestrator{
		settings: settings,
		screen:   screen,
		window:   window,
		detector: detector,
		factory:  factory,
		profiles: profiles,
		store:    store,
		feedback: feedback,
		limiter:  rate.NewLimiter(rate.Every(manualTriggerInterval), 1),
	}
}

// Start begins the periodic scheduler. The preconditions are checked once:
// screen capture must be authorized and an enabled summarizer selected.
// Precondition failures are fatal to Start only and are never retried
// automatically. A Start overlapping a running or starting scheduler is a
// no-op; the starting flag keeps the check and the state transition atomic
// across the slow precondition probes, so at most one scheduler goroutine
// ever exists.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running || o.starting {
		o.mu.Unlock()
		return nil
	}
	o.starting = true
	o.mu.Unlock()

	if err := o.screen.Check(ctx); err != nil {
		return o.abortStart(fmt.Errorf("%w: %w", domain.ErrPrecondition, err))
	}
	cfg, err := o.settings.Get()
	if err != nil {
		return o.abortStart(fmt.Errorf("%w: load settings: %w", domain.ErrPrecondition, err))
	}
	if _, ok := cfg.SelectedSpec(); !ok {
		return o.abortStart(fmt.Errorf("%w: no enabled summarizer selected", domain.ErrPrecondition))
	}

	o.mu.Lock()
	o.starting = false
	o.running = true
	o.stopCh = make(chan struct{})
	stopCh := o.stopCh
	o.wg.Add(1)
	o.mu.Unlock()

	go o.run(cfg.Interval, stopCh)
	return nil
}

// abortStart releases the starting guard after a failed precondition.
func (o *Orchestrator) abortStart(err error) error {
	o.mu.Lock()
	o.starting = false
	o.mu.Unlock()
	return err
}

// Stop cancels the timer and waits for an in-flight cycle to complete.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	close(o.stopCh)
	o.mu.Unlock()

	o.wg.Wait()
	return nil
}

// run is the scheduler loop. The first cycle fires immediately; later
// cycles fire on the configured period. Per-cycle errors do not stop the
// loop; the next tick is the sole retry mechanism.
func (o *Orchestrator) run(interval time.Duration, stopCh <-chan struct{}) {
	defer o.wg.Done()

	ctx := context.Background()
	o.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick runs one cycle and records failures without propagating them.
func (o *Orchestrator) tick(ctx context.Context) {
	if err := o.runCycle(ctx); err != nil {
		logger.Warn("capture cycle: %v", err)
	}
}

// CaptureNow runs one cycle immediately, equivalent to a scheduler tick.
func (o *Orchestrator) CaptureNow(ctx context.Context) error {
	if !o.limiter.Allow() {
		return domain.ErrRateLimited
	}
	return o.runCycle(ctx)
}

// NotifySleep pauses capture when the pause-on-sleep option is set.
func (o *Orchestrator) NotifySleep() {
	cfg, err := o.settings.Get()
	if err == nil && !cfg.PauseDuringSleep {
		return
	}
	o.mu.Lock()
	o.paused = true
	o.mu.Unlock()
	logger.Info("capture paused: system going to sleep")
}

// NotifyWake resumes capture after sleep.
func (o *Orchestrator) NotifyWake() {
	o.mu.Lock()
	o.paused = false
	o.mu.Unlock()
	logger.Info("capture resumed: system woke up")
}

// Status reports the observable session state.
func (o *Orchestrator) Status() domain.SessionStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.SessionStatus{
		Running:        o.running,
		PausedForSleep: o.paused,
		InFlight:       o.inFlight.Load(),
		CaptureCount:   o.captureCount.Load(),
		LastError:      o.lastErr,
	}
}

// runCycle executes one capture cycle. Skip conditions (pause, exclusion,
// privacy) return nil: they are normal branches, not errors. Per-cycle
// failures are recorded in lastError and returned; the scheduler keeps
// running regardless.
func (o *Orchestrator) runCycle(ctx context.Context) error {
	if !o.inFlight.CompareAndSwap(false, true) {
		return domain.ErrCycleInProgress
	}
	defer o.inFlight.Store(false)

	o.mu.Lock()
	paused := o.paused
	o.mu.Unlock()
	if paused {
		logger.Debug("cycle skipped: paused for sleep")
		return nil
	}

	// Settings are re-read every cycle, so configuration changes take
	// effect at the next cycle boundary, never mid-cycle.
	cfg, err := o.settings.Get()
	if err != nil {
		return o.fail(fmt.Errorf("load settings: %w", err))
	}
	spec, ok := cfg.SelectedSpec()
	if !ok {
		return o.fail(fmt.Errorf("%w: no enabled summarizer selected", domain.ErrPrecondition))
	}

	winCtx, err := o.window.ActiveContext(ctx)
	if err != nil {
		// Inspector output is best-effort; an unresolvable window is
		// not grounds to skip the capture.
		logger.Debug("active window unresolved: %v", err)
		winCtx = domain.WindowContext{}
	}

	if winCtx.AppID != "" && containsFold(cfg.ExcludedApps, winCtx.AppID) {
		logger.Debug("cycle skipped: app excluded: %s", winCtx.AppID)
		return nil
	}

	if skip, why := o.backgroundExclusion(ctx, cfg); skip {
		logger.Debug("cycle skipped: %s", why)
		return nil
	}

	if cfg.SkipPrivateBrowsing && o.detector.IsPrivate(winCtx.AppID, winCtx.WindowTitle) {
		logger.Debug("cycle skipped: private browsing detected")
		return nil
	}

	rules := cfg.Rules(o.profiles.Profiles())
	decision := EvaluatePrivacy(winCtx.WindowTitle, winCtx.AppID, rules)
	if decision.Verdict == domain.VerdictExclude {
		logger.Debug("cycle skipped: privacy filter (%s)", describeMatch(decision))
		return nil
	}

	// The cue fires only after every check has passed, right before the
	// capture, and is never awaited.
	if cfg.CaptureFeedback && o.feedback != nil {
		go o.feedback.CaptureCue()
	}

	observedAt := time.Now()
	imagePath, err := o.screen.CaptureScreen(ctx)
	if err != nil {
		return o.fail(fmt.Errorf("capture screen: %w", err))
	}

	var summary string
	if decision.Verdict == domain.VerdictMask {
		logger.Info("capture masked: %s", describeMatch(decision))
		summary = domain.MaskedSummary
	} else {
		summarizer, err := o.factory.For(spec)
		if err != nil {
			return o.fail(fmt.Errorf("summarizer %q: %w", spec.Name, err))
		}
		// The screenshot file is deliberately left in place on failure;
		// the retention sweep owns cleanup.
		summary, err = summarizer.Summarize(ctx, imagePath, cfg.CustomPrompt)
		if err != nil {
			return o.fail(fmt.Errorf("summarize: %w", err))
		}
	}

	rec := &domain.CaptureRecord{
		ObservedAt:     observedAt,
		Summary:        summary,
		ScreenshotPath: imagePath,
		AppName:        winCtx.AppName,
		WindowTitle:    winCtx.WindowTitle,
		RecordedAt:     time.Now(),
	}
	if _, err := o.store.Insert(ctx, rec); err != nil {
		return o.fail(fmt.Errorf("store record: %w", err))
	}

	o.captureCount.Add(1)
	o.mu.Lock()
	o.lastErr = ""
	o.mu.Unlock()
	logger.Info("capture stored: app=%q title=%q", rec.AppName, rec.WindowTitle)
	return nil
}

// backgroundExclusion implements the extra check that applies only when
// foreground-only exclusion is disabled AND full-screen capture mode is
// active: any excluded application or excluded-profile browser running in
// the background skips the cycle. With frontmost-only capture the
// foreground check is sufficient.
func (o *Orchestrator) backgroundExclusion(ctx context.Context, cfg domain.Settings) (bool, string) {
	if cfg.ExcludeOnlyWhenForeground || cfg.FrontmostOnly {
		return false, ""
	}
	if len(cfg.ExcludedApps) == 0 && len(cfg.ExcludedProfiles) == 0 {
		return false, ""
	}

	running, err := o.window.RunningApps(ctx)
	if err != nil {
		logger.Debug("running apps unresolved: %v", err)
		return false, ""
	}

	for _, appID := range cfg.ExcludedApps {
		if containsFold(running, appID) {
			return true, "excluded app running in background: " + appID
		}
	}
	for _, ref := range cfg.ExcludedProfiles {
		browser, _, ok := domain.SplitProfileRef(ref)
		if !ok {
			continue
		}
		for _, id := range browser.AppIdentifiers() {
			if containsFold(running, id) {
				return true, "excluded browser profile running: " + ref
			}
		}
	}
	return false, ""
}

// fail records a per-cycle error and returns it. The scheduler is not
// stopped; the next tick is the retry.
func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.lastErr = err.Error()
	o.mu.Unlock()
	return err
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func describeMatch(d domain.Decision) string {
	switch {
	case d.MatchedKeyword != "":
		return "keyword " + d.MatchedKeyword
	case d.MatchedProfile != nil:
		return "profile " + d.MatchedProfile.ID
	default:
		return "no match"
	}
}
