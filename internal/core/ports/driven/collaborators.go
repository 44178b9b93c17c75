package driven

import (
	"context"

	"github.com/haldiza/recapd/internal/core/domain"
)

// ScreenCapturer acquires screen images.
type ScreenCapturer interface {
	// Check verifies that capture is possible. Fails with
	// domain.ErrNotAuthorized or domain.ErrNoDisplay.
	Check(ctx context.Context) error

	// CaptureScreen captures the active region and returns the path of
	// the saved image file. The caller owns the file.
	CaptureScreen(ctx context.Context) (string, error)
}

// WindowInspector resolves the active application and window.
type WindowInspector interface {
	// ActiveContext returns the frontmost application and window.
	// Fields may be empty when the platform cannot resolve them.
	ActiveContext(ctx context.Context) (domain.WindowContext, error)

	// RunningApps lists identifiers of all running applications, used
	// by the background-exclusion check.
	RunningApps(ctx context.Context) ([]string, error)
}

// PrivateBrowsingDetector is a best-effort heuristic for private or
// incognito browsing sessions. False negatives are acceptable.
type PrivateBrowsingDetector interface {
	IsPrivate(appID, windowTitle string) bool
}

// Summarizer turns a screenshot into descriptive text. Implementations are
// bounded by the context deadline and never return empty text on success.
type Summarizer interface {
	Summarize(ctx context.Context, imagePath, promptOverride string) (string, error)
}

// SummarizerFactory builds a Summarizer for a configured spec.
type SummarizerFactory interface {
	For(spec domain.CommandSpec) (Summarizer, error)
}

// ProfileSource discovers browser profiles on this machine.
type ProfileSource interface {
	// Profiles returns all discovered profiles. Best-effort: browsers
	// that are not installed contribute nothing.
	Profiles() []domain.BrowserProfile
}

// Feedback plays a visual or audible capture cue. Fire-and-forget: the
// orchestrator never awaits it and it must not fail the cycle.
type Feedback interface {
	CaptureCue()
}

// ConfigStore loads and saves the application settings snapshot.
type ConfigStore interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error

	// Path returns the backing file path, used by the config watcher.
	Path() string
}
