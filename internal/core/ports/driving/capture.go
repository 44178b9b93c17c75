package driving

import (
	"context"

	"github.com/haldiza/recapd/internal/core/domain"
)

// CaptureController drives the periodic capture cycle.
type CaptureController interface {
	// Start begins the periodic scheduler. Fails with
	// domain.ErrPrecondition when screen capture is not authorized or
	// no enabled summarizer is selected. Returns immediately; the loop
	// runs in the background until Stop.
	Start(ctx context.Context) error

	// Stop cancels the timer and waits for an in-flight cycle to
	// finish. Safe to call when not running.
	Stop() error

	// CaptureNow runs one cycle immediately, equivalent to a scheduler
	// tick. Returns domain.ErrCycleInProgress when a cycle is already
	// executing (the trigger is dropped, not queued) and
	// domain.ErrRateLimited when triggers arrive too fast.
	CaptureNow(ctx context.Context) error

	// NotifySleep pauses capture if the pause-on-sleep option is set.
	NotifySleep()

	// NotifyWake resumes capture after sleep.
	NotifyWake()

	// Status reports the observable session state.
	Status() domain.SessionStatus
}
