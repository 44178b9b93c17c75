package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPrecondition indicates the capture session cannot start,
	// either because screen capture is not authorized or no summarizer
	// is configured. It is fatal to Start only, never to a running cycle.
	ErrPrecondition = errors.New("precondition failed")

	// ErrCycleInProgress indicates a capture cycle is already running.
	// Concurrent triggers are dropped, not queued.
	ErrCycleInProgress = errors.New("capture cycle already in progress")

	// ErrRateLimited indicates manual capture triggers arrived too fast.
	ErrRateLimited = errors.New("capture trigger rate limited")

	// ErrStoreClosed indicates the record store has been shut down.
	ErrStoreClosed = errors.New("store closed")

	// Screen capture errors.

	// ErrNotAuthorized indicates screen recording permission is missing.
	ErrNotAuthorized = errors.New("screen capture not authorized")

	// ErrNoDisplay indicates no display is available to capture.
	ErrNoDisplay = errors.New("no display available")

	// ErrNoWindow indicates no active window could be resolved.
	ErrNoWindow = errors.New("no active window")

	// Summarizer errors.

	// ErrSummarizerTimeout indicates the summarizer exceeded its deadline
	// and the underlying process was terminated.
	ErrSummarizerTimeout = errors.New("summarizer timed out")

	// ErrExecutionFailed indicates the summarizer subprocess could not be
	// started or exited abnormally.
	ErrExecutionFailed = errors.New("summarizer execution failed")
)
