package domain

import "time"

// CaptureRecord is one observation of the screen at a point in time.
type CaptureRecord struct {
	// ID is assigned by the store and increases monotonically.
	ID int64

	// ObservedAt is the timestamp of the screen state.
	ObservedAt time.Time

	// Summary is the text derived from the capture. A stored record
	// always has a non-empty summary.
	Summary string

	// ScreenshotPath is an optional filesystem reference. The file is
	// owned by the capture pipeline, not by the store.
	ScreenshotPath string

	// AppName is the name of the frontmost application, if known.
	AppName string

	// WindowTitle is the title of the active window, if known.
	WindowTitle string

	// RecordedAt is the timestamp of persistence. Retention sweeps and
	// "today" queries use this, not ObservedAt.
	RecordedAt time.Time
}

// WindowContext describes the active application and window at capture time.
// Any field may be empty when the inspector cannot resolve it.
type WindowContext struct {
	// AppName is the human-readable application name.
	AppName string

	// WindowTitle is the active window's title.
	WindowTitle string

	// AppID is the platform application identifier (bundle ID on macOS,
	// window class on Linux).
	AppID string
}

// AppCount pairs an application name with its record count.
type AppCount struct {
	AppName string
	Count   int
}

// Statistics aggregates stored capture records.
type Statistics struct {
	// TotalCount is the number of stored records.
	TotalCount int

	// TodayCount is the number of records persisted since the start of
	// the local day.
	TodayCount int

	// AppCounts holds the ten most captured applications, descending.
	AppCounts []AppCount

	// FirstRecordedAt is the persistence time of the oldest record.
	// Zero when the store is empty.
	FirstRecordedAt time.Time

	// LastRecordedAt is the persistence time of the newest record.
	LastRecordedAt time.Time
}

// SessionStatus is the observable state of the capture session.
type SessionStatus struct {
	// Running reports whether the periodic scheduler is active.
	Running bool

	// PausedForSleep reports whether capture is suspended because the
	// system is asleep.
	PausedForSleep bool

	// InFlight reports whether a cycle is currently executing.
	InFlight bool

	// CaptureCount is the number of records persisted this session.
	CaptureCount int64

	// LastError holds the most recent per-cycle failure. A successful
	// cycle clears it.
	LastError string
}
