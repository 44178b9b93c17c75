package domain

// Verdict is the three-way outcome of the privacy decision engine.
type Verdict int

// Verdict values, in increasing permissiveness.
const (
	// VerdictExclude skips the capture entirely.
	VerdictExclude Verdict = iota

	// VerdictMask captures but substitutes a fixed placeholder for the
	// summary text. The real screen content is never analyzed.
	VerdictMask

	// VerdictAllow captures and summarizes normally.
	VerdictAllow
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictExclude:
		return "exclude"
	case VerdictMask:
		return "mask"
	case VerdictAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// MaskedSummary is the fixed placeholder stored in place of real content
// when a capture is masked. It must never contain content-derived text.
const MaskedSummary = "[Private] This capture was masked by your privacy settings"

// RuleSet is a read-only snapshot of the configured privacy rules.
// The decision engine never mutates it; configuration changes produce a
// fresh snapshot observed at the next cycle boundary.
type RuleSet struct {
	// ExcludeKeywords drop a capture when one is a case-insensitive
	// substring of the window title.
	ExcludeKeywords []string

	// MaskKeywords replace the summary with MaskedSummary when matched.
	MaskKeywords []string

	// ExcludedProfiles holds "<browser>:<profileId>" references whose
	// windows are excluded.
	ExcludedProfiles []string

	// Profiles is the known-profile snapshot used to resolve display
	// names for ExcludedProfiles matching.
	Profiles []BrowserProfile

	// ForegroundOnly limits excluded-app checks to the frontmost
	// application. When false, excluded sources running in the
	// background also count.
	ForegroundOnly bool
}

// Decision is the engine's verdict together with what matched, for logging.
type Decision struct {
	Verdict Verdict

	// MatchedKeyword is the exclude or mask keyword that decided the
	// verdict, when one did.
	MatchedKeyword string

	// MatchedProfile is the excluded browser profile that decided the
	// verdict, when one did.
	MatchedProfile *BrowserProfile
}
