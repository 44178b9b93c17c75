package domain

import "time"

// Export formats supported by the export service.
type ExportFormat string

// Available export formats.
const (
	ExportJSON     ExportFormat = "json"
	ExportCSV      ExportFormat = "csv"
	ExportMarkdown ExportFormat = "markdown"
	ExportText     ExportFormat = "text"
)

// Settings is the full application configuration. It is loaded from the
// TOML config store and treated as an immutable snapshot by the core;
// changes take effect at the next cycle boundary.
type Settings struct {
	// Interval is the period between scheduled captures.
	Interval time.Duration `toml:"interval"`

	// FrontmostOnly captures only the frontmost window instead of the
	// full screen.
	FrontmostOnly bool `toml:"frontmost_only"`

	// ScreenshotsDir overrides the default screenshot directory.
	ScreenshotsDir string `toml:"screenshots_dir,omitempty"`

	// RetentionDays deletes records older than this many days.
	// Zero disables the retention sweep.
	RetentionDays int `toml:"retention_days"`

	// PauseDuringSleep suspends the scheduler on system sleep.
	PauseDuringSleep bool `toml:"pause_during_sleep"`

	// CaptureFeedback fires a desktop cue before each capture.
	CaptureFeedback bool `toml:"capture_feedback"`

	// CustomPrompt overrides the selected command's default prompt.
	CustomPrompt string `toml:"custom_prompt,omitempty"`

	// SelectedCommand is the ID of the active summarizer spec.
	SelectedCommand string `toml:"selected_command,omitempty"`

	// Commands holds the configured summarizer specs.
	Commands []CommandSpec `toml:"commands"`

	// Privacy rules.

	// ExcludedApps lists application identifiers that are never captured.
	ExcludedApps []string `toml:"excluded_apps"`

	// ExcludeKeywords drop a capture on a window title match.
	ExcludeKeywords []string `toml:"exclude_keywords"`

	// MaskKeywords mask the summary on a window title match.
	MaskKeywords []string `toml:"mask_keywords"`

	// ExcludedProfiles lists "<browser>:<profileId>" references to skip.
	ExcludedProfiles []string `toml:"excluded_profiles"`

	// ExcludeOnlyWhenForeground limits excluded-app checks to the
	// frontmost application.
	ExcludeOnlyWhenForeground bool `toml:"exclude_only_when_foreground"`

	// SkipPrivateBrowsing skips captures of private browsing windows.
	SkipPrivateBrowsing bool `toml:"skip_private_browsing"`
}

// DefaultSettings returns the out-of-the-box configuration. The built-in
// OCR preset is pre-selected so a fresh install can start capturing
// without any setup.
func DefaultSettings() Settings {
	commands := PresetCommands()
	return Settings{
		Interval:                  5 * time.Minute,
		FrontmostOnly:             false,
		RetentionDays:             0,
		PauseDuringSleep:          true,
		CaptureFeedback:           false,
		Commands:                  commands,
		SelectedCommand:           commands[0].ID.String(),
		ExcludeOnlyWhenForeground: true,
		SkipPrivateBrowsing:       true,
		MaskKeywords: []string{
			"password", "credit card", "bank", "1password", "keychain",
		},
	}
}

// SelectedSpec resolves the active summarizer spec. ok is false when no
// enabled spec is selected.
func (s Settings) SelectedSpec() (CommandSpec, bool) {
	for _, cmd := range s.Commands {
		if cmd.ID.String() == s.SelectedCommand && cmd.Enabled {
			return cmd, true
		}
	}
	return CommandSpec{}, false
}

// Rules assembles the privacy rule snapshot for one capture cycle.
// The profile snapshot comes from the browser profile source.
func (s Settings) Rules(profiles []BrowserProfile) RuleSet {
	return RuleSet{
		ExcludeKeywords:  s.ExcludeKeywords,
		MaskKeywords:     s.MaskKeywords,
		ExcludedProfiles: s.ExcludedProfiles,
		Profiles:         profiles,
		ForegroundOnly:   s.ExcludeOnlyWhenForeground,
	}
}
