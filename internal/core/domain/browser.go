package domain

import "strings"

// BrowserType identifies a supported browser family.
type BrowserType string

// Supported browsers for profile-based exclusion.
const (
	BrowserChrome  BrowserType = "chrome"
	BrowserBrave   BrowserType = "brave"
	BrowserEdge    BrowserType = "edge"
	BrowserFirefox BrowserType = "firefox"
	BrowserArc     BrowserType = "arc"
)

// AllBrowserTypes lists every supported browser family.
var AllBrowserTypes = []BrowserType{
	BrowserChrome, BrowserBrave, BrowserEdge, BrowserFirefox, BrowserArc,
}

// DisplayName returns the human-readable browser name.
func (b BrowserType) DisplayName() string {
	switch b {
	case BrowserChrome:
		return "Google Chrome"
	case BrowserBrave:
		return "Brave"
	case BrowserEdge:
		return "Microsoft Edge"
	case BrowserFirefox:
		return "Firefox"
	case BrowserArc:
		return "Arc"
	default:
		return string(b)
	}
}

// AppIdentifiers returns the platform application identifiers this browser
// is known by: the macOS bundle identifier and the Linux window class.
func (b BrowserType) AppIdentifiers() []string {
	switch b {
	case BrowserChrome:
		return []string{"com.google.Chrome", "google-chrome", "Google-chrome"}
	case BrowserBrave:
		return []string{"com.brave.Browser", "brave-browser", "Brave-browser"}
	case BrowserEdge:
		return []string{"com.microsoft.edgemac", "microsoft-edge", "Microsoft-edge"}
	case BrowserFirefox:
		return []string{"org.mozilla.firefox", "firefox", "Firefox"}
	case BrowserArc:
		return []string{"company.thebrowser.Browser", "arc"}
	default:
		return nil
	}
}

// BrowserTypeForApp resolves an application identifier to a browser type.
// Returns an empty type when the identifier is not a known browser.
func BrowserTypeForApp(appID string) BrowserType {
	for _, b := range AllBrowserTypes {
		for _, id := range b.AppIdentifiers() {
			if strings.EqualFold(id, appID) {
				return b
			}
		}
	}
	return ""
}

// BrowserProfile is one discovered browser profile.
type BrowserProfile struct {
	// ID uniquely identifies the profile as "<browser>:<profileId>".
	ID string

	// Name is the display name shown in window titles.
	Name string

	// Browser is the owning browser family.
	Browser BrowserType

	// ProfileID is the browser's own profile identifier,
	// e.g. "Default" or "Profile 1".
	ProfileID string
}

// NewBrowserProfile constructs a profile with its canonical ID.
func NewBrowserProfile(browser BrowserType, profileID, name string) BrowserProfile {
	return BrowserProfile{
		ID:        string(browser) + ":" + profileID,
		Name:      name,
		Browser:   browser,
		ProfileID: profileID,
	}
}

// SplitProfileRef splits an excluded-profile reference "<browser>:<profileId>"
// into its parts. ok is false when the reference is malformed.
func SplitProfileRef(ref string) (browser BrowserType, profileID string, ok bool) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return BrowserType(parts[0]), parts[1], true
}
