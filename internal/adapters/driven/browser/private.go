package browser

import (
	"strings"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// Ensure PrivateDetector implements the interface.
var _ driven.PrivateBrowsingDetector = (*PrivateDetector)(nil)

// PrivateDetector recognizes private browsing windows by their title
// markers. Browsers put a mode marker in the window title; the check is
// scoped per browser family so a page that merely mentions "incognito"
// in another browser is not flagged. False negatives are acceptable.
type PrivateDetector struct{}

// NewPrivateDetector creates a detector.
func NewPrivateDetector() *PrivateDetector {
	return &PrivateDetector{}
}

// markers per browser family. Firefox and Edge localize less aggressively
// than Chrome, but the English markers cover the default locales.
var privateMarkers = map[domain.BrowserType][]string{
	domain.BrowserChrome:  {"incognito"},
	domain.BrowserBrave:   {"private", "incognito"},
	domain.BrowserEdge:    {"inprivate"},
	domain.BrowserFirefox: {"private browsing"},
	domain.BrowserArc:     {"incognito"},
}

// IsPrivate reports whether the window title indicates a private session
// of the browser identified by appID. Non-browser apps are never private.
func (d *PrivateDetector) IsPrivate(appID, windowTitle string) bool {
	browser := domain.BrowserTypeForApp(appID)
	if browser == "" {
		return false
	}

	title := strings.ToLower(windowTitle)
	for _, marker := range privateMarkers[browser] {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
