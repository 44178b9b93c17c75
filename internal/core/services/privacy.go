package services

import (
	"strings"

	"github.com/haldiza/recapd/internal/core/domain"
)

// EvaluatePrivacy decides whether a capture is allowed, excluded, or
// masked. It is a pure function of its inputs: evaluating the same
// (title, appID, rules) twice yields the same decision.
//
// Priority order, first match wins:
//  1. absent or empty title -> allow (nothing to filter against)
//  2. exclude keyword match -> exclude
//  3. excluded browser profile match -> exclude
//  4. mask keyword match -> mask
//  5. otherwise -> allow
//
// Explicit exclude keywords are the strongest signal and win over
// profile-based exclusion, which in turn is more specific than masking.
func EvaluatePrivacy(windowTitle, appID string, rules domain.RuleSet) domain.Decision {
	if windowTitle == "" {
		return domain.Decision{Verdict: domain.VerdictAllow}
	}

	if kw := matchKeyword(windowTitle, rules.ExcludeKeywords); kw != "" {
		return domain.Decision{Verdict: domain.VerdictExclude, MatchedKeyword: kw}
	}

	if profile := matchExcludedProfile(windowTitle, appID, rules); profile != nil {
		return domain.Decision{Verdict: domain.VerdictExclude, MatchedProfile: profile}
	}

	if kw := matchKeyword(windowTitle, rules.MaskKeywords); kw != "" {
		return domain.Decision{Verdict: domain.VerdictMask, MatchedKeyword: kw}
	}

	return domain.Decision{Verdict: domain.VerdictAllow}
}

// matchKeyword returns the first keyword that is a case-insensitive
// substring of title. Keywords are an unordered set for matching purposes;
// order only changes which keyword is reported, never the verdict.
func matchKeyword(title string, keywords []string) string {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}

// matchExcludedProfile checks the window against the excluded browser
// profiles. When the application identifier implies a known browser, the
// scan is scoped to that browser's profiles, avoiding cross-browser false
// positives from identical profile names.
func matchExcludedProfile(title, appID string, rules domain.RuleSet) *domain.BrowserProfile {
	if len(rules.ExcludedProfiles) == 0 {
		return nil
	}

	activeBrowser := domain.BrowserTypeForApp(appID)
	lowerTitle := strings.ToLower(title)

	for _, ref := range rules.ExcludedProfiles {
		browser, _, ok := domain.SplitProfileRef(ref)
		if !ok {
			continue
		}
		if activeBrowser != "" && activeBrowser != browser {
			continue
		}
		for i := range rules.Profiles {
			p := &rules.Profiles[i]
			if p.ID != ref {
				continue
			}
			if p.Name != "" && strings.Contains(lowerTitle, strings.ToLower(p.Name)) {
				matched := *p
				return &matched
			}
		}
	}
	return nil
}
