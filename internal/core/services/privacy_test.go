package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldiza/recapd/internal/core/domain"
)

func TestEvaluatePrivacyAllowsEmptyTitle(t *testing.T) {
	rules := domain.RuleSet{
		ExcludeKeywords: []string{"secret"},
		MaskKeywords:    []string{"password"},
	}

	d := EvaluatePrivacy("", "com.google.Chrome", rules)
	assert.Equal(t, domain.VerdictAllow, d.Verdict)
}

func TestEvaluatePrivacyExcludeKeyword(t *testing.T) {
	rules := domain.RuleSet{ExcludeKeywords: []string{"banking", "therapy"}}

	d := EvaluatePrivacy("My Banking Dashboard - Chrome", "com.google.Chrome", rules)
	assert.Equal(t, domain.VerdictExclude, d.Verdict)
	assert.Equal(t, "banking", d.MatchedKeyword)

	// Case-insensitive substring match.
	d = EvaluatePrivacy("THERAPY notes", "", rules)
	assert.Equal(t, domain.VerdictExclude, d.Verdict)
}

func TestEvaluatePrivacyMaskKeyword(t *testing.T) {
	rules := domain.RuleSet{MaskKeywords: []string{"password"}}

	d := EvaluatePrivacy("Reset your Password - Firefox", "firefox", rules)
	assert.Equal(t, domain.VerdictMask, d.Verdict)
	assert.Equal(t, "password", d.MatchedKeyword)
}

func TestEvaluatePrivacyExcludeDominatesMask(t *testing.T) {
	// A title matching both keyword lists must always be excluded, never
	// merely masked.
	rules := domain.RuleSet{
		ExcludeKeywords: []string{"bank"},
		MaskKeywords:    []string{"password"},
	}

	d := EvaluatePrivacy("bank password reset", "", rules)
	assert.Equal(t, domain.VerdictExclude, d.Verdict)
}

func TestEvaluatePrivacyExcludedProfile(t *testing.T) {
	work := domain.NewBrowserProfile(domain.BrowserChrome, "Profile 1", "Work")
	rules := domain.RuleSet{
		ExcludedProfiles: []string{work.ID},
		Profiles:         []domain.BrowserProfile{work},
	}

	// Matching browser and profile name in the title.
	d := EvaluatePrivacy("Inbox - Work - Google Chrome", "com.google.Chrome", rules)
	assert.Equal(t, domain.VerdictExclude, d.Verdict)
	require.NotNil(t, d.MatchedProfile)
	assert.Equal(t, work.ID, d.MatchedProfile.ID)
}

func TestEvaluatePrivacyProfileScopedToBrowser(t *testing.T) {
	work := domain.NewBrowserProfile(domain.BrowserChrome, "Profile 1", "Work")
	rules := domain.RuleSet{
		ExcludedProfiles: []string{work.ID},
		Profiles:         []domain.BrowserProfile{work},
	}

	// Same title in Firefox: the excluded Chrome profile must not match.
	d := EvaluatePrivacy("Inbox - Work - Mozilla Firefox", "org.mozilla.firefox", rules)
	assert.Equal(t, domain.VerdictAllow, d.Verdict)

	// Unknown app identifiers are not scoped, so the profile still matches.
	d = EvaluatePrivacy("Inbox - Work", "", rules)
	assert.Equal(t, domain.VerdictExclude, d.Verdict)
}

func TestEvaluatePrivacyNoRulesAllows(t *testing.T) {
	d := EvaluatePrivacy("anything at all", "some.app", domain.RuleSet{})
	assert.Equal(t, domain.VerdictAllow, d.Verdict)
	assert.Empty(t, d.MatchedKeyword)
	assert.Nil(t, d.MatchedProfile)
}

func TestEvaluatePrivacyIsPure(t *testing.T) {
	rules := domain.RuleSet{
		ExcludeKeywords: []string{"secret"},
		MaskKeywords:    []string{"password"},
	}

	first := EvaluatePrivacy("secret password vault", "app", rules)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EvaluatePrivacy("secret password vault", "app", rules))
	}
}

func TestEvaluatePrivacyIgnoresEmptyKeywords(t *testing.T) {
	rules := domain.RuleSet{ExcludeKeywords: []string{"", "secret"}}

	d := EvaluatePrivacy("nothing to see", "", rules)
	assert.Equal(t, domain.VerdictAllow, d.Verdict)
}
