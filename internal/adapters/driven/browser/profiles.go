// Package browser discovers installed browser profiles and detects
// private browsing windows from window titles.
package browser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure ProfileSource implements the interface.
var _ driven.ProfileSource = (*ProfileSource)(nil)

// ProfileSource reads profile metadata from the browsers' own config
// files on disk. Discovery is best-effort: a browser that is not
// installed, or whose files cannot be parsed, contributes nothing.
type ProfileSource struct {
	// homeDir overrides the user home for tests.
	homeDir string
}

// NewProfileSource creates a profile source.
func NewProfileSource() *ProfileSource {
	return &ProfileSource{}
}

// Profiles returns every discovered profile across all supported browsers.
func (p *ProfileSource) Profiles() []domain.BrowserProfile {
	home := p.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			logger.Warn("profile discovery: %v", err)
			return nil
		}
	}

	var profiles []domain.BrowserProfile
	for browser, dir := range chromiumConfigDirs(home) {
		profiles = append(profiles, chromiumProfiles(browser, dir)...)
	}
	profiles = append(profiles, firefoxProfiles(firefoxConfigDir(home))...)

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles
}

// chromiumConfigDirs maps each Chromium-family browser to its user data
// directory on this platform.
func chromiumConfigDirs(home string) map[domain.BrowserType]string {
	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(home, "Library", "Application Support")
		return map[domain.BrowserType]string{
			domain.BrowserChrome: filepath.Join(appSupport, "Google", "Chrome"),
			domain.BrowserBrave:  filepath.Join(appSupport, "BraveSoftware", "Brave-Browser"),
			domain.BrowserEdge:   filepath.Join(appSupport, "Microsoft Edge"),
			domain.BrowserArc:    filepath.Join(appSupport, "Arc", "User Data"),
		}
	}
	config := filepath.Join(home, ".config")
	return map[domain.BrowserType]string{
		domain.BrowserChrome: filepath.Join(config, "google-chrome"),
		domain.BrowserBrave:  filepath.Join(config, "BraveSoftware", "Brave-Browser"),
		domain.BrowserEdge:   filepath.Join(config, "microsoft-edge"),
	}
}

func firefoxConfigDir(home string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "Firefox")
	}
	return filepath.Join(home, ".mozilla", "firefox")
}

// localState is the subset of Chromium's "Local State" JSON we read.
type localState struct {
	Profile struct {
		InfoCache map[string]struct {
			Name string `json:"name"`
		} `json:"info_cache"`
	} `json:"profile"`
}

// chromiumProfiles reads the profile list from a Chromium user data dir.
func chromiumProfiles(browser domain.BrowserType, dir string) []domain.BrowserProfile {
	data, err := os.ReadFile(filepath.Join(dir, "Local State"))
	if err != nil {
		return nil
	}

	var state localState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Debug("parsing %s Local State: %v", browser, err)
		return nil
	}

	profiles := make([]domain.BrowserProfile, 0, len(state.Profile.InfoCache))
	for id, info := range state.Profile.InfoCache {
		name := info.Name
		if name == "" {
			name = id
		}
		profiles = append(profiles, domain.NewBrowserProfile(browser, id, name))
	}
	return profiles
}

// firefoxProfiles reads profiles.ini from the Firefox config dir.
func firefoxProfiles(dir string) []domain.BrowserProfile {
	path := filepath.Join(dir, "profiles.ini")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		logger.Debug("parsing profiles.ini: %v", err)
		return nil
	}

	var profiles []domain.BrowserProfile
	for _, section := range cfg.Sections() {
		if !strings.HasPrefix(section.Name(), "Profile") {
			continue
		}
		name := section.Key("Name").String()
		if name == "" {
			continue
		}
		profiles = append(profiles,
			domain.NewBrowserProfile(domain.BrowserFirefox, name, name))
	}
	return profiles
}
