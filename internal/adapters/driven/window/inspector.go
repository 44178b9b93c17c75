// Package window resolves the active application and window title via
// the platform's window manager tooling.
package window

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.WindowInspector = (*Inspector)(nil)

const queryTimeout = 5 * time.Second

// Inspector shells out to the platform window tooling. All lookups are
// best-effort: an empty context is returned when the platform cannot
// resolve the active window.
type Inspector struct{}

// NewInspector creates an inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// ActiveContext returns the frontmost application and window.
func (i *Inspector) ActiveContext(ctx context.Context) (domain.WindowContext, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	switch {
	case runtime.GOOS == "darwin":
		return activeContextDarwin(ctx)
	case os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
		return activeContextHyprland(ctx)
	case os.Getenv("DISPLAY") != "":
		return activeContextX11(ctx)
	default:
		return domain.WindowContext{}, nil
	}
}

// RunningApps lists identifiers of running applications.
func (i *Inspector) RunningApps(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	switch {
	case runtime.GOOS == "darwin":
		return runningAppsDarwin(ctx)
	case os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
		return runningAppsHyprland(ctx)
	case os.Getenv("DISPLAY") != "":
		return runningAppsX11(ctx)
	default:
		return nil, nil
	}
}

// hyprWindow is the subset of `hyprctl activewindow -j` we read.
type hyprWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

func activeContextHyprland(ctx context.Context) (domain.WindowContext, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return domain.WindowContext{}, fmt.Errorf("hyprctl activewindow: %w", err)
	}

	var w hyprWindow
	if err := json.Unmarshal(out, &w); err != nil {
		return domain.WindowContext{}, fmt.Errorf("parsing hyprctl output: %w", err)
	}
	return domain.WindowContext{
		AppName:     w.Class,
		WindowTitle: w.Title,
		AppID:       w.Class,
	}, nil
}

func runningAppsHyprland(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "clients", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("hyprctl clients: %w", err)
	}

	var windows []hyprWindow
	if err := json.Unmarshal(out, &windows); err != nil {
		return nil, fmt.Errorf("parsing hyprctl output: %w", err)
	}
	return uniqueNonEmpty(func(yield func(string)) {
		for _, w := range windows {
			yield(w.Class)
		}
	}), nil
}

func activeContextX11(ctx context.Context) (domain.WindowContext, error) {
	id, err := exec.CommandContext(ctx, "xdotool", "getactivewindow").Output()
	if err != nil {
		return domain.WindowContext{}, fmt.Errorf("xdotool getactivewindow: %w", err)
	}
	win := strings.TrimSpace(string(id))

	title, err := exec.CommandContext(ctx, "xdotool", "getwindowname", win).Output()
	if err != nil {
		logger.Debug("xdotool getwindowname: %v", err)
	}
	class, err := exec.CommandContext(ctx, "xdotool", "getwindowclassname", win).Output()
	if err != nil {
		logger.Debug("xdotool getwindowclassname: %v", err)
	}

	appID := strings.TrimSpace(string(class))
	return domain.WindowContext{
		AppName:     appID,
		WindowTitle: strings.TrimSpace(string(title)),
		AppID:       appID,
	}, nil
}

func runningAppsX11(ctx context.Context) ([]string, error) {
	// wmctrl -lx prints one window per line; the third column is
	// "instance.class".
	out, err := exec.CommandContext(ctx, "wmctrl", "-lx").Output()
	if err != nil {
		return nil, fmt.Errorf("wmctrl: %w", err)
	}

	return uniqueNonEmpty(func(yield func(string)) {
		for _, line := range strings.Split(string(out), "\n") {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			class := fields[2]
			if idx := strings.LastIndex(class, "."); idx >= 0 {
				class = class[idx+1:]
			}
			yield(class)
		}
	}), nil
}

func activeContextDarwin(ctx context.Context) (domain.WindowContext, error) {
	const script = `
		tell application "System Events"
			set frontApp to first application process whose frontmost is true
			set appName to name of frontApp
			set appID to bundle identifier of frontApp
			set winTitle to ""
			try
				set winTitle to name of front window of frontApp
			end try
			return appName & "\n" & appID & "\n" & winTitle
		end tell`

	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return domain.WindowContext{}, fmt.Errorf("osascript: %w", err)
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 3)
	wc := domain.WindowContext{}
	if len(lines) > 0 {
		wc.AppName = lines[0]
	}
	if len(lines) > 1 {
		wc.AppID = lines[1]
	}
	if len(lines) > 2 {
		wc.WindowTitle = lines[2]
	}
	return wc, nil
}

func runningAppsDarwin(ctx context.Context) ([]string, error) {
	const script = `
		tell application "System Events"
			return bundle identifier of every application process whose background only is false
		end tell`

	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}

	return uniqueNonEmpty(func(yield func(string)) {
		for _, id := range strings.Split(strings.TrimSpace(string(out)), ", ") {
			yield(strings.TrimSpace(id))
		}
	}), nil
}

// uniqueNonEmpty collects distinct non-empty strings from src, preserving
// first-seen order.
func uniqueNonEmpty(src func(yield func(string))) []string {
	seen := make(map[string]struct{})
	var out []string
	src(func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}
