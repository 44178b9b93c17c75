// Package screen captures the display using the platform's native
// screenshot tool: screencapture on macOS, grim on Wayland, scrot on X11.
package screen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure Capturer implements the interface.
var _ driven.ScreenCapturer = (*Capturer)(nil)

// captureTimeout bounds one screenshot invocation.
const captureTimeout = 15 * time.Second

// Options are the capture parameters, re-read before every capture so
// configuration changes apply without restarting the daemon.
type Options struct {
	// Dir is the screenshot directory. Empty means ~/.recapd/screenshots.
	Dir string

	// FrontmostOnly captures only the focused window where the platform
	// tool supports it.
	FrontmostOnly bool
}

// Capturer shells out to the platform screenshot tool.
type Capturer struct {
	options func() Options
}

// NewCapturer creates a capturer. options is called at every capture.
func NewCapturer(options func() Options) *Capturer {
	return &Capturer{options: options}
}

// Check verifies a display is reachable and a capture tool is installed.
func (c *Capturer) Check(ctx context.Context) error {
	tool, err := captureTool()
	if err != nil {
		return err
	}
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("capture tool %q not found in PATH: %w", tool, err)
	}
	return nil
}

// CaptureScreen takes a screenshot and returns the saved file path.
func (c *Capturer) CaptureScreen(ctx context.Context) (string, error) {
	opts := c.options()

	dir := opts.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".recapd", "screenshots")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}

	// Timestamp for humans browsing the directory, uuid suffix so two
	// captures in the same second never collide.
	name := fmt.Sprintf("capture_%s_%s.png",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	cmd, err := captureCommand(ctx, path, opts.FrontmostOnly)
	if err != nil {
		return "", err
	}

	logger.Debug("capturing screen: %s", cmd.String())
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("screenshot command failed: %w: %s", err, string(out))
	}

	// Some tools exit zero without writing a file when capture is denied.
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		os.Remove(path)
		return "", fmt.Errorf("screenshot not written: %w", domain.ErrNotAuthorized)
	}
	return path, nil
}

// captureTool picks the screenshot binary for this platform.
func captureTool() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "screencapture", nil
	case "linux":
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			return "grim", nil
		}
		if os.Getenv("DISPLAY") != "" {
			return "scrot", nil
		}
		return "", fmt.Errorf("no display session found: %w", domain.ErrNoDisplay)
	default:
		return "", fmt.Errorf("screen capture not supported on %s", runtime.GOOS)
	}
}

// captureCommand builds the screenshot invocation for this platform.
func captureCommand(ctx context.Context, path string, frontmost bool) (*exec.Cmd, error) {
	tool, err := captureTool()
	if err != nil {
		return nil, err
	}

	switch tool {
	case "screencapture":
		args := []string{"-x"}
		if frontmost {
			// -o omits the window shadow on window captures.
			args = append(args, "-o")
		}
		args = append(args, path)
		return exec.CommandContext(ctx, "screencapture", args...), nil
	case "grim":
		return exec.CommandContext(ctx, "grim", path), nil
	case "scrot":
		args := []string{"-o"}
		if frontmost {
			// -u restricts the shot to the focused window.
			args = append(args, "-u")
		}
		args = append(args, path)
		return exec.CommandContext(ctx, "scrot", args...), nil
	default:
		return nil, fmt.Errorf("unknown capture tool %q", tool)
	}
}
