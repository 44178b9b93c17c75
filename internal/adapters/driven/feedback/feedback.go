// Package feedback plays a short desktop cue when a capture fires.
package feedback

import (
	"os/exec"
	"runtime"

	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure Desktop implements the interface.
var _ driven.Feedback = (*Desktop)(nil)

// Desktop signals a capture with the platform's notification or sound
// facility. Every call is fire-and-forget; a missing tool only logs.
type Desktop struct{}

// NewDesktop creates the desktop feedback adapter.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// CaptureCue plays the cue. Never blocks on the cue finishing.
func (d *Desktop) CaptureCue() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("afplay", "/System/Library/Sounds/Tink.aiff")
	default:
		if _, err := exec.LookPath("paplay"); err == nil {
			cmd = exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/camera-shutter.oga")
		} else if _, err := exec.LookPath("notify-send"); err == nil {
			cmd = exec.Command("notify-send", "-t", "800", "-u", "low", "recapd", "capture")
		}
	}
	if cmd == nil {
		return
	}
	if err := cmd.Start(); err != nil {
		logger.Debug("capture cue: %v", err)
		return
	}
	// Reap the child without waiting here.
	go cmd.Wait() //nolint:errcheck
}
