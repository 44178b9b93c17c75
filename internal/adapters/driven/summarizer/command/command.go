// Package command runs a user-configured shell command to summarize a
// screenshot. The command template is rendered with shell-escaped
// placeholder values and executed through the shell, so tools that need
// pipes or cd work unchanged.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/logger"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// DefaultTimeout bounds one external command run. AI CLIs routinely take
// tens of seconds on a full-screen image.
const DefaultTimeout = 120 * time.Second

// Summarizer executes an external command spec.
type Summarizer struct {
	spec    domain.CommandSpec
	timeout time.Duration
}

// New creates a summarizer for the given spec.
func New(spec domain.CommandSpec) *Summarizer {
	return &Summarizer{spec: spec, timeout: DefaultTimeout}
}

// Summarize renders the command template for imagePath and runs it.
// Returns the command's cleaned stdout, or "(no output)" when the command
// succeeded silently.
func (s *Summarizer) Summarize(ctx context.Context, imagePath, promptOverride string) (string, error) {
	rendered := s.spec.RenderCommand(imagePath, promptOverride)
	logger.Debug("running summarizer command: %s", rendered)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", rendered)
	cmd.Env = commandEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command %q: %w", s.spec.Name, domain.ErrSummarizerTimeout)
	}
	if err != nil {
		return "", fmt.Errorf("command %q: %w: %s",
			s.spec.Name, domain.ErrExecutionFailed, classifyFailure(cmd, stderr.String()))
	}

	out := cleanOutput(stdout.String())
	if out == "" {
		// Some CLIs print their answer to stderr.
		out = cleanOutput(stderr.String())
	}
	if out == "" {
		return "(no output)", nil
	}
	return out, nil
}

// commandEnv builds the child environment. Launchd and systemd user
// sessions carry a minimal PATH, so the common tool locations are
// appended. TERM is forced dumb to keep CLIs from emitting control
// sequences.
func commandEnv() []string {
	env := os.Environ()

	path := os.Getenv("PATH")
	for _, extra := range []string{"/usr/local/bin", "/opt/homebrew/bin"} {
		if !strings.Contains(path, extra) {
			path += ":" + extra
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, extra := range []string{home + "/.local/bin", home + "/bin"} {
			if !strings.Contains(path, extra) {
				path += ":" + extra
			}
		}
		// Service managers start daemons with a bare environment; the
		// tool still needs to find its own configuration.
		if os.Getenv("HOME") == "" {
			env = append(env, "HOME="+home)
		}
		if os.Getenv("XDG_CONFIG_HOME") == "" {
			env = append(env, "XDG_CONFIG_HOME="+home+"/.config")
		}
	}

	env = append(env, "PATH="+path, "TERM=dumb")
	return env
}

// noisePrefixes are status lines AI CLIs print around their answer.
var noisePrefixes = []string{
	"Loaded cached credentials",
	"Loading model",
	"Data collection is disabled",
	"[dotenv",
	"(node:",
}

// cleanOutput strips tool status noise and surrounding whitespace.
func cleanOutput(out string) string {
	var kept []string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && len(kept) == 0 {
			continue
		}
		if isNoise(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isNoise(line string) bool {
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// classifyFailure turns a failed run into an actionable message. Exit
// code 127 is the shell's command-not-found; auth errors are recognized
// by their usual stderr phrasing.
func classifyFailure(cmd *exec.Cmd, stderr string) string {
	lower := strings.ToLower(stderr)
	switch {
	case cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 127:
		return "command not found, check that the tool is installed and on PATH"
	case strings.Contains(lower, "not logged in"),
		strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "authentication"):
		return "authentication failed, log in to the tool and retry"
	default:
		return firstLine(stderr)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
