package domain

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SummarizerKind selects the summarizer implementation.
type SummarizerKind string

// Summarizer kinds. A CommandSpec is either built-in OCR or an external
// command template; there is no string sentinel inside the template.
const (
	SummarizerOCR     SummarizerKind = "ocr"
	SummarizerCommand SummarizerKind = "command"
)

// CommandSpec is one configured summarizer: built-in OCR or an external
// command template with placeholder substitution.
type CommandSpec struct {
	// ID uniquely identifies the command spec.
	ID uuid.UUID `toml:"id"`

	// Name is the human-readable label.
	Name string `toml:"name"`

	// Kind selects OCR or external command.
	Kind SummarizerKind `toml:"kind"`

	// Template is the shell command template for SummarizerCommand.
	// It may contain {image_path}, {image_dir}, {image_name} and
	// {prompt} placeholders. Empty for SummarizerOCR.
	Template string `toml:"template,omitempty"`

	// DefaultPrompt is substituted for {prompt} when no override is set.
	DefaultPrompt string `toml:"default_prompt,omitempty"`

	// Enabled marks the spec as selectable.
	Enabled bool `toml:"enabled"`
}

// IsOCR reports whether this spec uses the built-in OCR engine.
func (c CommandSpec) IsOCR() bool {
	return c.Kind == SummarizerOCR
}

// shellEscape wraps s in single quotes for safe interpolation into a shell
// command. Embedded single quotes become the sequence end-quote,
// escaped-quote, start-quote: 'foo'bar' renders as 'foo'\''bar'.
func shellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// placeholder substitution order matters: quoted forms first, so a template
// written as "{image_path}" does not end up double-quoted.
var placeholderForms = []string{
	`"{image_path}"`, `{image_path}`,
	`"{image_dir}"`, `{image_dir}`,
	`"{image_name}"`, `{image_name}`,
	`"{prompt}"`, `{prompt}`,
}

// RenderCommand renders the command template, substituting every
// placeholder with a shell-escaped value. Substituted text can never
// terminate its enclosing quotes, so hostile image paths or prompts are
// treated as opaque arguments.
func (c CommandSpec) RenderCommand(imagePath, prompt string) string {
	if prompt == "" {
		prompt = c.DefaultPrompt
	}
	values := map[string]string{
		"{image_path}": shellEscape(imagePath),
		"{image_dir}":  shellEscape(filepath.Dir(imagePath)),
		"{image_name}": shellEscape(filepath.Base(imagePath)),
		"{prompt}":     shellEscape(prompt),
	}

	rendered := c.Template
	for _, form := range placeholderForms {
		bare := strings.Trim(form, `"`)
		rendered = strings.ReplaceAll(rendered, form, values[bare])
	}
	return rendered
}

// PresetCommands returns the built-in summarizer specs. OCR is enabled by
// default; the external AI commands ship disabled until the user selects
// one.
func PresetCommands() []CommandSpec {
	return []CommandSpec{
		{
			ID:      uuid.New(),
			Name:    "OCR (built-in)",
			Kind:    SummarizerOCR,
			Enabled: true,
		},
		{
			ID:            uuid.New(),
			Name:          "Gemini",
			Kind:          SummarizerCommand,
			Template:      `cd {image_dir} && gemini -p {prompt} -i {image_name} -o text -y`,
			DefaultPrompt: "Look at this screenshot and summarize briefly what the user is doing.",
			Enabled:       true,
		},
		{
			ID:            uuid.New(),
			Name:          "Claude",
			Kind:          SummarizerCommand,
			Template:      `cat {image_path} | base64 | xargs -I {} claude -p {prompt} --no-session-persistence`,
			DefaultPrompt: "Look at this screenshot and summarize briefly what the user is doing.",
			Enabled:       false,
		},
		{
			ID:            uuid.New(),
			Name:          "llm (GPT-4o)",
			Kind:          SummarizerCommand,
			Template:      `llm -m gpt-4o {prompt} -a {image_path}`,
			DefaultPrompt: "Look at this screenshot and summarize briefly what the user is doing.",
			Enabled:       false,
		},
	}
}
