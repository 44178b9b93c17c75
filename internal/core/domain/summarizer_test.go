package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommandSubstitutesPlaceholders(t *testing.T) {
	spec := CommandSpec{
		Kind:          SummarizerCommand,
		Template:      `cd {image_dir} && tool -p {prompt} -i {image_name}`,
		DefaultPrompt: "describe the screen",
	}

	got := spec.RenderCommand("/home/u/shots/cap.png", "")
	assert.Equal(t,
		`cd '/home/u/shots' && tool -p 'describe the screen' -i 'cap.png'`, got)
}

func TestRenderCommandPromptOverride(t *testing.T) {
	spec := CommandSpec{
		Kind:          SummarizerCommand,
		Template:      `tool {prompt}`,
		DefaultPrompt: "default",
	}

	assert.Equal(t, `tool 'override'`, spec.RenderCommand("/a.png", "override"))
	assert.Equal(t, `tool 'default'`, spec.RenderCommand("/a.png", ""))
}

func TestRenderCommandEscapesHostileValues(t *testing.T) {
	spec := CommandSpec{
		Kind:     SummarizerCommand,
		Template: `tool {image_path} {prompt}`,
	}

	hostile := `/tmp/it's a "test"; rm -rf ~.png`
	got := spec.RenderCommand(hostile, `say "hi"; $(whoami)`)

	// Single quotes in values are closed, escaped and reopened; nothing
	// can break out of the quoted argument.
	assert.Contains(t, got, `'/tmp/it'\''s a "test"; rm -rf ~.png'`)
	assert.Contains(t, got, `'say "hi"; $(whoami)'`)
}

func TestRenderCommandQuotedFormNotDoubleQuoted(t *testing.T) {
	spec := CommandSpec{
		Kind:     SummarizerCommand,
		Template: `tool "{image_path}"`,
	}

	// A template that already quotes the placeholder must not end up with
	// nested quoting.
	assert.Equal(t, `tool '/a b.png'`, spec.RenderCommand("/a b.png", ""))
}

func TestSelectedSpec(t *testing.T) {
	cfg := DefaultSettings()

	spec, ok := cfg.SelectedSpec()
	require.True(t, ok)
	assert.Equal(t, SummarizerOCR, spec.Kind)

	// Selecting a disabled command yields nothing.
	for i := range cfg.Commands {
		if !cfg.Commands[i].Enabled {
			cfg.SelectedCommand = cfg.Commands[i].ID.String()
			break
		}
	}
	_, ok = cfg.SelectedSpec()
	assert.False(t, ok)

	cfg.SelectedCommand = "not-a-real-id"
	_, ok = cfg.SelectedSpec()
	assert.False(t, ok)
}

func TestPresetCommands(t *testing.T) {
	presets := PresetCommands()
	require.NotEmpty(t, presets)

	assert.True(t, presets[0].IsOCR())
	assert.True(t, presets[0].Enabled)
	for _, p := range presets[1:] {
		assert.Equal(t, SummarizerCommand, p.Kind)
		assert.NotEmpty(t, p.Template)
		assert.NotEmpty(t, p.DefaultPrompt)
	}
}
