package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one configuration value",
	Long: `Changes a configuration value. List-valued keys take a
comma-separated value.

Keys:
  interval                      capture period, e.g. 5m or 90s
  frontmost_only                true|false
  screenshots_dir               directory path
  retention_days                integer, 0 disables retention
  pause_during_sleep            true|false
  capture_feedback              true|false
  custom_prompt                 text, empty clears the override
  skip_private_browsing         true|false
  exclude_only_when_foreground  true|false
  excluded_apps                 comma-separated app identifiers
  exclude_keywords              comma-separated keywords
  mask_keywords                 comma-separated keywords
  excluded_profiles             comma-separated profile ids`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List configured summarizer commands",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCommands,
}

var settingsSelectCmd = &cobra.Command{
	Use:   "select [name or id]",
	Short: "Select the active summarizer command",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSelect,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCommandsCmd)
	settingsCmd.AddCommand(settingsSelectCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Printf("interval:                      %s\n", cfg.Interval)
	cmd.Printf("frontmost_only:                %t\n", cfg.FrontmostOnly)
	cmd.Printf("screenshots_dir:               %s\n", orDefault(cfg.ScreenshotsDir))
	cmd.Printf("retention_days:                %d\n", cfg.RetentionDays)
	cmd.Printf("pause_during_sleep:            %t\n", cfg.PauseDuringSleep)
	cmd.Printf("capture_feedback:              %t\n", cfg.CaptureFeedback)
	cmd.Printf("custom_prompt:                 %s\n", orDefault(cfg.CustomPrompt))
	cmd.Printf("skip_private_browsing:         %t\n", cfg.SkipPrivateBrowsing)
	cmd.Printf("exclude_only_when_foreground:  %t\n", cfg.ExcludeOnlyWhenForeground)
	cmd.Printf("excluded_apps:                 %s\n", strings.Join(cfg.ExcludedApps, ", "))
	cmd.Printf("exclude_keywords:              %s\n", strings.Join(cfg.ExcludeKeywords, ", "))
	cmd.Printf("mask_keywords:                 %s\n", strings.Join(cfg.MaskKeywords, ", "))
	cmd.Printf("excluded_profiles:             %s\n", strings.Join(cfg.ExcludedProfiles, ", "))
	if spec, ok := cfg.SelectedSpec(); ok {
		cmd.Printf("selected_command:              %s\n", spec.Name)
	} else {
		cmd.Printf("selected_command:              (none)\n")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	apply, err := settingMutation(key, value)
	if err != nil {
		return err
	}

	if _, err := settingsService.Update(apply); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

// settingMutation maps a key/value pair to a settings mutation.
func settingMutation(key, value string) (func(*domain.Settings), error) {
	switch key {
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		if d < 10*time.Second {
			return nil, fmt.Errorf("interval must be at least 10s")
		}
		return func(s *domain.Settings) { s.Interval = d }, nil
	case "frontmost_only":
		return boolMutation(value, func(s *domain.Settings, v bool) { s.FrontmostOnly = v })
	case "screenshots_dir":
		return func(s *domain.Settings) { s.ScreenshotsDir = value }, nil
	case "retention_days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid retention_days %q", value)
		}
		return func(s *domain.Settings) { s.RetentionDays = n }, nil
	case "pause_during_sleep":
		return boolMutation(value, func(s *domain.Settings, v bool) { s.PauseDuringSleep = v })
	case "capture_feedback":
		return boolMutation(value, func(s *domain.Settings, v bool) { s.CaptureFeedback = v })
	case "custom_prompt":
		return func(s *domain.Settings) { s.CustomPrompt = value }, nil
	case "skip_private_browsing":
		return boolMutation(value, func(s *domain.Settings, v bool) { s.SkipPrivateBrowsing = v })
	case "exclude_only_when_foreground":
		return boolMutation(value, func(s *domain.Settings, v bool) { s.ExcludeOnlyWhenForeground = v })
	case "excluded_apps":
		return func(s *domain.Settings) { s.ExcludedApps = splitList(value) }, nil
	case "exclude_keywords":
		return func(s *domain.Settings) { s.ExcludeKeywords = splitList(value) }, nil
	case "mask_keywords":
		return func(s *domain.Settings) { s.MaskKeywords = splitList(value) }, nil
	case "excluded_profiles":
		return func(s *domain.Settings) { s.ExcludedProfiles = splitList(value) }, nil
	default:
		return nil, fmt.Errorf("unknown setting %q", key)
	}
}

func boolMutation(value string, set func(*domain.Settings, bool)) (func(*domain.Settings), error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", value)
	}
	return func(s *domain.Settings) { set(s, v) }, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func runSettingsCommands(cmd *cobra.Command, _ []string) error {
	cfg, err := settingsService.Get()
	if err != nil {
		return err
	}

	for _, spec := range cfg.Commands {
		marker := " "
		if spec.ID.String() == cfg.SelectedCommand {
			marker = "*"
		}
		state := "disabled"
		if spec.Enabled {
			state = "enabled"
		}
		cmd.Printf("  [%s] %-16s %-8s %s\n", marker, spec.Name, state, spec.ID)
	}
	return nil
}

func runSettingsSelect(cmd *cobra.Command, args []string) error {
	ref := args[0]

	// The match is resolved before touching the store, so an unknown
	// reference never rewrites the config file.
	cfg, err := settingsService.Get()
	if err != nil {
		return err
	}
	var selected *domain.CommandSpec
	for i, spec := range cfg.Commands {
		if !spec.Enabled {
			continue
		}
		if spec.ID.String() == ref || strings.EqualFold(spec.Name, ref) {
			selected = &cfg.Commands[i]
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("no enabled command matches %q", ref)
	}

	id := selected.ID.String()
	if _, err := settingsService.Update(func(s *domain.Settings) {
		s.SelectedCommand = id
	}); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Selected %s.\n", selected.Name)
	return nil
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
