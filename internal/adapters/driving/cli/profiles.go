package cli

import (
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List discovered browser profiles",
	Long: `Lists browser profiles found on this machine. Use a profile's id
with "settings set excluded_profiles" to exclude it from capture.`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	profiles := profileSource.Profiles()
	if len(profiles) == 0 {
		cmd.Println("No browser profiles found.")
		return nil
	}

	cfg, err := settingsService.Get()
	if err != nil {
		return err
	}
	excluded := make(map[string]bool, len(cfg.ExcludedProfiles))
	for _, ref := range cfg.ExcludedProfiles {
		excluded[ref] = true
	}

	for _, p := range profiles {
		marker := " "
		if excluded[p.ID] {
			marker = "x"
		}
		cmd.Printf("  [%s] %-28s %s (%s)\n", marker, p.ID, p.Name, p.Browser.DisplayName())
	}
	return nil
}
