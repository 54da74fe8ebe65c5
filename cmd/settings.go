package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kivo360/omoictl/internal/journal"
	"github.com/kivo360/omoictl/internal/phase"
	"github.com/kivo360/omoictl/internal/settings"
	"github.com/kivo360/omoictl/internal/telemetry"
	"github.com/kivo360/omoictl/internal/ui"
	"github.com/kivo360/omoictl/models"
)

// resolveProjectID returns the project from the flag or the configured
// default.
func resolveProjectID(cmd *cobra.Command) (string, error) {
	projectID, _ := cmd.Flags().GetString("project")
	if projectID == "" {
		projectID = GetConfig().Project.ID
	}
	if projectID == "" {
		return "", fmt.Errorf("no project selected: pass --project or set project.id in config")
	}
	return projectID, nil
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and tune spec-driven quality gate settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the project's spec-driven settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := resolveProjectID(cmd)
		if err != nil {
			return err
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		s, err := provider.GetSpecDrivenSettings(context.Background(), projectID)
		if err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "json":
			raw, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
		case "yaml":
			raw, err := yaml.Marshal(map[string]any{
				"bypass_mode":       s.BypassMode,
				"min_test_coverage": s.MinTestCoverage,
				"auto_progression":  s.AutoProgression,
				"guardian_enabled":  s.GuardianEnabled,
			})
			if err != nil {
				return err
			}
			fmt.Print(string(raw))
		default:
			printSettings(s)
		}
		return nil
	},
}

func printSettings(s models.SpecDrivenSettings) {
	fmt.Printf("  bypass mode:        %s\n", onOffText(s.BypassMode))
	fmt.Printf("  min test coverage:  %g%%\n", s.MinTestCoverage)
	fmt.Printf("  auto progression:   %s\n", onOffText(s.AutoProgression))
	fmt.Printf("  guardian:           %s\n", onOffText(s.GuardianEnabled))
	fmt.Printf("  gate enforcement:   %s\n", phase.StrictnessFor(s))
	for _, w := range settings.Warnings(s) {
		fmt.Println(ui.StylePrefixWarn.Render("  ⚠ " + w))
	}
}

func onOffText(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit spec-driven settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := resolveProjectID(cmd)
		if err != nil {
			return err
		}
		if !ui.IsInteractive() {
			return fmt.Errorf("settings edit requires an interactive terminal; use 'settings set' instead")
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		jnl := openJournal()
		if jnl != nil {
			defer func() { _ = jnl.Close() }()
		}
		track(telemetry.EventPanelOpened, map[string]any{"panel": "settings"})
		return ui.RunSettingsPanel(provider, jnl, projectID)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update individual settings non-interactively",
	Long: `Update spec-driven settings from flags. Only the flags you pass are
sent; everything else keeps its current value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := resolveProjectID(cmd)
		if err != nil {
			return err
		}

		var patch models.SpecDrivenSettingsPatch
		if cmd.Flags().Changed("bypass-mode") {
			v, _ := cmd.Flags().GetBool("bypass-mode")
			patch.BypassMode = &v
		}
		if cmd.Flags().Changed("min-coverage") {
			v, _ := cmd.Flags().GetFloat64("min-coverage")
			if v < 0 || v > 100 {
				return fmt.Errorf("--min-coverage must be between 0 and 100")
			}
			patch.MinTestCoverage = &v
		}
		if cmd.Flags().Changed("auto-progression") {
			v, _ := cmd.Flags().GetBool("auto-progression")
			patch.AutoProgression = &v
		}
		if cmd.Flags().Changed("guardian") {
			v, _ := cmd.Flags().GetBool("guardian")
			patch.GuardianEnabled = &v
		}
		if patch.IsZero() {
			return fmt.Errorf("nothing to update: pass at least one settings flag")
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}
		before, err := provider.GetSpecDrivenSettings(context.Background(), projectID)
		if err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}
		after, err := provider.UpdateSpecDrivenSettings(context.Background(), projectID, patch)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		recordSettingsChange(projectID, before, after)
		track(telemetry.EventSettingsSaved, map[string]any{"fields": countPatchFields(patch)})

		fmt.Println("Updated settings:")
		printSettings(after)
		return nil
	},
}

func countPatchFields(p models.SpecDrivenSettingsPatch) int {
	n := 0
	if p.BypassMode != nil {
		n++
	}
	if p.MinTestCoverage != nil {
		n++
	}
	if p.AutoProgression != nil {
		n++
	}
	if p.GuardianEnabled != nil {
		n++
	}
	return n
}

func recordSettingsChange(projectID string, before, after models.SpecDrivenSettings) {
	jnl := openJournal()
	if jnl == nil {
		return
	}
	defer func() { _ = jnl.Close() }()
	if err := jnl.RecordSettingsChange(projectID, before, after); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: failed to record settings change: %v\n", err)
	}
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset spec-driven settings to backend defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := resolveProjectID(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("yes")
		if !force && !confirm(fmt.Sprintf("Reset spec-driven settings for project %s to defaults", projectID)) {
			fmt.Println("Reset cancelled.")
			return nil
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		before, err := provider.GetSpecDrivenSettings(context.Background(), projectID)
		if err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}
		after, err := provider.ResetSpecDrivenSettings(context.Background(), projectID)
		if err != nil {
			return fmt.Errorf("reset settings: %w", err)
		}
		recordSettingsChange(projectID, before, after)
		track(telemetry.EventSettingsReset, nil)

		fmt.Println("Settings reset to defaults:")
		printSettings(after)
		return nil
	},
}

var settingsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show settings changes applied from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jnl := openJournal()
		if jnl == nil {
			return fmt.Errorf("change journal unavailable")
		}
		defer func() { _ = jnl.Close() }()

		entries, err := jnl.List(journal.KindSettings, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No recorded settings changes.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  project=%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Target)
			fmt.Printf("  before: %s\n", string(e.OldValues))
			fmt.Printf("  after:  %s\n", string(e.NewValues))
		}
		return nil
	},
}

func init() {
	settingsCmd.PersistentFlags().String("project", "", "project ID (defaults to project.id from config)")

	settingsShowCmd.Flags().StringP("output", "o", "", "output format: json or yaml")

	settingsSetCmd.Flags().Bool("bypass-mode", false, "enable or disable gate bypass")
	settingsSetCmd.Flags().Float64("min-coverage", 0, "minimum test coverage percentage [0-100]")
	settingsSetCmd.Flags().Bool("auto-progression", false, "enable or disable automatic phase progression")
	settingsSetCmd.Flags().Bool("guardian", false, "enable or disable the guardian")

	settingsResetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	settingsHistoryCmd.Flags().Int("limit", 20, "maximum entries to show")

	settingsCmd.AddCommand(settingsShowCmd, settingsEditCmd, settingsSetCmd, settingsResetCmd, settingsHistoryCmd)
	rootCmd.AddCommand(settingsCmd)
}
