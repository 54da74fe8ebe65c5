package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kivo360/omoictl/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return err
		}
		state := "disabled"
		if cfg.IsEnabled() {
			state = "enabled"
		}
		fmt.Printf("Telemetry is %s.\n", state)
		if cfg.NeedsConsent() {
			fmt.Println("You have not been asked yet; run 'omoictl telemetry on' to opt in.")
		}
		return nil
	},
}

var telemetryOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable anonymous usage telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return err
		}
		cfg.Enable()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("Telemetry enabled. Events are anonymous; no project data leaves this machine.")
		return nil
	},
}

var telemetryOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable anonymous usage telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return err
		}
		cfg.Disable()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("Telemetry disabled.")
		return nil
	},
}

func init() {
	telemetryCmd.AddCommand(telemetryOnCmd, telemetryOffCmd)
	rootCmd.AddCommand(telemetryCmd)
}
