package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/kivo360/omoictl/internal/telemetry"
)

var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store an API token for the configured backend",
	Long: `Store an API token for the configured backend. With no argument the
token is read from a masked prompt so it stays out of shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = strings.TrimSpace(args[0])
		} else {
			prompt := promptui.Prompt{
				Label: "API token",
				Mask:  '*',
				Validate: func(input string) error {
					if strings.TrimSpace(input) == "" {
						return fmt.Errorf("token must not be empty")
					}
					return nil
				},
			}
			entered, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			token = strings.TrimSpace(entered)
		}

		session, err := newSession()
		if err != nil {
			return err
		}
		if err := session.SignIn(token); err != nil {
			return err
		}

		// Verify the token actually works before declaring success.
		provider, err := newProvider()
		if err != nil {
			return err
		}
		if _, err := provider.ListAgents(context.Background()); err != nil {
			fmt.Printf("Token stored, but the backend check failed: %v\n", err)
			return nil
		}

		track(telemetry.EventSessionStart, nil)
		fmt.Printf("Signed in to %s\n", GetConfig().Backend.URL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		if err := session.SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
