package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kivo360/omoictl/internal/ui"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show the agent fleet",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		list, err := provider.ListAgents(context.Background())
		if err != nil {
			return fmt.Errorf("fetch agents: %w", err)
		}
		fmt.Print(ui.RenderAgentsTable(list))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
