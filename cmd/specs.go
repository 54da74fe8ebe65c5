package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kivo360/omoictl/internal/ui"
)

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Inspect specs and their phase progression",
}

var specsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List specs with their phase pipelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := resolveProjectID(cmd)
		if err != nil {
			return err
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		var sp *ui.Spinner
		if ui.IsInteractive() {
			sp = ui.NewFetchSpinner("specs")
			sp.Start()
		}
		specs, err := provider.ListSpecs(context.Background(), projectID)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return fmt.Errorf("fetch specs: %w", err)
		}
		fmt.Print(ui.RenderSpecsTable(specs))
		return nil
	},
}

var specsStatusCmd = &cobra.Command{
	Use:   "status <spec-id>",
	Short: "Show one spec's phase progression in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		spec, err := provider.GetSpec(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetch spec %s: %w", args[0], err)
		}
		fmt.Println(ui.StyleTitle.Render(spec.Title))
		fmt.Printf("  id:     %s\n", spec.ID)
		fmt.Printf("  status: %s\n\n", spec.Status)
		fmt.Print(ui.RenderPhaseDetail(spec))
		return nil
	},
}

func init() {
	specsListCmd.Flags().String("project", "", "project ID (defaults to project.id from config)")
	specsCmd.AddCommand(specsListCmd, specsStatusCmd)
	rootCmd.AddCommand(specsCmd)
}
