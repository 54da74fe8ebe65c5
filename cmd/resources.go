package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kivo360/omoictl/internal/journal"
	"github.com/kivo360/omoictl/internal/telemetry"
	"github.com/kivo360/omoictl/internal/ui"
	"github.com/kivo360/omoictl/models"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Inspect and adjust sandbox resource allocations",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sandboxes with their allocations and usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		var sp *ui.Spinner
		if ui.IsInteractive() {
			sp = ui.NewFetchSpinner("sandboxes")
			sp.Start()
		}
		records, err := provider.ListSandboxResources(context.Background())
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return fmt.Errorf("fetch sandbox resources: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No sandboxes found.")
			return nil
		}
		sort.Slice(records, func(i, j int) bool { return records[i].SandboxID < records[j].SandboxID })

		t := ui.Table{
			Headers:    []string{"SANDBOX", "CPU", "MEMORY", "DISK", "CPU%", "MEM%", "DISK%"},
			MaxWidth:   24,
			AlignRight: []int{4, 5, 6},
		}
		for _, r := range records {
			t.Rows = append(t.Rows, []string{
				ui.TruncateID(r.SandboxID),
				fmt.Sprintf("%d cores", r.Allocation.CPUCores),
				fmt.Sprintf("%d GB", r.Allocation.MemoryGB),
				fmt.Sprintf("%d GB", r.Allocation.DiskGB),
				fmt.Sprintf("%.0f", r.Usage.CPUPercent),
				fmt.Sprintf("%.0f", r.Usage.MemoryPercent),
				fmt.Sprintf("%.0f", r.Usage.DiskPercent),
			})
		}
		fmt.Print(t.Render())
		return nil
	},
}

var resourcesEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Adjust allocations interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("resources edit requires an interactive terminal; use 'resources set' instead")
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		jnl := openJournal()
		if jnl != nil {
			defer func() { _ = jnl.Close() }()
		}
		track(telemetry.EventPanelOpened, map[string]any{"panel": "resources"})
		return ui.RunResourcesPanel(provider, jnl, allocationBounds())
	},
}

var resourcesSetCmd = &cobra.Command{
	Use:   "set <sandbox-id>",
	Short: "Update a sandbox allocation non-interactively",
	Long: `Update a sandbox's resource allocation from flags. Only the flags you
pass are sent; the other resources keep their current values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sandboxID := args[0]
		bounds := allocationBounds()

		var patch models.ResourceAllocationPatch
		if cmd.Flags().Changed("cpu") {
			v, _ := cmd.Flags().GetInt("cpu")
			if v < bounds.CPU.Min || v > bounds.CPU.Max {
				return fmt.Errorf("--cpu must be between %d and %d", bounds.CPU.Min, bounds.CPU.Max)
			}
			patch.CPUCores = &v
		}
		if cmd.Flags().Changed("memory") {
			v, _ := cmd.Flags().GetInt("memory")
			if v < bounds.Memory.Min || v > bounds.Memory.Max {
				return fmt.Errorf("--memory must be between %d and %d", bounds.Memory.Min, bounds.Memory.Max)
			}
			patch.MemoryGB = &v
		}
		if cmd.Flags().Changed("disk") {
			v, _ := cmd.Flags().GetInt("disk")
			if v < bounds.Disk.Min || v > bounds.Disk.Max {
				return fmt.Errorf("--disk must be between %d and %d", bounds.Disk.Min, bounds.Disk.Max)
			}
			patch.DiskGB = &v
		}
		if patch.IsZero() {
			return fmt.Errorf("nothing to update: pass --cpu, --memory, or --disk")
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}
		before, err := provider.GetSandboxResource(context.Background(), sandboxID)
		if err != nil {
			return fmt.Errorf("fetch sandbox %s: %w", sandboxID, err)
		}
		after, err := provider.UpdateAllocation(context.Background(), sandboxID, patch)
		if err != nil {
			return fmt.Errorf("update allocation: %w", err)
		}
		if jnl := openJournal(); jnl != nil {
			_ = jnl.RecordAllocationChange(sandboxID, before.Allocation, after.Allocation)
			_ = jnl.Close()
		}
		track(telemetry.EventAllocationApply, map[string]any{"fields": countAllocationFields(patch)})

		fmt.Printf("Updated %s: %d cores, %d GB memory, %d GB disk\n",
			sandboxID, after.Allocation.CPUCores, after.Allocation.MemoryGB, after.Allocation.DiskGB)
		return nil
	},
}

func countAllocationFields(p models.ResourceAllocationPatch) int {
	n := 0
	if p.CPUCores != nil {
		n++
	}
	if p.MemoryGB != nil {
		n++
	}
	if p.DiskGB != nil {
		n++
	}
	return n
}

var resourcesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show fleet-wide resource totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		s, err := provider.GetResourceSummary(context.Background())
		if err != nil {
			return fmt.Errorf("fetch resource summary: %w", err)
		}
		fmt.Printf("  sandboxes:     %d\n", s.SandboxCount)
		fmt.Printf("  total cpu:     %d cores\n", s.TotalCPUCores)
		fmt.Printf("  total memory:  %d GB\n", s.TotalMemoryGB)
		fmt.Printf("  total disk:    %d GB\n", s.TotalDiskGB)
		fmt.Printf("  avg cpu use:   %.1f%%\n", s.AvgCPUPercent)
		fmt.Printf("  avg mem use:   %.1f%%\n", s.AvgMemoryPercent)
		return nil
	},
}

var resourcesHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show allocation changes applied from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jnl := openJournal()
		if jnl == nil {
			return fmt.Errorf("change journal unavailable")
		}
		defer func() { _ = jnl.Close() }()

		entries, err := jnl.List(journal.KindAllocation, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No recorded allocation changes.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  sandbox=%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Target)
			fmt.Printf("  before: %s\n", string(e.OldValues))
			fmt.Printf("  after:  %s\n", string(e.NewValues))
		}
		return nil
	},
}

func init() {
	resourcesSetCmd.Flags().Int("cpu", 0, "CPU cores to allocate")
	resourcesSetCmd.Flags().Int("memory", 0, "memory to allocate in GB")
	resourcesSetCmd.Flags().Int("disk", 0, "disk to allocate in GB")

	resourcesHistoryCmd.Flags().Int("limit", 20, "maximum entries to show")

	resourcesCmd.AddCommand(resourcesListCmd, resourcesEditCmd, resourcesSetCmd, resourcesSummaryCmd, resourcesHistoryCmd)
	rootCmd.AddCommand(resourcesCmd)
}
