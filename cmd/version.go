package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the omoictl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("omoictl %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
