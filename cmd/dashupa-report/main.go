package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashupa-report",
		Short: "Offline encounter analysis for UPA spreadsheet exports",
	}
	rootCmd.AddCommand(analyzeCmd(), profilesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
