package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/smspocoredondo/DashUPA/internal/config"
)

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Print the available scoring and keyword profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("profiles")
			p, err := config.LoadProfiles(path)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
	cmd.Flags().String("profiles", "", "Optional YAML file with extra profiles")
	return cmd
}
