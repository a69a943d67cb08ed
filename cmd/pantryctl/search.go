package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"micropantry-api/internal/foodguide"
	"micropantry-api/internal/service"
)

func newSearchCmd() *cobra.Command {
	var guidePath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank donation guide entries for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guide, err := foodguide.Load(guidePath)
			if err != nil {
				return err
			}
			rows := service.NewGuideService(guide).Search(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%-8s %-6s %-30s %s\n", r.Kind, r.Color, r.Name, r.CategoryName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&guidePath, "guide", "", "Food guide YAML file (default: built-in guide)")
	return cmd
}
