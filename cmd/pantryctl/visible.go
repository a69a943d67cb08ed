package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"micropantry-api/internal/discovery"
	"micropantry-api/internal/source"
)

func newVisibleCmd() *cobra.Command {
	var (
		catalogPath              string
		north, south, east, west float64
		typ, stock, restock      string
	)

	cmd := &cobra.Command{
		Use:   "visible",
		Short: "Compute the ordered pantry list for a viewport",
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := discovery.ParseBounds(
				strconv.FormatFloat(north, 'f', -1, 64),
				strconv.FormatFloat(south, 'f', -1, 64),
				strconv.FormatFloat(east, 'f', -1, 64),
				strconv.FormatFloat(west, 'f', -1, 64),
			)
			if err != nil {
				return err
			}
			controls, err := discovery.ParseControls(typ, stock, restock)
			if err != nil {
				return err
			}

			body, err := os.ReadFile(catalogPath)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			pantries, err := source.DecodeCatalog(body)
			if err != nil {
				return err
			}

			visible := discovery.ComputeVisibleList(pantries, bounds, controls)
			view := discovery.BuildListView(visible, controls, time.Now())

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, view)
			}
			fmt.Fprintln(out, view.Title)
			if view.Empty != "" {
				fmt.Fprintln(out, view.Empty)
				return nil
			}
			for _, c := range view.Cards {
				fmt.Fprintf(out, "%-12s %-30s %-7s %4d  %-10s %s\n", c.ID, c.Title, c.Type, c.Stock, c.Badge.Label, c.Restock)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&catalogPath, "catalog", "", "Pantry catalog JSON file")
	f.Float64Var(&north, "north", 0, "Northern edge latitude")
	f.Float64Var(&south, "south", 0, "Southern edge latitude")
	f.Float64Var(&east, "east", 0, "Eastern edge longitude")
	f.Float64Var(&west, "west", 0, "Western edge longitude")
	f.StringVar(&typ, "type", discovery.TypeAll, "Type filter: all, fridge or shelf")
	f.StringVar(&stock, "stock", discovery.StockAny, "Stock sort: any, high-low or low-high")
	f.StringVar(&restock, "restock", discovery.RestockNewest, "Restock sort: newest or oldest")
	_ = cmd.MarkFlagRequired("catalog")
	for _, name := range []string{"north", "south", "east", "west"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
