package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"micropantry-api/internal/source"
	"micropantry-api/internal/telemetry"
)

func newHistoryCmd() *cobra.Command {
	var (
		file     string
		pngPath  string
		timeZone string
		pantryID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Summarize a telemetry history file",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timeZone)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
			body, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			raw, err := source.DecodeTelemetry(body)
			if err != nil {
				return err
			}

			plot := telemetry.DefaultPlot()
			view := telemetry.BuildView(pantryID, raw, plot, loc)

			if pngPath != "" {
				f, err := os.Create(pngPath)
				if err != nil {
					return err
				}
				h := telemetry.ParseHistory(raw)
				if err := telemetry.RenderPNG(f, h.Weight, plot, loc); err != nil {
					f.Close()
					os.Remove(pngPath)
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, view)
			}
			if w := view.Weight; w != nil {
				if w.Placeholder != "" {
					fmt.Fprintln(out, w.Placeholder)
				} else {
					fmt.Fprintln(out, w.Legend)
					fmt.Fprintln(out, w.Range)
				}
			}
			if d := view.Doors; d != nil {
				if d.Placeholder != "" {
					fmt.Fprintln(out, d.Placeholder)
				} else {
					fmt.Fprintln(out, d.Summary)
					for _, e := range d.Entries {
						fmt.Fprintf(out, "  %-7s %s\n", e.Status, e.Label)
					}
				}
			}
			if pngPath != "" {
				fmt.Fprintf(out, "chart written to %s\n", pngPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "Raw telemetry JSON file")
	f.StringVar(&pngPath, "png", "", "Write the weight chart as PNG to this path")
	f.StringVar(&timeZone, "tz", "UTC", "Time zone for labels")
	f.StringVar(&pantryID, "pantry", "", "Pantry id to label the view with")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
