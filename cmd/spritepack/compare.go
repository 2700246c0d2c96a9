package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SpritePack/internal/engine"
)

func newCompareCommand(a *app) *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "compare INPUT",
		Short: "Compare orderings and setting variants on one sprite list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(a, cmd)
			if err != nil {
				return err
			}
			rects, err := a.loadRects(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			opts := []engine.Option{engine.WithLogger(a.logger)}

			byOrdering, err := engine.CompareOrderings(ctx, settings, rects, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, comparisonTable("Ordering", byOrdering))

			scenarios, err := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(settings), rects, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, comparisonTable("Scenario", scenarios))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func comparisonTable(kind string, results []engine.ComparisonResult) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{kind, "Winner", "Tight", "Bin", "Placed", "Unplaced", "Efficiency"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	for _, r := range results {
		tbl.AppendRow(table.Row{
			r.Name,
			string(r.Result.Heuristic),
			fmt.Sprintf("%dx%d", r.Result.Tight.W, r.Result.Tight.H),
			fmt.Sprintf("%dx%d", r.Result.Bin.W, r.Result.Bin.H),
			r.PlacedCount,
			r.UnplacedCount,
			fmt.Sprintf("%.1f%%", r.Efficiency),
		})
	}
	return tbl.Render()
}
