package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/aggregation"
	"github.com/aristath/growthmap/internal/reporting"
)

func newRankCommand(opts *options) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the top companies by growth score",
		Long: `Print the highest scoring companies, best first.

--top is clamped to the range 5..50.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.explore(cmd, domain.GranularityContinent, top)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Weights: %s (normalized %s)\n\n", view.Weights, view.NormalizedWeights)
			if err := reporting.RankingTable(view.Rankings).Render(out); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s companies scored\n", reporting.FormatCount(view.CompanyCount))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", aggregation.DefaultTopN, "Number of companies to show")

	return cmd
}
