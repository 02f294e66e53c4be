package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/reporting"
)

func newRegionsCommand(opts *options) *cobra.Command {
	var granularity string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Print average growth score per region",
		Long: `Print the mean growth score of each continent or country, best first,
followed by the number of companies per continent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := domain.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			view, err := opts.explore(cmd, g, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := reporting.RegionTable(view.Regions, view.Granularity).Render(out); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return reporting.ContinentTable(view.ContinentCounts).Render(out)
		},
	}

	cmd.Flags().StringVar(&granularity, "granularity", string(domain.GranularityContinent), "Continent or Country")

	return cmd
}
