package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/aggregation"
	"github.com/aristath/growthmap/internal/reporting"
)

func newExportCommand(opts *options) *cobra.Command {
	var (
		out         string
		top         int
		granularity string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rankings and region scores to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			g, err := domain.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			view, err := opts.explore(cmd, g, top)
			if err != nil {
				return err
			}
			if err := reporting.SaveWorkbook(out, view); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workbook written: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook (.xlsx)")
	cmd.Flags().IntVar(&top, "top", aggregation.MaxTopN, "Number of companies in the rankings sheet")
	cmd.Flags().StringVar(&granularity, "granularity", string(domain.GranularityContinent), "Continent or Country")

	return cmd
}
