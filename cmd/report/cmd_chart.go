package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/charts"
	"github.com/aristath/growthmap/internal/modules/mapping"
)

const (
	chartKindRegions = "regions"
	chartKindMap     = "map"
)

func newChartCommand(opts *options) *cobra.Command {
	var (
		out         string
		kind        string
		granularity string
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the region bar chart or the company map",
		Long: `Render a chart to a file. The image format follows the file extension:
.png, .svg or .pdf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			format, err := charts.ParseFormat(filepath.Ext(out))
			if err != nil {
				return err
			}
			if kind != chartKindRegions && kind != chartKindMap {
				return fmt.Errorf("unknown chart kind %q (must be %s or %s)", kind, chartKindRegions, chartKindMap)
			}
			g, err := domain.ParseGranularity(granularity)
			if err != nil {
				return err
			}

			view, err := opts.explore(cmd, g, 0)
			if err != nil {
				return err
			}

			svc := charts.NewService(charts.DefaultConfig(), opts.logger("info"))
			var img []byte
			if kind == chartKindMap {
				img, err = svc.MapChart(view.MapPoints, mapping.DefaultViewState(), format)
			} else {
				img, err = svc.RegionBarChart(view.ChartRegions, view.Granularity, format)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, img, 0644); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (.png, .svg or .pdf)")
	cmd.Flags().StringVar(&kind, "kind", chartKindRegions, "Chart kind: regions or map")
	cmd.Flags().StringVar(&granularity, "granularity", string(domain.GranularityContinent), "Continent or Country")

	return cmd
}
