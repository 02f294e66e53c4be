package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/growthmap/internal/config"
	"github.com/aristath/growthmap/internal/dataset"
	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/explorer"
	"github.com/aristath/growthmap/pkg/logger"
)

var version = "dev"

// options are the persistent flags shared by every subcommand
type options struct {
	dataset string
	preset  string
	w1      float64
	w2      float64
	w3      float64
	quiet   bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Score companies and report growth potential by region",
		Long: `Report loads the company dataset, scores every company with a weighted
sum of profit margin, asset leverage and undervaluation, and reports the
result as tables, charts or an xlsx workbook.

Weights come from --preset, then any of --w1, --w2 or --w3 given explicitly.`,
		Version:      version,
		SilenceUsage: true,
	}

	defaults := domain.DefaultWeights()
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dataset, "dataset", "", "Dataset path or s3:// URI (defaults to DATASET_PATH)")
	flags.StringVar(&opts.preset, "preset", "", "Named weight preset")
	flags.Float64Var(&opts.w1, "w1", defaults.ProfitMargin, "Profit margin weight")
	flags.Float64Var(&opts.w2, "w2", defaults.AssetLeverage, "Asset leverage weight")
	flags.Float64Var(&opts.w3, "w3", defaults.Undervaluation, "Undervaluation weight")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress log output")

	cmd.AddCommand(newRankCommand(opts))
	cmd.AddCommand(newRegionsCommand(opts))
	cmd.AddCommand(newChartCommand(opts))
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}

// weights resolves the preset and explicit slider flags into one vector
func (o *options) weights(cmd *cobra.Command, presets []config.Preset) (domain.WeightVector, error) {
	w := domain.DefaultWeights()
	if o.preset != "" {
		p, ok := config.FindPreset(presets, o.preset)
		if !ok {
			return w, fmt.Errorf("unknown preset %q", o.preset)
		}
		w = p.Weights
	}

	flags := cmd.Flags()
	if flags.Changed("w1") {
		w.ProfitMargin = o.w1
	}
	if flags.Changed("w2") {
		w.AssetLeverage = o.w2
	}
	if flags.Changed("w3") {
		w.Undervaluation = o.w3
	}
	return w, nil
}

func (o *options) logger(level string) zerolog.Logger {
	if o.quiet {
		return logger.Nop()
	}
	return logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})
}

// explore loads the dataset and runs a single query.
// Rejected weights are an error here; there is no previous result to keep.
func (o *options) explore(cmd *cobra.Command, g domain.Granularity, topN int) (*explorer.View, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if o.dataset != "" {
		cfg.Dataset.Path = o.dataset
	}
	log := o.logger(cfg.LogLevel)

	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, err
	}
	weights, err := o.weights(cmd, presets)
	if err != nil {
		return nil, err
	}

	src, err := dataset.NewSource(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	records, stats, err := dataset.LoadAndFilter(cmd.Context(), src)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("source", src.Name()).
		Int("rows", stats.Total).
		Int("kept", stats.Kept).
		Msg("Dataset loaded")

	service := explorer.NewService(records, explorer.Config{
		CacheMaxEntries:    1,
		HighScoreThreshold: cfg.HighScoreThreshold,
	}, log)

	view, err := service.Explore(explorer.Query{Weights: weights, Granularity: g, TopN: topN})
	if err != nil {
		return nil, err
	}
	if view.Error != "" {
		return nil, fmt.Errorf("%s", view.Error)
	}
	return view, nil
}
