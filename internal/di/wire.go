// Package di provides dependency injection wiring and initialization.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/growthmap/internal/config"
	"github.com/aristath/growthmap/internal/dataset"
	"github.com/aristath/growthmap/internal/modules/charts"
	"github.com/aristath/growthmap/internal/modules/explorer"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Load weight presets
// 2. Load and filter the dataset (fatal on DataSourceError)
// 3. Initialize services
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		log:    log.With().Str("component", "di").Logger(),
	}

	// Step 1: Presets
	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	container.Presets = presets

	// Step 2: Dataset
	source, err := dataset.NewSource(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	container.Source = source

	records, stats, err := dataset.LoadAndFilter(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	container.setStats(stats)
	logFilterStats(container.log, source.Name(), stats)

	// Step 3: Services
	container.Explorer = explorer.NewService(records, explorer.Config{
		CacheMaxEntries:    cfg.CacheMaxEntries,
		HighScoreThreshold: cfg.HighScoreThreshold,
	}, log)
	container.Charts = charts.NewService(charts.DefaultConfig(), log)

	log.Info().Int("presets", len(presets)).Msg("Dependency injection wiring completed successfully")

	return container, nil
}

// ReloadDataset re-reads the configured source and swaps it into the explorer.
// On failure the current dataset stays in place.
func (c *Container) ReloadDataset(ctx context.Context) (DatasetStatus, error) {
	records, stats, err := dataset.LoadAndFilter(ctx, c.Source)
	if err != nil {
		c.log.Error().Err(err).Str("source", c.Source.Name()).Msg("Dataset reload failed, keeping current data")
		return c.DatasetStatus(), fmt.Errorf("failed to reload dataset: %w", err)
	}

	c.Explorer.Reload(records)
	c.setStats(stats)
	logFilterStats(c.log, c.Source.Name(), stats)
	return c.DatasetStatus(), nil
}

// DatasetStatus reports what is currently loaded
func (c *Container) DatasetStatus() DatasetStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return DatasetStatus{
		Source:      c.Source.Name(),
		Version:     c.Explorer.DatasetVersion(),
		LoadedAt:    c.loadedAt,
		FilterStats: c.stats,
	}
}

func (c *Container) setStats(stats dataset.FilterStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.loadedAt = time.Now()
}

func logFilterStats(log zerolog.Logger, source string, stats dataset.FilterStats) {
	event := log.Info()
	if stats.Kept == 0 {
		event = log.Warn()
	}
	event.
		Str("source", source).
		Int("rows", stats.Total).
		Int("missing", stats.Missing).
		Int("non_positive", stats.NonPositive).
		Int("kept", stats.Kept).
		Msg("Dataset loaded")
}
