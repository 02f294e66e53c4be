/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to handlers for access to services.
 */
package di

import (
	"sync"
	"time"

	"github.com/aristath/growthmap/internal/config"
	"github.com/aristath/growthmap/internal/dataset"
	"github.com/aristath/growthmap/internal/modules/charts"
	"github.com/aristath/growthmap/internal/modules/explorer"
	"github.com/rs/zerolog"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Presets []config.Preset

	// Dataset
	Source dataset.Source

	// Services
	Explorer *explorer.Service
	Charts   *charts.Service

	mu       sync.RWMutex
	stats    dataset.FilterStats
	loadedAt time.Time
	log      zerolog.Logger
}

// DatasetStatus describes the currently loaded dataset
type DatasetStatus struct {
	Source      string              `json:"source"`
	Version     uint64              `json:"version"`
	LoadedAt    time.Time           `json:"loaded_at"`
	FilterStats dataset.FilterStats `json:"filter_stats"`
}
